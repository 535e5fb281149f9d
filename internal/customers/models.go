package customers

import "time"

const (
	AssignmentActive = "active"
)

// ServiceAssignment links a customer to a catalog service they subscribe to.
type ServiceAssignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	ServiceID   uint      `gorm:"not null" json:"service_id"`
	Status      string    `gorm:"default:'active'" json:"status"`
	StartDate   time.Time `gorm:"autoCreateTime" json:"start_date"`
	RenewalDate time.Time `json:"renewal_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ServiceAssignment) TableName() string { return "crm.customer_services" }

// Customer is the admin-console projection of a customer-role user.
type Customer struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Company  string    `json:"company,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Status   string    `json:"status"`
	JoinDate time.Time `json:"joinDate"`
}

// AssignedService is an assignment joined with its catalog entry.
type AssignedService struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"start_date"`
	RenewalDate time.Time `json:"renewal_date"`
}
