package enquiries

import "time"

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusClosed    = "closed"
)

// Enquiry is a contact-form submission from the marketing site.
type Enquiry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Service   string    `json:"service,omitempty"`
	Message   string    `gorm:"not null" json:"message"`
	Status    string    `gorm:"default:'new';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enquiry) TableName() string { return "crm.enquiries" }

func validStatus(s string) bool {
	return s == StatusNew || s == StatusContacted || s == StatusClosed
}
