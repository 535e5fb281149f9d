package auth

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Company      string `json:"company,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         string `gorm:"default:'customer'" json:"role"`
	Status       string `gorm:"default:'active'" json:"status"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

type PasswordReset struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (User) TableName() string          { return "app_auth.users" }
func (Session) TableName() string       { return "app_auth.sessions" }
func (PasswordReset) TableName() string { return "app_auth.password_resets" }

// PublicUser is the projection returned to clients. The password hash never
// leaves this package.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
