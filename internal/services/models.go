package services

import (
	"time"

	"github.com/lib/pq"
)

// Service is a catalog entry shown on the marketing site and assignable to
// customers.
type Service struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Price       float64        `json:"price"`
	Features    pq.StringArray `gorm:"type:text[]" json:"features"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Service) TableName() string { return "catalog.services" }
