package seeds

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/services"
)

// SeedServices populates the starter catalog when it is empty.
func SeedServices(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&services.Service{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if count > 0 {
		return nil
	}

	starter := []services.Service{
		{
			Name:        "Basic",
			Description: "For small businesses getting started",
			Category:    "managed-it",
			Price:       299,
			Features: []string{
				"Remote IT support (business hours)",
				"Basic security monitoring",
				"Email & phone support",
				"Up to 10 devices",
			},
		},
		{
			Name:        "Professional",
			Description: "For growing businesses with advanced needs",
			Category:    "managed-it",
			Price:       599,
			Features: []string{
				"24/7 remote IT support",
				"Advanced threat detection",
				"Priority response times",
				"Up to 50 devices",
			},
		},
		{
			Name:        "Enterprise",
			Description: "Complete coverage for established organizations",
			Category:    "managed-it",
			Price:       1299,
			Features: []string{
				"24/7 support with on-site visits",
				"Managed detection and response",
				"Dedicated account manager",
				"Unlimited devices",
			},
		},
	}

	if err := gdb.Create(&starter).Error; err != nil {
		return fmt.Errorf("seed services: %w", err)
	}
	return nil
}
