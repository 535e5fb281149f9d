package customers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/db"
)

func Init(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "crm"); err != nil {
		return fmt.Errorf("ensure schema crm: %w", err)
	}
	if err := gdb.AutoMigrate(&ServiceAssignment{}); err != nil {
		return fmt.Errorf("migrate crm tables: %w", err)
	}
	return nil
}
