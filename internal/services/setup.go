package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/db"
)

func Init(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "catalog"); err != nil {
		return fmt.Errorf("ensure schema catalog: %w", err)
	}
	if err := gdb.AutoMigrate(&Service{}); err != nil {
		return fmt.Errorf("migrate catalog tables: %w", err)
	}
	return nil
}
