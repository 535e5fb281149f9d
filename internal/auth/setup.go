package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/db"
)

// Init ensures the auth schema and tables exist. Idempotent.
func Init(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "app_auth"); err != nil {
		return fmt.Errorf("ensure schema app_auth: %w", err)
	}
	if err := gdb.AutoMigrate(&User{}, &Session{}, &PasswordReset{}); err != nil {
		return fmt.Errorf("migrate auth tables: %w", err)
	}
	return nil
}
