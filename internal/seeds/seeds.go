package seeds

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cybershield-it/backend/internal/auth"
	"github.com/cybershield-it/backend/internal/config"
)

// EnsureAdmin creates the bootstrap admin when no admin-role user exists.
// Refuses to run without a configured password so a default credential never
// ships.
func EnsureAdmin(gdb *gorm.DB, admin config.Admin) error {
	var existing auth.User
	err := gdb.First(&existing, "role = ?", auth.RoleAdmin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check for admin: %w", err)
	}

	if admin.Password == "" {
		return fmt.Errorf("no admin user exists and ADMIN_PASSWORD is not set")
	}
	if len(admin.Password) < auth.MinPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
	}

	var hasher auth.Hasher
	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := auth.User{
		Name:         admin.Name,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		Status:       auth.StatusActive,
	}
	if err := gdb.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}
