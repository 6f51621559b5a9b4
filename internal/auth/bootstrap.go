package auth

import (
	"errors"
	"log"

	"github.com/vitrine-dev/vitrine/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureDefaultAdmin creates the configured admin user if no user with that
// username exists. Runs once at startup; safe to call on every boot.
func EnsureDefaultAdmin(conn *gorm.DB, username, rawPassword string) error {
	var existing models.User

	err := conn.Where("username = ?", username).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(passwordHash),
	}

	if err := conn.Create(&user).Error; err != nil {
		return err
	}

	log.Printf("Created default user %q", username)

	return nil
}
