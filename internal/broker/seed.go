package broker

import (
	"errors"
	"log"

	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/utils"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap admin when email and password are set and
// no broker with that email exists yet.
func EnsureAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	repo := NewRepository()
	_, err := repo.FindByEmail(db, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	b := models.Broker{Name: "Administrator", Email: email, Password: hash, IsAdmin: true, Active: true}
	if err := repo.Save(db, &b); err != nil {
		return err
	}
	log.Printf("[broker] bootstrap admin created: %s", b.Email)
	return nil
}
