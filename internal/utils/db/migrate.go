package db

import (
	"errors"
	"fmt"
	"log"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/oculusrep/commission-api/internal/auth"
	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. With sqlFiles set it runs the files in
// ./migrations through golang-migrate; otherwise it falls back to AutoMigrate.
func Migrate(database *gorm.DB, dsn string, sqlFiles bool) error {
	if sqlFiles {
		log.Println("[db] running sql migrations")
		return runSQLMigrations(dsn)
	}
	if err := AutoMigrate(database); err != nil {
		return err
	}
	for _, table := range []string{"brokers", "deals", "payment_splits"} {
		if !database.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or updates every table the API owns.
func AutoMigrate(database *gorm.DB) error {
	toMigrate := append(models.All(), &auth.RefreshToken{})
	for _, m := range toMigrate {
		if err := database.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
