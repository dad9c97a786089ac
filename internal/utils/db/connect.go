package db

import (
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/oculusrep/commission-api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDataBase opens the postgres connection described by cfg. Credentials
// come from DB_USERNAME/DB_PASSWORD or, failing that, from Secrets Manager.
func ConnectDataBase(cfg config.Config) (*gorm.DB, string, error) {
	username, password, err := retrieveCredentials(cfg.DBSecretID)
	if err != nil {
		return nil, "", fmt.Errorf("db credentials: %w", err)
	}
	dsn := buildDSN(cfg, username, password)

	level := logger.Error
	if os.Getenv("DB_DEBUG") == "1" {
		level = logger.Info
	}
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, "", err
	}
	log.Printf("[db] connected host=%s db=%s", cfg.DBHost, cfg.DBName)
	return database, dsn, nil
}

// GetDB loads the configuration and connects.
func GetDB() (*gorm.DB, error) {
	database, _, err := ConnectDataBase(config.Load())
	return database, err
}

// buildDSN returns a URL-form DSN, accepted by both pgx and golang-migrate.
func buildDSN(cfg config.Config, username, password string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(username, password),
		Host:   fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort),
		Path:   "/" + cfg.DBName,
	}
	if cfg.DBSSLDisable {
		u.RawQuery = "sslmode=disable"
	}
	return u.String()
}
