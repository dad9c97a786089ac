// Package config reads service settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// SplitDefaults are the commission percentages given to organically created deals.
type SplitDefaults struct {
	House       decimal.Decimal
	Origination decimal.Decimal
	Site        decimal.Decimal
	Deal        decimal.Decimal
}

type Config struct {
	Port string
	Env  string

	DBHost       string
	DBPort       uint
	DBName       string
	DBSecretID   string
	DBSSLDisable bool
	Migrations   bool

	AlertWebhookURL    string
	CORSAllowedOrigins []string

	AdminEmail    string
	AdminPassword string

	Defaults SplitDefaults
}

// Load reads .env when present, then the environment, falling back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = uint(parseUint("DB_PORT", 5432))
	cfg.DBName = getEnv("DB_NAME", "commission")
	cfg.DBSecretID = os.Getenv("DB_SECRET_ID")
	cfg.DBSSLDisable = ParseBool("DB_SSL_MODE_DISABLE", false)
	cfg.Migrations = ParseBool("MIGRATIONS", false)

	cfg.AlertWebhookURL = os.Getenv("ALERT_WEBHOOK_URL")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	cfg.Defaults = SplitDefaults{
		House:       parseDecimal("DEFAULT_HOUSE_PERCENT", 40),
		Origination: parseDecimal("DEFAULT_ORIGINATION_PERCENT", 50),
		Site:        parseDecimal("DEFAULT_SITE_PERCENT", 25),
		Deal:        parseDecimal("DEFAULT_DEAL_PERCENT", 25),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default. "1", "true" and "yes" are true.
func ParseBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return def
	}
	if v == "yes" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid boolean for %s: %s", key, v)
		return def
	}
	return b
}

func parseUint(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("[config] invalid number for %s: %s", key, v)
		return def
	}
	return n
}

func parseDecimal(key string, def int64) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return decimal.NewFromInt(def)
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		log.Printf("[config] invalid percent for %s: %s", key, v)
		return decimal.NewFromInt(def)
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
