package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DEFAULT_HOUSE_PERCENT", "")
	t.Setenv("DEFAULT_ORIGINATION_PERCENT", "")
	t.Setenv("DEFAULT_SITE_PERCENT", "")
	t.Setenv("DEFAULT_DEAL_PERCENT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port got %s", cfg.Port)
	}
	want := []int64{40, 50, 25, 25}
	got := []decimal.Decimal{cfg.Defaults.House, cfg.Defaults.Origination, cfg.Defaults.Site, cfg.Defaults.Deal}
	for i := range want {
		if !got[i].Equal(decimal.NewFromInt(want[i])) {
			t.Fatalf("default %d: expected %d got %s", i, want[i], got[i])
		}
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_HOUSE_PERCENT", "35.5")
	t.Setenv("DEFAULT_SITE_PERCENT", "150")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if !cfg.Defaults.House.Equal(decimal.RequireFromString("35.5")) {
		t.Fatalf("house override ignored: %s", cfg.Defaults.House)
	}
	if !cfg.Defaults.Site.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("out of range percent should fall back: %s", cfg.Defaults.Site)
	}
	if !cfg.Migrations || cfg.DBPort != 6543 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}
