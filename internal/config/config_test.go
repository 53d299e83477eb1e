package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend.local/api/")
	t.Setenv("DRAFT_TTL_MINUTES", "30")

	cfg := Load()

	assert.Equal(t, "gestion-api", cfg.App.Name)
	assert.Equal(t, "http://backend.local/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Redis.DraftTTL)
	assert.Equal(t, "54", cfg.WhatsApp.DefaultCountryCode)
	assert.Equal(t, "none", cfg.Printer.Type)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", Name: "n", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}

func TestLocation(t *testing.T) {
	app := AppConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, app.Location())

	app.Timezone = "UTC"
	assert.Equal(t, "UTC", app.Location().String())
}
