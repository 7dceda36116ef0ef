package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_USER", "campuseats")
	os.Setenv("DB_NAME", "campuseats")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("COURIER_SHARE", "0.75")
	defer os.Unsetenv("COURIER_SHARE")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "campuseats", cfg.DBUser)
	assert.Equal(t, 0.75, cfg.CourierShare)
	assert.Equal(t, "usd", cfg.Currency)
}

func TestParseShare(t *testing.T) {
	t.Run("Empty_UsesDefault", func(t *testing.T) {
		assert.Equal(t, defaultCourierShare, parseShare(""))
	})

	t.Run("Invalid_UsesDefault", func(t *testing.T) {
		assert.Equal(t, defaultCourierShare, parseShare("not-a-number"))
		assert.Equal(t, defaultCourierShare, parseShare("1.5"))
		assert.Equal(t, defaultCourierShare, parseShare("-0.2"))
	})

	t.Run("Valid", func(t *testing.T) {
		assert.Equal(t, 0.9, parseShare("0.9"))
	})
}
