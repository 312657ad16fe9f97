package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		SessionSecret: "a-long-random-secret-value-of-32-chars!",
		Port:          "5000",
		DBHost:        "db.internal",
		DBPort:        "5432",
		DBUser:        "warbler",
		DBPassword:    "s3cure-db-pass",
		DBName:        "warbler",
		DBSSLMode:     "require",
		Env:           "production",
	}
}

func TestValidate_Development(t *testing.T) {
	cfg := &Config{
		SessionSecret: "warbler-secret-change-in-production",
		Port:          "5000",
		DBPassword:    "password",
		DBSSLMode:     "disable",
		Env:           "development",
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingRequired(t *testing.T) {
	t.Run("Port", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Port = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PORT")
	})

	t.Run("Session Secret", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.SessionSecret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_SECRET")
	})
}

func TestValidate_Production(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validProductionConfig().Validate())
	})

	t.Run("Default Secret Rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.SessionSecret = "warbler-secret-change-in-production"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default value")
	})

	t.Run("Short Secret Rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.SessionSecret = "short"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("Weak DB Password Rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.DBPassword = "password"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
	})

	t.Run("Disabled SSL Rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.DBSSLMode = "disable"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_SSLMODE")
	})

	t.Run("Prod Alias", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Env = "prod"
		cfg.DBSSLMode = "disable"
		assert.Error(t, cfg.Validate())
	})
}
