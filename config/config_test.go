package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("MKC_INT", "42")
	t.Setenv("MKC_BAD_INT", "forty")
	t.Setenv("MKC_BOOL", "true")

	assert.Equal(t, 42, GetEnvAsInt("MKC_INT", 1))
	assert.Equal(t, 1, GetEnvAsInt("MKC_BAD_INT", 1))
	assert.Equal(t, 7, GetEnvAsInt("MKC_MISSING", 7))
	assert.True(t, GetEnvAsBool("MKC_BOOL", false))
	assert.Equal(t, "fallback", GetEnv("MKC_MISSING", "fallback"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("APP_TIMEZONE", "Nowhere/Invalid")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 24, cfg.JWTTTLHours)
	assert.NotNil(t, cfg.Location)
	assert.Empty(t, cfg.ReminderCron)
}

func TestDialector(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DatabaseConfig
		want    string
		wantErr bool
	}{
		{name: "mysql default", cfg: DatabaseConfig{Host: "db", Port: 3306, User: "u", Name: "office"}, want: "mysql"},
		{name: "postgres", cfg: DatabaseConfig{Driver: "postgres", URL: "postgres://u@db/office"}, want: "postgres"},
		{name: "postgres without url", cfg: DatabaseConfig{Driver: "postgres"}, wantErr: true},
		{name: "sqlite", cfg: DatabaseConfig{Driver: "sqlite"}, want: "sqlite"},
		{name: "unknown", cfg: DatabaseConfig{Driver: "oracle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestInsecureJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.True(t, Load().InsecureJWTSecret())

	t.Setenv("JWT_SECRET", "rotated-in-production")
	assert.False(t, Load().InsecureJWTSecret())

	cfg := &AppConfig{JWTSecret: DefaultJWTSecret}
	assert.True(t, cfg.InsecureJWTSecret())
}
