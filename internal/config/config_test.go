package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
database:
  driver: memory
jwt:
  secret: from-file
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORAGE_MAX_UPLOAD_MB", "5")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 5, cfg.Storage.MaxUploadMB)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, StorageLocal, cfg.Storage.Type)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "database:\n  driver: memory\n"},
		{"unknown driver", "database:\n  driver: mysql\njwt:\n  secret: s\n"},
		{"bad expiration", "database:\n  driver: memory\njwt:\n  secret: s\n  access_token_expiration: soon\n"},
		{"supabase without key", "database:\n  driver: memory\njwt:\n  secret: s\nstorage:\n  type: supabase\n"},
		{"b2 without bucket", "database:\n  driver: memory\njwt:\n  secret: s\nstorage:\n  type: b2\n  b2_account_id: id\n  b2_app_key: key\n"},
		{"seed without password", "database:\n  driver: memory\njwt:\n  secret: s\nseed:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{}
	cfg.CORS.AllowedOrigins = "http://a.test, http://b.test,,"
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestEnvOverrideReportsEveryBadValue(t *testing.T) {
	t.Setenv("STORAGE_MAX_UPLOAD_MB", "lots")
	t.Setenv("SEED_ENABLED", "maybe")

	cfg := &Config{}
	err := processStructFields(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_MAX_UPLOAD_MB (Storage.MaxUploadMB)")
	assert.Contains(t, err.Error(), "SEED_ENABLED (Seed.Enabled)")
}
