package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "DATABASE_URL", "REDIS_URL", "SESSION_BACKEND", "SESSION_DIR", "SESSION_TTL", "PORT", "REWRITE_CONCURRENCY"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	tmpFile := writeConfig(t, `{
		"port": 9090,
		"session_backend": "file",
		"session_dir": "/tmp/sessions",
		"rewrite_concurrency": 4,
		"verbose": true
	}`)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "file", cfg.SessionBackend)
	assert.Equal(t, "/tmp/sessions", cfg.SessionDir)
	assert.Equal(t, 4, cfg.RewriteConcurrency)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"negative port", Config{Port: -1}, "port"},
		{"negative concurrency", Config{RewriteConcurrency: -2}, "rewrite_concurrency"},
		{"unknown backend", Config{SessionBackend: "etcd"}, "unknown session_backend"},
		{"bad ttl", Config{SessionTTL: "a week"}, "session_ttl"},
		{"postgres without url", Config{SessionBackend: "postgres"}, "database_url"},
		{"redis without url", Config{SessionBackend: "redis"}, "redis_url"},
		{"redis with url", Config{SessionBackend: "redis", RedisURL: "redis://localhost:6379/0"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Port: 3000, SessionBackend: "file"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 3000, merged.Port)
	assert.Equal(t, "file", merged.SessionBackend)
	assert.Equal(t, "sessions", merged.SessionDir)
	assert.Equal(t, 8, merged.RewriteConcurrency)
	assert.Equal(t, 3000, cfg.Port, "original must not be modified")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := writeConfig(t, `{"port": 9090, "api_key": "file-key", "session_ttl": "1h"}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, time.Hour, cfg.TTL())
	assert.Equal(t, "memory", cfg.SessionBackend)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Port, cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.TTL())
}

func TestLoad_InvalidBackendFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_BACKEND", "postgres")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}
