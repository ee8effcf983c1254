package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setGatewayEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "local")
	t.Setenv("INTERNAL_API_TOKEN", "internal-secret")
	t.Setenv("JWT_SIGNING_KEY", "signing-key")
	t.Setenv("DB_SERVER", "localhost:3306")
	t.Setenv("DB_NAME", "gateway")
	t.Setenv("DB_USER", "gateway")
}

func TestLoad_Defaults(t *testing.T) {
	setGatewayEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SessionStoreMySQL, cfg.SessionStore)
	assert.Equal(t, "8080", cfg.HttpServer.Port)
	assert.Equal(t, 4*time.Second, cfg.HttpServer.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Auth.JWT.AccessTokenTTL)
	assert.Equal(t, 240*time.Hour, cfg.Auth.JWT.RefreshTokenTTL)
	assert.Equal(t, "UTC", cfg.Database.TimeZone)
	assert.Equal(t, "@every 10m", cfg.Worker.PurgeCron)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoad_RedisStore(t *testing.T) {
	setGatewayEnv(t)
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Address)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown store",
			env:  map[string]string{"SESSION_STORE": "postgres"},
		},
		{
			name: "redis cluster store",
			env:  map[string]string{"SESSION_STORE": "redis", "REDIS_TYPE": "redisCluster"},
		},
		{
			name: "mysql without server",
			env:  map[string]string{"DB_SERVER": ""},
		},
		{
			name: "no internal token",
			env:  map[string]string{"INTERNAL_API_TOKEN": ""},
		},
		{
			name: "no signing key",
			env:  map[string]string{"JWT_SIGNING_KEY": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setGatewayEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setGatewayEnv(t)
	t.Setenv("JWT_SIGNING_KEY", "")
	require.NoError(t, os.Unsetenv("JWT_SIGNING_KEY"))

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadWorker_WithoutGatewaySecrets(t *testing.T) {
	setGatewayEnv(t)
	for _, key := range []string{"INTERNAL_API_TOKEN", "JWT_SIGNING_KEY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadWorker("")
	require.NoError(t, err)
	assert.Empty(t, cfg.InternalAPIToken)
	assert.Equal(t, 10, cfg.Worker.Concurrency)

	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadWorker_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "email without smtp",
			env:  map[string]string{"EMAIL_ENABLED": "true"},
		},
		{
			name: "unknown store",
			env:  map[string]string{"SESSION_STORE": "postgres"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setGatewayEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWorker("")
			assert.Error(t, err)
		})
	}
}

func TestLoadDiscussions_FromFile(t *testing.T) {
	// the env file parser exports values into the process environment
	t.Setenv("ENV", "")
	t.Setenv("GATEWAY_BASE_URL", "")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "")

	path := filepath.Join(t.TempDir(), "discussions.env")
	content := "ENV=prod\nGATEWAY_BASE_URL=http://gateway:8080\nHTTP_CLIENT_TIMEOUT=2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadDiscussions(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "http://gateway:8080", cfg.GatewayBaseURL)
	assert.Equal(t, 2*time.Second, cfg.HttpClient.Timeout)
	assert.Equal(t, 20, cfg.HttpClient.MaxIdleConnsPerHost)
}
