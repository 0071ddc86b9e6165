package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "feedback-api", cfg.Server.ServiceName)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, 4000, cfg.Database.BusyTimeoutMS)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 0, cfg.RateLimit.SubmissionsPerMinute)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/feedback-test.db")
	t.Setenv("DB_BUSY_TIMEOUT_MS", "250")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173,https://admin.example.com")
	t.Setenv("SERVER_ENVIRONMENT", "production")
	t.Setenv("RATE_LIMIT_SUBMISSIONS_PER_MINUTE", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/feedback-test.db", cfg.Database.Path)
	assert.Equal(t, 250, cfg.Database.BusyTimeoutMS)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, []string{"http://localhost:5173", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30, cfg.RateLimit.SubmissionsPerMinute)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"4000\"\n  service_name: feedback-staging\ndatabase:\n  path: /var/lib/feedback/app.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "feedback-staging", cfg.Server.ServiceName)
	assert.Equal(t, "/var/lib/feedback/app.db", cfg.Database.Path)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{
				Environment:            EnvDevelopment,
				Port:                   "3001",
				ServiceName:            "feedback-api",
				AllowedOrigins:         []string{"*"},
				ShutdownTimeoutSeconds: 10,
			},
			Database:  DatabaseConfig{Path: "data/feedback.db", BusyTimeoutMS: 4000},
			RateLimit: RateLimitConfig{Burst: 5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown environment", mutate: func(c *Config) { c.Server.Environment = "staging" }, wantErr: true},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "bad origin", mutate: func(c *Config) { c.Server.AllowedOrigins = []string{"not a url"} }, wantErr: true},
		{name: "blank db path", mutate: func(c *Config) { c.Database.Path = "  " }, wantErr: true},
		{name: "negative busy timeout", mutate: func(c *Config) { c.Database.BusyTimeoutMS = -1 }, wantErr: true},
		{name: "rate limit without burst", mutate: func(c *Config) {
			c.RateLimit.SubmissionsPerMinute = 10
			c.RateLimit.Burst = 0
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
