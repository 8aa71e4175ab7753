package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("DEVCONNECTOR_DATABASE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "devconnector", cfg.Database.Name)
	assert.Equal(t, 100*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("DEVCONNECTOR_AUTH_JWTSECRET", "from-prefix")
	t.Setenv("DEVCONNECTOR_DATABASE_DRIVER", "SQLite")
	t.Setenv("DEVCONNECTOR_AUTH_TOKENTTLSECONDS", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	assert.Equal(t, "from-prefix", cfg.Auth.JWTSecret)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, time.Minute, cfg.TokenTTL())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Auth.JWTSecret = "s"
		c.Auth.TokenTTLSeconds = 60
		c.Auth.BcryptCost = 10
		c.Server.Mode = "release"
		c.Database.Driver = DriverMongo
		c.Database.URI = "mongodb://localhost"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(*Config) {}, false},
		{"Missing Secret", func(c *Config) { c.Auth.JWTSecret = "  " }, true},
		{"Zero TTL", func(c *Config) { c.Auth.TokenTTLSeconds = 0 }, true},
		{"Cost Too Low", func(c *Config) { c.Auth.BcryptCost = 1 }, true},
		{"Unknown Driver", func(c *Config) { c.Database.Driver = "postgres" }, true},
		{"SQLite Without Path", func(c *Config) { c.Database.Driver = DriverSQLite }, true},
		{"Memory", func(c *Config) { c.Database.Driver = DriverMemory }, false},
		{"Unknown Mode", func(c *Config) { c.Server.Mode = "prod" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
