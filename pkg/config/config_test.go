package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 50, cfg.Alumni.DefaultPageSize)
	assert.Equal(t, 200, cfg.Alumni.MaxPageSize)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10*time.Minute, cfg.Analytics.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2, cfg.Audit.Workers)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5, cfg.Database.ConnectAttempts)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ALUMNI_MAX_PAGE_SIZE", 0)
	v.Set("ALUMNI_DEFAULT_PAGE_SIZE", 25)
	v.Set("ANALYTICS_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://localhost:5173, https://alumni.example.edu ,")

	cfg := fromViper(v)

	assert.Equal(t, 200, cfg.Alumni.MaxPageSize)
	assert.Equal(t, 25, cfg.Alumni.DefaultPageSize)
	assert.Equal(t, 10*time.Minute, cfg.Analytics.CacheTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://alumni.example.edu"}, cfg.CORS.AllowedOrigins)
}
