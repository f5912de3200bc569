package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "./stripwijzer.db", cfg.DBPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "localhost:11211", cfg.MemcacheAddr)
	assert.Equal(t, 3*time.Second, cfg.ScrapeDelay)
	assert.Equal(t, 6*time.Hour, cfg.ScrapeInterval)
	assert.Equal(t, 45*time.Second, cfg.ChromeNavTimeout)
	assert.False(t, cfg.RunOnce)
	assert.Equal(t, "development", cfg.Environment)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("SCRAPE_DELAY_SECONDS", "1")
	t.Setenv("RUN_ONCE", "true")
	t.Setenv("COSMEAU_URL", "http://localhost:8080/cosmeau")

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, time.Second, cfg.ScrapeDelay)
	assert.True(t, cfg.RunOnce)
	assert.Equal(t, "http://localhost:8080/cosmeau", cfg.CosmeauURL)
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.DBPath = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.ScrapeInterval = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.ChromeNavTimeout = 0
	assert.Error(t, bad.Validate())
}
