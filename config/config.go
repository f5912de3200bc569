package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Catalog database
	DBPath string

	// Redis configuration (price-change events)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (per-source block windows)
	MemcacheAddr string

	// Scrape run configuration
	ScrapeDelay    time.Duration
	ScrapeInterval time.Duration
	RunOnce        bool

	// Headless browser configuration
	ChromeBin        string
	ChromeNavTimeout time.Duration
	ChromeSettle     time.Duration

	// Sustainability knowledge base override (empty = embedded default)
	SustainabilityRulesPath string

	// URLs for the scrape targets
	CosmeauURL    string
	WasstripNLURL string
	SeepjeURL     string
	WasjewasjeURL string
	GreenGoodsURL string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	scrapeDelay, _ := strconv.Atoi(getEnv("SCRAPE_DELAY_SECONDS", "3"))
	scrapeInterval, _ := strconv.Atoi(getEnv("SCRAPE_INTERVAL_MINUTES", "360"))
	navTimeout, _ := strconv.Atoi(getEnv("CHROME_NAV_TIMEOUT_SECONDS", "45"))
	settle, _ := strconv.Atoi(getEnv("CHROME_SETTLE_SECONDS", "2"))

	return Config{
		DBPath:                  getEnv("DB_PATH", "./stripwijzer.db"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                 redisDB,
		RedisStream:             getEnv("REDIS_STREAM", "pricechanges"),
		RedisStreamCount:        redisStreamCount,
		RedisStreamMaxLength:    redisStreamMaxLen,
		MemcacheAddr:            getEnv("MEMCACHE_ADDR", "localhost:11211"),
		ScrapeDelay:             time.Duration(scrapeDelay) * time.Second,
		ScrapeInterval:          time.Duration(scrapeInterval) * time.Minute,
		RunOnce:                 getEnv("RUN_ONCE", "false") == "true",
		ChromeBin:               getEnv("CHROME_BIN", ""),
		ChromeNavTimeout:        time.Duration(navTimeout) * time.Second,
		ChromeSettle:            time.Duration(settle) * time.Second,
		SustainabilityRulesPath: getEnv("SUSTAINABILITY_RULES_PATH", ""),
		CosmeauURL:              getEnv("COSMEAU_URL", "https://cosmeau.com/products/wasstrips"),
		WasstripNLURL:           getEnv("WASSTRIPNL_URL", "https://wasstrip.nl/product/wasstrips"),
		SeepjeURL:               getEnv("SEEPJE_URL", "https://seepje.com/products/wasstrips"),
		WasjewasjeURL:           getEnv("WASJEWASJE_URL", "https://wasjewasje.nl/product/wasstrips"),
		GreenGoodsURL:           getEnv("GREENGOODS_URL", "https://greengoods.nl/products/wasstrips"),
		Environment:             getEnv("STRIPWIJZER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.ScrapeDelay < 0 {
		return fmt.Errorf("SCRAPE_DELAY_SECONDS must not be negative")
	}
	if c.ScrapeInterval <= 0 {
		return fmt.Errorf("SCRAPE_INTERVAL_MINUTES must be positive")
	}
	if c.ChromeNavTimeout <= 0 {
		return fmt.Errorf("CHROME_NAV_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
