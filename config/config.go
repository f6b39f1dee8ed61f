package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort             string
	DatabaseURL            string
	LogLevel               string
	ScrapeTimeoutSeconds   string
	ScrapeBatchSize        string
	RefreshIntervalMinutes string
}

// GetScrapeTimeout returns the per-fetch timeout from environment or the
// 30 second default.
func (c *Config) GetScrapeTimeout() time.Duration {
	if c.ScrapeTimeoutSeconds == "" {
		return 30 * time.Second
	}
	seconds, err := strconv.Atoi(c.ScrapeTimeoutSeconds)
	if err != nil || seconds <= 0 {
		logrus.Warnf("Invalid SCRAPE_TIMEOUT_SECONDS value: %s, using default 30 seconds", c.ScrapeTimeoutSeconds)
		return 30 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// GetScrapeBatchSize returns how many courts scrape concurrently per batch.
func (c *Config) GetScrapeBatchSize() int {
	if c.ScrapeBatchSize == "" {
		return 3
	}
	size, err := strconv.Atoi(c.ScrapeBatchSize)
	if err != nil || size <= 0 {
		logrus.Warnf("Invalid SCRAPE_BATCH_SIZE value: %s, using default 3", c.ScrapeBatchSize)
		return 3
	}
	return size
}

// GetRefreshInterval returns how often the background job rescrapes every
// configured court.
func (c *Config) GetRefreshInterval() time.Duration {
	if c.RefreshIntervalMinutes == "" {
		return 5 * time.Minute
	}
	minutes, err := strconv.Atoi(c.RefreshIntervalMinutes)
	if err != nil || minutes <= 0 {
		logrus.Warnf("Invalid BOARD_REFRESH_INTERVAL_MINUTES value: %s, using default 5 minutes", c.RefreshIntervalMinutes)
		return 5 * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		ScrapeTimeoutSeconds:   getEnv("SCRAPE_TIMEOUT_SECONDS", "30"),
		ScrapeBatchSize:        getEnv("SCRAPE_BATCH_SIZE", "3"),
		RefreshIntervalMinutes: getEnv("BOARD_REFRESH_INTERVAL_MINUTES", "5"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
