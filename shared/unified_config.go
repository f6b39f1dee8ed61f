package shared

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScraperConfig holds the HTTP-facing knobs of the display board scraper.
type ScraperConfig struct {
	HTTPRequestTimeout time.Duration `json:"http_timeout"`
	RenderTimeout      time.Duration `json:"render_timeout"`
	RenderRateLimit    time.Duration `json:"render_rate_limit"`
	BatchSize          int           `json:"batch_size"`
}

// DatabaseConfig holds database connection pool configuration.
type DatabaseConfig struct {
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	PingTimeout     time.Duration `json:"ping_timeout"`
}

// NewDefaultScraperConfig returns production-ready scraper defaults. Court
// servers are routinely slow, so the fetch timeout is generous; batches of
// three keep outbound pressure on any one court site low.
func NewDefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		HTTPRequestTimeout: 30 * time.Second,
		RenderTimeout:      45 * time.Second,
		RenderRateLimit:    2 * time.Second,
		BatchSize:          3,
	}
}

// NewDefaultDatabaseConfig returns production-ready pool defaults.
func NewDefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// ValidateAndApplyDefaults replaces invalid values with defaults.
func (c *ScraperConfig) ValidateAndApplyDefaults() {
	logger := logrus.WithField("component", "ScraperConfig")
	defaults := NewDefaultScraperConfig()

	if c.HTTPRequestTimeout <= 0 {
		c.HTTPRequestTimeout = defaults.HTTPRequestTimeout
		logger.Debug("Applied default HTTPRequestTimeout")
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = defaults.RenderTimeout
		logger.Debug("Applied default RenderTimeout")
	}
	if c.RenderRateLimit <= 0 {
		c.RenderRateLimit = defaults.RenderRateLimit
		logger.Debug("Applied default RenderRateLimit")
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
		logger.Debug("Applied default BatchSize")
	}
}
