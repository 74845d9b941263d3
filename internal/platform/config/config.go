// Package config loads application configuration from an optional YAML file,
// a .env file and environment variables (in increasing order of precedence).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
)

// ErrInvalidConfig is returned when the merged configuration is unusable.
var ErrInvalidConfig = errors.New("invalid config")

const (
	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"

	DefaultPath = "config.yaml"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Market struct {
		Provider           string        `yaml:"provider"`
		YahooBaseURL       string        `yaml:"yahoo_base_url"`
		TwelveDataBaseURL  string        `yaml:"twelvedata_base_url"`
		TwelveDataAPIKey   string        `yaml:"twelvedata_api_key"`
		Timeout            time.Duration `yaml:"timeout"`
		RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
		FetchConcurrency   int           `yaml:"fetch_concurrency"`
	} `yaml:"market"`
	Catalog  []catalogentity.Company `yaml:"catalog"`
	Controls struct {
		DefaultDays      int      `yaml:"default_days"`
		MaxDays          int      `yaml:"max_days"`
		AxisMin          float64  `yaml:"axis_min"`
		AxisMax          float64  `yaml:"axis_max"`
		DefaultSelection []string `yaml:"default_selection"`
	} `yaml:"controls"`
	Cache struct {
		RedisHost     string `yaml:"redis_host"`
		RedisPort     string `yaml:"redis_port"`
		RedisPassword string `yaml:"redis_password"`
		RefreshHour   int    `yaml:"refresh_hour"`
		TimeZone      string `yaml:"time_zone"`
	} `yaml:"cache"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// LoadDotEnv loads .env into the process environment. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) error {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
			}
			*dst = n
		}
		return nil
	}

	setString(&c.Server.Addr, "HTTP_ADDR")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	setString(&c.Market.Provider, "MARKET_PROVIDER")
	setString(&c.Market.YahooBaseURL, "YAHOO_BASE_URL")
	setString(&c.Market.TwelveDataBaseURL, "TWELVE_DATA_BASE_URL")
	setString(&c.Market.TwelveDataAPIKey, "TWELVE_DATA_API_KEY")
	if v := os.Getenv("MARKET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: MARKET_TIMEOUT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Market.Timeout = d
	}
	if err := setInt(&c.Market.RateLimitPerMinute, "MARKET_RATE_LIMIT_PER_MINUTE"); err != nil {
		return err
	}
	if err := setInt(&c.Market.FetchConcurrency, "FETCH_CONCURRENCY"); err != nil {
		return err
	}

	setString(&c.Cache.RedisHost, "REDIS_HOST")
	setString(&c.Cache.RedisPort, "REDIS_PORT")
	setString(&c.Cache.RedisPassword, "REDIS_PASSWORD")
	if err := setInt(&c.Cache.RefreshHour, "CACHE_REFRESH_HOUR"); err != nil {
		return err
	}
	setString(&c.Cache.TimeZone, "CACHE_TIMEZONE")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DB_DSN")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	return nil
}

// applyDefaults fills unset values.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Market.Provider == "" {
		c.Market.Provider = ProviderYahoo
	}
	c.Market.Provider = strings.ToLower(c.Market.Provider)
	if c.Market.Timeout <= 0 {
		c.Market.Timeout = 10 * time.Second
	}
	if c.Market.FetchConcurrency <= 0 {
		c.Market.FetchConcurrency = 4
	}
	if len(c.Catalog) == 0 {
		c.Catalog = catalogentity.DefaultCatalog().Companies
	}
	if c.Controls.DefaultDays == 0 {
		c.Controls.DefaultDays = 20
	}
	if c.Controls.MaxDays == 0 {
		c.Controls.MaxDays = 365
	}
	if c.Controls.AxisMin == 0 && c.Controls.AxisMax == 0 {
		c.Controls.AxisMax = 1500
	}
	if len(c.Controls.DefaultSelection) == 0 {
		c.Controls.DefaultSelection = catalogentity.DefaultSelection()
	}
	if c.Cache.RedisPort == "" {
		c.Cache.RedisPort = "6379"
	}
	if c.Cache.RefreshHour == 0 {
		c.Cache.RefreshHour = 18
	}
	if c.Cache.TimeZone == "" {
		c.Cache.TimeZone = "America/New_York"
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	switch c.Market.Provider {
	case ProviderYahoo:
	case ProviderTwelveData:
		if c.Market.TwelveDataAPIKey == "" {
			return fmt.Errorf("%w: TWELVE_DATA_API_KEY is required for provider %q", ErrInvalidConfig, c.Market.Provider)
		}
	default:
		return fmt.Errorf("%w: unknown market provider %q", ErrInvalidConfig, c.Market.Provider)
	}

	if _, err := catalogentity.NewCatalog(c.Catalog...); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Controls.MaxDays < 1 || c.Controls.MaxDays > 365 {
		return fmt.Errorf("%w: max_days %d not in [1, 365]", ErrInvalidConfig, c.Controls.MaxDays)
	}
	if c.Controls.DefaultDays < 1 || c.Controls.DefaultDays > c.Controls.MaxDays {
		return fmt.Errorf("%w: default_days %d not in [1, %d]", ErrInvalidConfig, c.Controls.DefaultDays, c.Controls.MaxDays)
	}
	if c.Controls.AxisMin >= c.Controls.AxisMax {
		return fmt.Errorf("%w: axis_min %g must be below axis_max %g", ErrInvalidConfig, c.Controls.AxisMin, c.Controls.AxisMax)
	}
	if c.Cache.RefreshHour < 0 || c.Cache.RefreshHour > 23 {
		return fmt.Errorf("%w: refresh_hour %d not in [0, 23]", ErrInvalidConfig, c.Cache.RefreshHour)
	}
	if _, err := time.LoadLocation(c.Cache.TimeZone); err != nil {
		return fmt.Errorf("%w: time_zone %q: %v", ErrInvalidConfig, c.Cache.TimeZone, err)
	}

	switch c.Database.Driver {
	case "":
	case "sqlite", "postgres", "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: DB_DSN is required for driver %q", ErrInvalidConfig, c.Database.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	return nil
}

// CatalogEntity returns the configured catalog.
func (c *Config) CatalogEntity() catalogentity.Catalog {
	return catalogentity.Catalog{Companies: append([]catalogentity.Company(nil), c.Catalog...)}
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.Cache.RedisHost != ""
}

// Location returns the time zone used for the cache refresh hour.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Cache.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
