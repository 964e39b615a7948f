// Package config loads the application configuration: defaults, then an
// optional YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DealerContact is one known-dealer directory row, used to identify
// wrong-dealer scans and build the CC list on the outgoing form email.
type DealerContact struct {
	Code    string `yaml:"code" json:"code"`
	Name    string `yaml:"name" json:"name"`
	Contact string `yaml:"contact" json:"contact"`
	Email   string `yaml:"email" json:"email"`
}

// Config is the full application configuration.
type Config struct {
	// Dealership identity
	DealerCode     string `yaml:"dealer_code"`
	DealerName     string `yaml:"dealer_name"`
	Area           string `yaml:"area"`
	Station        string `yaml:"station"`
	Phone          string `yaml:"phone"`
	WoodstockEmail string `yaml:"woodstock_email"`

	KnownDealers []DealerContact `yaml:"known_dealers"`

	// Server
	Port        string `yaml:"port"`
	PairingCode string `yaml:"pairing_code"` // empty disables sync auth

	// Database (sqlite by default, mysql/postgres for a shared server)
	DBType string `yaml:"db_type"`
	DBPath string `yaml:"db_path"`
	DBHost string `yaml:"db_host"`
	DBPort string `yaml:"db_port"`
	DBUser string `yaml:"db_user"`
	DBPass string `yaml:"db_pass"`
	DBName string `yaml:"db_name"`

	// Feed ingestion
	FeedWatchDir string `yaml:"feed_watch_dir"`

	// Replication
	SyncServerURL string        `yaml:"sync_server_url"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	PushDebounce  time.Duration `yaml:"push_debounce"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`

	Debug bool `yaml:"debug"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		DealerCode:     "095207",
		DealerName:     "JOHN BEAR",
		Area:           "80",
		Station:        "587",
		Phone:          "905-575-9400",
		WoodstockEmail: "wdk.courtesy@gm.com",
		KnownDealers: []DealerContact{
			{Code: "095207", Name: "John Bear Hamilton"},
			{Code: "095182", Name: "Grimsby Chevrolet", Contact: "Christian Ly", Email: "cly@grimsbychev.com"},
		},
		Port:          "3000",
		DBType:        "sqlite",
		DBPath:        "partsrecv.db",
		DBHost:        "127.0.0.1",
		DBPort:        "3306",
		DBUser:        "root",
		DBName:        "partsrecv",
		SyncServerURL: "http://localhost:3000",
		PollInterval:  2 * time.Second,
		PushDebounce:  500 * time.Millisecond,
		HTTPTimeout:   5 * time.Second,
	}
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists), and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the decoders depend on.
func (c *Config) Validate() error {
	if len(c.DealerCode) != 6 {
		return fmt.Errorf("dealer code must be 6 characters, got %q", c.DealerCode)
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.PollInterval <= 0 || c.PushDebounce <= 0 || c.HTTPTimeout <= 0 {
		return fmt.Errorf("sync intervals must be positive")
	}
	return nil
}

// LookupDealer finds a known dealer by code, or nil.
func (c *Config) LookupDealer(code string) *DealerContact {
	for i := range c.KnownDealers {
		if c.KnownDealers[i].Code == code {
			return &c.KnownDealers[i]
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DealerCode = getEnv("DEALER_CODE", c.DealerCode)
	c.DealerName = getEnv("DEALER_NAME", c.DealerName)
	c.Area = getEnv("DEALER_AREA", c.Area)
	c.Station = getEnv("DEALER_STATION", c.Station)
	c.Phone = getEnv("DEALER_PHONE", c.Phone)
	c.WoodstockEmail = getEnv("WDK_EMAIL", c.WoodstockEmail)
	c.Port = getEnv("PORT", c.Port)
	c.PairingCode = getEnv("PAIRING_CODE", c.PairingCode)
	c.DBType = getEnv("DB_TYPE", c.DBType)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPass = getEnv("DB_PASSWORD", c.DBPass)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.FeedWatchDir = getEnv("FEED_WATCH_DIR", c.FeedWatchDir)
	c.SyncServerURL = getEnv("SYNC_SERVER_URL", c.SyncServerURL)
	c.PollInterval = getEnvDuration("SYNC_POLL_INTERVAL", c.PollInterval)
	c.PushDebounce = getEnvDuration("SYNC_PUSH_DEBOUNCE", c.PushDebounce)
	c.HTTPTimeout = getEnvDuration("SYNC_HTTP_TIMEOUT", c.HTTPTimeout)
	c.Debug = getEnvBool("DEBUG", c.Debug)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
