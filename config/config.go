package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Ephemeris  Ephemeris  `yaml:"ephemeris"`
	Retrograde Retrograde `yaml:"retrograde"`
	Refresh    Refresh    `yaml:"refresh"`
	Push       Push       `yaml:"push"`
}

// Server holds the server-related configuration.
type Server struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// Database holds the database connection configuration.
type Database struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Ephemeris locates the VSOP87 data files for planetary positions.
type Ephemeris struct {
	VSOP87Dir string `yaml:"vsop87_dir"`
}

// Retrograde optionally overrides the shipped retrograde calendar.
type Retrograde struct {
	TablePath string `yaml:"table_path"`
}

// Refresh configures the scheduled snapshot rebuild.
type Refresh struct {
	CronSpec       string `yaml:"cron_spec"`
	RunOnStart     bool   `yaml:"run_on_start"`
	PageSize       int    `yaml:"page_size"`
	WorkerPoolSize int    `yaml:"worker_pool_size"`
}

// Push holds the VAPID keys for web push notifications.
type Push struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// DatabaseConfig is the type alias used by the db package.
type DatabaseConfig = Database

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Refresh.CronSpec == "" {
		// 05:00 UTC, before subscribers in western timezones wake up.
		cfg.Refresh.CronSpec = "0 5 * * *"
	}
	if cfg.Refresh.PageSize <= 0 {
		cfg.Refresh.PageSize = 100
	}
	if cfg.Refresh.WorkerPoolSize <= 0 {
		log.Printf("refresh.worker_pool_size is not set or invalid; defaulting to 1")
		cfg.Refresh.WorkerPoolSize = 1
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	return &cfg, nil
}
