package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/claude/liftlog/internal/metrics"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Staging   StagingConfig   `yaml:"staging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Cache     CacheConfig     `yaml:"cache"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig takes either a full URL or discrete connection fields.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type StagingConfig struct {
	Dir string `yaml:"dir"`
}

type MetricsConfig struct {
	HighFatigueThreshold float64 `yaml:"high_fatigue_threshold"`
	VolumeSaturation     float64 `yaml:"volume_saturation"`
	ProgressThresholdPct float64 `yaml:"progress_threshold_pct"`
}

type CacheConfig struct {
	SizeMB int `yaml:"size_mb"`
}

// DSN returns a PostgreSQL connection string. URL wins over the discrete fields.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Params returns the metric thresholds.
func (m MetricsConfig) Params() metrics.Params {
	return metrics.Params{
		HighFatigueThreshold: m.HighFatigueThreshold,
		VolumeSaturation:     m.VolumeSaturation,
		ProgressThresholdPct: m.ProgressThresholdPct,
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults:
//
//	DATABASE_URL,
//	LIFTLOG_SERVER_HOST, LIFTLOG_SERVER_PORT,
//	LIFTLOG_AUTH_API_KEY, LIFTLOG_STAGING_DIR,
//	LIFTLOG_TAILSCALE_ENABLED
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("LIFTLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("LIFTLOG_STAGING_DIR"); v != "" {
		cfg.Staging.Dir = v
	}
	if v := os.Getenv("LIFTLOG_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
}

func applyDefaults(cfg *Config) {
	d := metrics.DefaultParams()
	if cfg.Metrics.HighFatigueThreshold == 0 {
		cfg.Metrics.HighFatigueThreshold = d.HighFatigueThreshold
	}
	if cfg.Metrics.VolumeSaturation == 0 {
		cfg.Metrics.VolumeSaturation = d.VolumeSaturation
	}
	if cfg.Metrics.ProgressThresholdPct == 0 {
		cfg.Metrics.ProgressThresholdPct = d.ProgressThresholdPct
	}
	if cfg.Cache.SizeMB == 0 {
		cfg.Cache.SizeMB = 32
	}
	if cfg.Staging.Dir == "" {
		cfg.Staging.Dir = "staging"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "liftlog"
	}
	if cfg.Tailscale.StateDir == "" {
		cfg.Tailscale.StateDir = "tsnet-state"
	}
}

// validate reports every problem at once.
func (c *Config) validate() error {
	var err error
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		err = multierr.Append(err, errors.New("server.port is required"))
	}
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "") {
		err = multierr.Append(err, errors.New("database.url (or DATABASE_URL) is required"))
	}
	if c.Auth.APIKey == "" {
		err = multierr.Append(err, errors.New("auth.api_key is required"))
	}
	if c.Metrics.HighFatigueThreshold < 0 || c.Metrics.HighFatigueThreshold > 1 {
		err = multierr.Append(err, errors.New("metrics.high_fatigue_threshold must be within [0, 1]"))
	}
	if c.Metrics.VolumeSaturation < 0 {
		err = multierr.Append(err, errors.New("metrics.volume_saturation must be positive"))
	}
	if c.Metrics.ProgressThresholdPct < 0 {
		err = multierr.Append(err, errors.New("metrics.progress_threshold_pct must not be negative"))
	}
	if c.Cache.SizeMB < 0 {
		err = multierr.Append(err, errors.New("cache.size_mb must not be negative"))
	}
	return err
}
