package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName       string `mapstructure:"app_name"`
	Env           string `mapstructure:"app_env"`
	LogLevel      string `mapstructure:"log_level"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`

	ServerURL             string        `mapstructure:"server_url"`
	SessionCookie         string        `mapstructure:"session_cookie" json:"-"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	RecordsFile         string        `mapstructure:"records_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	SyncIntervalSeconds int64         `mapstructure:"sync_interval"`
	SyncInterval        time.Duration `mapstructure:"-"`
	StatusAddr          string        `mapstructure:"status_addr"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with command line flags layered on top. Flag names
// match config keys; only flags the user actually set take precedence.
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "ddns-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 50)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("server_url", "http://127.0.0.1:8080")
	v.SetDefault("session_cookie", "")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("records_file", "./configs/records.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("sync_interval", 300) // seconds
	v.SetDefault("status_addr", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/recodes.db")
	v.SetDefault("storage_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))
}

func (cfg *Config) finalize() error {
	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	if cfg.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.SyncIntervalSeconds <= 0 {
		return fmt.Errorf("invalid sync_interval (must be positive seconds)")
	}
	cfg.SyncInterval = time.Duration(cfg.SyncIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
