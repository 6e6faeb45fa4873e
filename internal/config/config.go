// Package config provides application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FUNDSVC_SERVER_PORT.
const EnvPrefix = "FUNDSVC"

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Worker    WorkerConfig
	Cache     CacheConfig
	History   HistoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int  `mapstructure:"port"`
	ServeSwagger  bool `mapstructure:"serve_swagger"`
	ServeAsynqmon bool `mapstructure:"serve_asynqmon"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	SSLMode            string `mapstructure:"sslmode"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSec int    `mapstructure:"conn_max_lifetime_sec"`
	DSN                string
}

// RedisConfig holds connection settings for both Redis instances.
type RedisConfig struct {
	AsynqAddr string `mapstructure:"asynq_addr"` // Redis instance for the Asynq task queue.
	CacheAddr string `mapstructure:"cache_addr"` // Redis instance for the fund name cache.
}

// ProvidersConfig holds the shared upstream client settings and per-provider endpoints.
type ProvidersConfig struct {
	TimeoutSec      int                  `mapstructure:"timeout_sec"`
	UserAgent       string               `mapstructure:"user_agent"`
	Referer         string               `mapstructure:"referer"`
	Tiantian        ProviderEndpointConf `mapstructure:"tiantian"`
	EastmoneyMobile ProviderEndpointConf `mapstructure:"eastmoney_mobile"`
	EastmoneyLSJZ   ProviderEndpointConf `mapstructure:"eastmoney_lsjz"`
	Danjuan         ProviderEndpointConf `mapstructure:"danjuan"`
	EastmoneyF10    ProviderEndpointConf `mapstructure:"eastmoney_f10"`
}

// ProviderEndpointConf points one adapter at its upstream host.
type ProviderEndpointConf struct {
	BaseURL string `mapstructure:"base_url"`
}

// Timeout returns the per-request upstream timeout.
func (p ProvidersConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSec) * time.Second
}

// WorkerConfig holds background worker and task queue settings.
type WorkerConfig struct {
	Concurrency      int `mapstructure:"concurrency"`
	MaxRetry         int `mapstructure:"max_retry"`
	TimeoutSec       int `mapstructure:"timeout_sec"`
	CheckIntervalSec int `mapstructure:"check_interval_sec"`
}

// CacheConfig holds caching settings. Only fund names are cached.
type CacheConfig struct {
	NameTTLSec int `mapstructure:"name_ttl_sec"`
}

// HistoryConfig holds history endpoint settings.
type HistoryConfig struct {
	DefaultDays int `mapstructure:"default_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.serve_swagger", true)
	v.SetDefault("server.serve_asynqmon", true)
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "fundsdb")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_sec", 300)
	v.SetDefault("redis.asynq_addr", "redis_asynq:6380")
	v.SetDefault("redis.cache_addr", "redis_cache:6381")
	v.SetDefault("providers.timeout_sec", 5)
	v.SetDefault("providers.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("providers.referer", "http://fund.eastmoney.com/")
	v.SetDefault("providers.tiantian.base_url", "https://fundgz.1234567.com.cn")
	v.SetDefault("providers.eastmoney_mobile.base_url", "https://fundmobapi.eastmoney.com")
	v.SetDefault("providers.eastmoney_lsjz.base_url", "https://api.fund.eastmoney.com")
	v.SetDefault("providers.danjuan.base_url", "https://danjuanfunds.com")
	v.SetDefault("providers.eastmoney_f10.base_url", "https://fund.eastmoney.com")
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.max_retry", 2)
	v.SetDefault("worker.timeout_sec", 60)
	v.SetDefault("worker.check_interval_sec", 5)
	v.SetDefault("cache.name_ttl_sec", 86400)
	v.SetDefault("history.default_days", 30)
}

// LoadConfig reads configuration from config files, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error loading .env file: %v\n", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config search paths
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Database.DSN = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.Name, cfg.Database.SSLMode)

	return &cfg, nil
}

// Validate checks that all required configuration fields are set and valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be positive, got %d", c.Server.Port))
	}

	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}
	if c.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, fmt.Errorf("database.max_open_conns must be positive, got %d", c.Database.MaxOpenConns))
	}

	if c.Redis.AsynqAddr == "" {
		errs = append(errs, fmt.Errorf("redis.asynq_addr is required (set %s_REDIS_ASYNQ_ADDR)", EnvPrefix))
	}
	if c.Redis.CacheAddr == "" {
		errs = append(errs, fmt.Errorf("redis.cache_addr is required (set %s_REDIS_CACHE_ADDR)", EnvPrefix))
	}

	if c.Providers.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("providers.timeout_sec must be positive, got %d", c.Providers.TimeoutSec))
	}
	endpoints := map[string]string{
		"tiantian":         c.Providers.Tiantian.BaseURL,
		"eastmoney_mobile": c.Providers.EastmoneyMobile.BaseURL,
		"eastmoney_lsjz":   c.Providers.EastmoneyLSJZ.BaseURL,
		"danjuan":          c.Providers.Danjuan.BaseURL,
		"eastmoney_f10":    c.Providers.EastmoneyF10.BaseURL,
	}
	for name, u := range endpoints {
		if u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			errs = append(errs, fmt.Errorf("providers.%s.base_url must be an http(s) URL, got %q", name, u))
		}
	}

	if c.Worker.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("worker.concurrency must be positive, got %d", c.Worker.Concurrency))
	}
	if c.Worker.MaxRetry < 0 {
		errs = append(errs, fmt.Errorf("worker.max_retry must be non-negative, got %d", c.Worker.MaxRetry))
	}
	if c.Worker.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.timeout_sec must be positive, got %d", c.Worker.TimeoutSec))
	}
	if c.Worker.CheckIntervalSec <= 0 {
		errs = append(errs, fmt.Errorf("worker.check_interval_sec must be positive, got %d", c.Worker.CheckIntervalSec))
	}

	if c.Cache.NameTTLSec <= 0 {
		errs = append(errs, fmt.Errorf("cache.name_ttl_sec must be positive, got %d", c.Cache.NameTTLSec))
	}

	if c.History.DefaultDays <= 0 {
		errs = append(errs, fmt.Errorf("history.default_days must be positive, got %d", c.History.DefaultDays))
	}

	return errors.Join(errs...)
}
