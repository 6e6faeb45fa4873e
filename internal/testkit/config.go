// Package testkit provides test infrastructure for integration tests using testcontainers.
package testkit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every test infrastructure override, e.g. FUNDSVC_TEST_PG_DSN.
const EnvPrefix = "FUNDSVC_TEST"

// Config holds environment-driven configuration for integration test infrastructure.
type Config struct {
	PGImage        string        `mapstructure:"pg_image"`
	RedisImage     string        `mapstructure:"redis_image"`
	PGDSN          string        `mapstructure:"pg_dsn"`     // If set, skip Postgres container.
	RedisAddr      string        `mapstructure:"redis_addr"` // If set, skip Redis container.
	CacheDB        int           `mapstructure:"cache_db"`   // Logical Redis DB for the name cache.
	QueueDB        int           `mapstructure:"queue_db"`   // Logical Redis DB for Asynq.
	StartupTimeout time.Duration `mapstructure:"startup_timeout"`
	KeepContainers bool          `mapstructure:"keep_containers"`
}

// LoadConfig reads test infrastructure settings from FUNDSVC_TEST_* variables.
// Invalid values fall back to the defaults.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("pg_image", "postgres:18.1-alpine")
	v.SetDefault("redis_image", "redis:8.4.0-alpine")
	v.SetDefault("pg_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_db", 0)
	v.SetDefault("queue_db", 1)
	v.SetDefault("startup_timeout", 90*time.Second)
	v.SetDefault("keep_containers", false)

	cfg := Config{
		PGImage:        v.GetString("pg_image"),
		RedisImage:     v.GetString("redis_image"),
		PGDSN:          v.GetString("pg_dsn"),
		RedisAddr:      v.GetString("redis_addr"),
		CacheDB:        v.GetInt("cache_db"),
		QueueDB:        v.GetInt("queue_db"),
		StartupTimeout: v.GetDuration("startup_timeout"),
		KeepContainers: v.GetBool("keep_containers"),
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = 90 * time.Second
	}
	if cfg.CacheDB == cfg.QueueDB {
		cfg.QueueDB = cfg.CacheDB + 1
	}
	return cfg
}
