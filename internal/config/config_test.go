package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Providers.TimeoutSec)
	assert.Equal(t, "https://fundgz.1234567.com.cn", cfg.Providers.Tiantian.BaseURL)
	assert.Equal(t, "https://fund.eastmoney.com", cfg.Providers.EastmoneyF10.BaseURL)
	assert.Equal(t, 30, cfg.History.DefaultDays)
	assert.Equal(t, 86400, cfg.Cache.NameTTLSec)
	assert.Equal(t, "postgres://postgres:postgres@db:5432/fundsdb?sslmode=disable", cfg.Database.DSN)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("FUNDSVC_SERVER_PORT", "9090")
	t.Setenv("FUNDSVC_PROVIDERS_DANJUAN_BASE_URL", "http://localhost:7000")
	t.Setenv("FUNDSVC_HISTORY_DEFAULT_DAYS", "60")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:7000", cfg.Providers.Danjuan.BaseURL)
	assert.Equal(t, 60, cfg.History.DefaultDays)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Config{
		Providers: ProvidersConfig{EastmoneyLSJZ: ProviderEndpointConf{BaseURL: "ftp://nope"}},
	}
	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "server.port must be positive")
	assert.Contains(t, msg, "database.host is required")
	assert.Contains(t, msg, "redis.asynq_addr is required (set FUNDSVC_REDIS_ASYNQ_ADDR)")
	assert.Contains(t, msg, "providers.eastmoney_lsjz.base_url must be an http(s) URL")
	assert.Contains(t, msg, "cache.name_ttl_sec must be positive")
	assert.Contains(t, msg, "history.default_days must be positive")
}
