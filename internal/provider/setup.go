package provider

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Endpoints holds the base URL of every upstream. Empty values use the public hosts.
type Endpoints struct {
	Tiantian        string
	EastmoneyMobile string
	EastmoneyLSJZ   string
	Danjuan         string
	EastmoneyF10    string
}

// Options configures Build.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Referer   string
	Endpoints Endpoints

	// NameCache enables the Redis name cache when set.
	NameCache *redis.Client
	NameTTL   time.Duration

	Logger *zap.SugaredLogger
}

// Build wires the five adapters into a Failover over the default registry.
// The F10 adapter is returned separately since it also serves history pages.
func Build(opts Options) (*Failover, *EastmoneyF10Provider, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	client := NewClient(opts.Timeout, opts.UserAgent, opts.Referer)

	tiantian := NewTiantianProvider(opts.Endpoints.Tiantian, client)
	names := NewCachedNameResolver(tiantian, opts.NameCache, opts.NameTTL, logger)
	f10 := NewEastmoneyF10Provider(opts.Endpoints.EastmoneyF10, client, names)

	failover, err := NewFailover(DefaultRegistry(), logger,
		tiantian,
		NewEastmoneyMobileProvider(opts.Endpoints.EastmoneyMobile, client, names),
		NewEastmoneyLSJZProvider(opts.Endpoints.EastmoneyLSJZ, client, names),
		NewDanjuanProvider(opts.Endpoints.Danjuan, client, names),
		f10,
	)
	if err != nil {
		return nil, nil, err
	}
	return failover, f10, nil
}
