// Package redis backs the query cache with Redis.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/records/internal/records/cache"
)

var ErrNilClient = errors.New("redis provider: nil client")

type Provider struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var (
	_ cache.Provider = (*Provider)(nil)
	_ cache.Pinger   = (*Provider)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set only when the provider exclusively owns the client
}

func New(cfg Config) (*Provider, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Provider{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// Dial creates a client for addr owned by the returned provider.
func Dial(addr, password string, db int) *Provider {
	return &Provider{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		closeClient: true,
	}
}

func (p *Provider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set writes with expiry ttl; a non-positive ttl means no expiry.
func (p *Provider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return p.rdb.Set(ctx, key, value, ttl).Err()
}

func (p *Provider) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// Close releases the client only when the provider owns it. Repeated calls
// are no-ops.
func (p *Provider) Close(context.Context) error {
	if !p.closeClient {
		return nil
	}
	if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}
