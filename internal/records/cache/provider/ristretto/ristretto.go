// Package ristretto keeps the query cache in process memory.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/aussiebroadwan/records/internal/records/cache"
)

var ErrInvalidConfig = errors.New("ristretto: invalid config")

type Config struct {
	NumCounters int64
	MaxCost     int64 // bytes; each entry costs its encoded length
	BufferItems int64
}

// DefaultConfig sizes the cache for roughly 64 MiB of encoded results.
func DefaultConfig() Config {
	return Config{
		NumCounters: 1e6,
		MaxCost:     64 << 20,
		BufferItems: 64,
	}
}

type Provider struct {
	c *rc.Cache
}

var _ cache.Provider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, ErrInvalidConfig
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set is buffered: the entry becomes visible shortly after, or not at all
// if admission rejects it. Both are valid cache states.
func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	p.c.SetWithTTL(key, value, int64(len(value)), ttl)
	return nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

// Wait blocks until buffered writes have been applied.
func (p *Provider) Wait() { p.c.Wait() }

func (p *Provider) Close(context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}
