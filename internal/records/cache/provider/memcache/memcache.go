// Package memcache backs the query cache with memcached.
package memcache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/aussiebroadwan/records/internal/records/cache"
)

// maxRelativeTTL is the longest expiry memcached reads as relative seconds;
// larger values are taken as a unix timestamp.
const maxRelativeTTL = 30 * 24 * time.Hour

// Client is the part of *memcache.Client the provider uses.
type Client interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
	Ping() error
}

type Provider struct {
	mc Client
}

var (
	_ cache.Provider = (*Provider)(nil)
	_ cache.Pinger   = (*Provider)(nil)
)

func New(mc Client) *Provider { return &Provider{mc: mc} }

// Dial connects to the given memcached servers.
func Dial(servers ...string) *Provider {
	mc := memcache.New(servers...)
	mc.Timeout = 500 * time.Millisecond
	return New(mc)
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	it, err := p.mc.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return it.Value, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return p.mc.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expiration(ttl),
	})
}

func (p *Provider) Del(_ context.Context, key string) error {
	if err := p.mc.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}

func (p *Provider) Ping(context.Context) error { return p.mc.Ping() }

// Close is a no-op; idle connections are reaped by the client.
func (p *Provider) Close(context.Context) error { return nil }

// expiration converts ttl to memcached seconds. Sub-second TTLs round up to
// one second since 0 means no expiry.
func expiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxRelativeTTL {
		ttl = maxRelativeTTL
	}
	secs := int32((ttl + time.Second - 1) / time.Second)
	return max(secs, 1)
}
