// Package bigcache keeps the query cache in process memory with a single
// life window, which matches the one-TTL-for-all-entries model.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/aussiebroadwan/records/internal/records/cache"
)

type Config struct {
	// LifeWindow is the TTL of every entry; the ttl passed to Set is ignored.
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	HardMaxCacheSizeMB int
}

type Provider struct {
	c *bc.BigCache
}

var _ cache.Provider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	conf.Verbose = false

	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	return p.c.Set(key, value)
}

func (p *Provider) Del(_ context.Context, key string) error {
	if err := p.c.Delete(key); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (p *Provider) Close(context.Context) error { return p.c.Close() }
