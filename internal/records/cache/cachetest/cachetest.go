// Package cachetest provides an in-memory cache.Provider for tests.
package cachetest

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrDown is returned by every call while the provider is marked down.
var ErrDown = errors.New("cachetest: provider down")

type entry struct {
	value   []byte
	expires time.Time
}

// Provider keeps entries in a map and expires them against Now.
type Provider struct {
	mu      sync.Mutex
	entries map[string]entry
	down    bool

	// Now is the provider clock. Tests move it forward to expire entries.
	Now func() time.Time

	Gets int
	Sets int
}

func New() *Provider {
	return &Provider{
		entries: map[string]entry{},
		Now:     time.Now,
	}
}

// SetDown makes every subsequent call fail with ErrDown until cleared.
func (p *Provider) SetDown(down bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.down = down
}

// Keys lists the live keys in sorted order.
func (p *Provider) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var keys []string
	for k, e := range p.entries {
		if p.Now().Before(e.expires) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Put stores raw bytes directly, bypassing any codec.
func (p *Provider) Put(key string, value []byte, ttl time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = entry{value: slices.Clone(value), expires: p.Now().Add(ttl)}
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Gets++
	if p.down {
		return nil, false, ErrDown
	}
	e, ok := p.entries[key]
	if !ok || !p.Now().Before(e.expires) {
		return nil, false, nil
	}
	return slices.Clone(e.value), true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Sets++
	if p.down {
		return ErrDown
	}
	p.entries[key] = entry{value: slices.Clone(value), expires: p.Now().Add(ttl)}
	return nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.down {
		return ErrDown
	}
	delete(p.entries, key)
	return nil
}

func (p *Provider) Close(context.Context) error { return nil }

func (p *Provider) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.down {
		return ErrDown
	}
	return nil
}
