// Package cache is the best-effort query cache in front of the record store.
// Absence of an entry is always valid; the store stays the source of truth.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Namespace prefixes every key the cache writes.
const Namespace = "query:"

// DefaultTTL applies to every entry unless configured otherwise.
const DefaultTTL = 5 * time.Minute

var ErrUnavailable = errors.New("cache: unavailable")

// Error reports a failure to reach the backing provider. It matches both
// ErrUnavailable and the provider's own error.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cache: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// Cache stores values of type V under namespaced keys with one shared TTL.
type Cache[V any] struct {
	p     Provider
	codec Codec[V]
	ttl   time.Duration
}

// New returns a Cache. A non-positive ttl falls back to DefaultTTL.
func New[V any](p Provider, codec Codec[V], ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{p: p, codec: codec, ttl: ttl}
}

func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// Get returns (v, true, nil) on hit and (zero, false, nil) on miss. A
// provider failure is returned as *Error and is not a miss. Entries that no
// longer decode are dropped and reported as a miss.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	nk := Namespace + key

	b, ok, err := c.p.Get(ctx, nk)
	if err != nil {
		return zero, false, &Error{Op: "get", Key: nk, Err: err}
	}
	if !ok {
		return zero, false, nil
	}

	v, err := c.codec.Decode(b)
	if err != nil {
		_ = c.p.Del(ctx, nk)
		return zero, false, nil
	}
	return v, true, nil
}

// Set writes v under key with the cache TTL.
func (c *Cache[V]) Set(ctx context.Context, key string, v V) error {
	nk := Namespace + key

	b, err := c.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", nk, err)
	}
	if err := c.p.Set(ctx, nk, b, c.ttl); err != nil {
		return &Error{Op: "set", Key: nk, Err: err}
	}
	return nil
}

// Ping probes the provider when it has a remote backend.
func (c *Cache[V]) Ping(ctx context.Context) error {
	if p, ok := c.p.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return &Error{Op: "ping", Err: err}
		}
	}
	return nil
}
