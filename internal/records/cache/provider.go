package cache

import (
	"context"
	"time"
)

// Provider is a byte store with TTLs. Implementations must be safe for
// concurrent use and return exactly the bytes given to Set.
type Provider interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss or
	// expiry. Transport failures return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes a key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	Close(ctx context.Context) error
}

// Pinger is implemented by providers with a remote backend worth probing.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Noop never stores anything, so every read misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Del(context.Context, string) error                        { return nil }
func (Noop) Close(context.Context) error                              { return nil }
