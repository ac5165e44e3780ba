package service

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/records/pkg/slogx"
)

// DefaultWriteTimeout bounds a background cache write-back.
const DefaultWriteTimeout = 2 * time.Second

// QueryCache is the part of cache.Cache the read-through engine needs.
type QueryCache[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, v V) error
}

// ReadThrough answers queries from the cache when it can and from the store
// otherwise, populating the cache in the background after a miss.
type ReadThrough[V any] struct {
	cache        QueryCache[V]
	writeTimeout time.Duration
	wg           sync.WaitGroup
}

func NewReadThrough[V any](c QueryCache[V]) *ReadThrough[V] {
	return &ReadThrough[V]{cache: c, writeTimeout: DefaultWriteTimeout}
}

// Query returns the value cached under key, or calls fetch on a miss.
//
// With force set the cache is neither read nor written and fetch runs
// exactly once. A cache read failure is logged and treated as a miss. A
// fetch error is returned as is and nothing is cached. A successful fetch
// is returned immediately while the write-back runs on its own goroutine.
func (r *ReadThrough[V]) Query(
	ctx context.Context,
	key string,
	force bool,
	fetch func(context.Context) (V, error),
) (V, error) {
	log := slogx.FromContext(ctx)

	if force {
		return fetch(ctx)
	}

	v, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		log.Warn("cache read failed, querying store", "key", key, "error", err)
	} else if ok {
		log.Debug("cache hit", "key", key)
		return v, nil
	}

	v, err = fetch(ctx)
	if err != nil {
		return v, err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
		defer cancel()

		if err := r.cache.Set(wctx, key, v); err != nil {
			log.Warn("cache write failed", "key", key, "error", err)
		}
	}()
	return v, nil
}

// Wait blocks until every pending write-back has finished.
func (r *ReadThrough[V]) Wait() { r.wg.Wait() }
