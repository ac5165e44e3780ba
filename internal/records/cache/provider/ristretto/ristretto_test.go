package ristretto_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/records/internal/records/cache/provider/ristretto"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()
	p, err := ristretto.New(ristretto.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(ctx) })

	_, ok, err := p.Get(ctx, "query:k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, p.Set(ctx, "query:k", []byte("v"), time.Minute))
	p.Wait()

	b, ok, err := p.Get(ctx, "query:k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), b)

	require.NoError(t, p.Del(ctx, "query:k"))
	_, ok, _ = p.Get(ctx, "query:k")
	require.False(t, ok)
}

func TestInvalidConfig(t *testing.T) {
	_, err := ristretto.New(ristretto.Config{})
	require.ErrorIs(t, err, ristretto.ErrInvalidConfig)
}
