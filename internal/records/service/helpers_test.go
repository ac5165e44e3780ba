package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/records/internal/records/cache"
	"github.com/aussiebroadwan/records/internal/records/cache/cachetest"
	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/internal/records/store"
	"github.com/aussiebroadwan/records/internal/records/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// spyStore wraps a real store, counts account queries and injects failures.
type spyStore struct {
	store.Store

	accountFinds atomic.Int32

	createErr error
	batchErr  error
	removeErr error
	findErr   error
}

func (s *spyStore) Clients() store.Clients   { return spyClients{Clients: s.Store.Clients(), s: s} }
func (s *spyStore) Accounts() store.Accounts { return spyAccounts{Accounts: s.Store.Accounts(), s: s} }

type spyClients struct {
	store.Clients
	s *spyStore
}

func (c spyClients) Create(ctx context.Context, cl domain.Client) (domain.Client, error) {
	if c.s.createErr != nil {
		return domain.Client{}, c.s.createErr
	}
	return c.Clients.Create(ctx, cl)
}

func (c spyClients) RemoveByID(ctx context.Context, id string) error {
	if c.s.removeErr != nil {
		return c.s.removeErr
	}
	return c.Clients.RemoveByID(ctx, id)
}

type spyAccounts struct {
	store.Accounts
	s *spyStore
}

func (a spyAccounts) Find(ctx context.Context, f domain.AccountFilter, limit int) ([]domain.Account, error) {
	a.s.accountFinds.Add(1)
	if a.s.findErr != nil {
		return nil, a.s.findErr
	}
	return a.Accounts.Find(ctx, f, limit)
}

func (a spyAccounts) CreateMany(ctx context.Context, accts []domain.Account) ([]domain.Account, error) {
	if a.s.batchErr != nil {
		return nil, a.s.batchErr
	}
	return a.Accounts.CreateMany(ctx, accts)
}

type fixture struct {
	store      *spyStore
	provider   *cachetest.Provider
	reads      *service.ReadThrough[[]domain.Account]
	numbers    *service.NumberGenerator
	clients    *service.ClientService
	accounts   *service.AccountService
	onboarding *service.Onboarding
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	spy := &spyStore{Store: st}
	provider := cachetest.New()
	reads := service.NewReadThrough(cache.New(provider, cache.Msgpack[[]domain.Account]{}, time.Minute))
	t.Cleanup(reads.Wait)

	numbers := service.NewNumberGenerator()

	return &fixture{
		store:      spy,
		provider:   provider,
		reads:      reads,
		numbers:    numbers,
		clients:    service.NewClientService(spy),
		accounts:   service.NewAccountService(spy, numbers, reads),
		onboarding: service.NewOnboarding(spy, numbers),
	}
}

// onboard creates a client with the given account types.
func (f *fixture) onboard(t *testing.T, name string, types ...string) string {
	t.Helper()

	form := domain.NewClient{Name: name}
	for _, typ := range types {
		form.Accounts = append(form.Accounts, domain.NewAccount{Type: typ, Status: "active"})
	}
	id, err := f.onboarding.CreateClientWithAccounts(context.Background(), form)
	require.NoError(t, err)
	return id
}
