package sqlite_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/store"
	"github.com/aussiebroadwan/records/internal/records/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func strPtr(s string) *string { return &s }

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestClientsCRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	created, err := s.Clients().Create(ctx, domain.Client{Name: "hello", Email: "hello@example.com", DOB: "1990-01-02"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.Created.IsZero())
	require.Equal(t, created.Created, created.LastUpdated)

	got, err := s.Clients().FindOne(ctx, domain.ClientFilter{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, created, got)

	t.Run("absent fields stay absent", func(t *testing.T) {
		require.Empty(t, got.Address)
		require.Empty(t, got.Phone)
	})

	t.Run("update sets only supplied fields", func(t *testing.T) {
		updated, err := s.Clients().UpdateOne(ctx, created.ID, domain.ClientPatch{Phone: strPtr("0400000000")})
		require.NoError(t, err)
		require.Equal(t, "0400000000", updated.Phone)
		require.Equal(t, "hello", updated.Name)
		require.Equal(t, created.Created, updated.Created)
	})

	t.Run("update of unknown id", func(t *testing.T) {
		_, err := s.Clients().UpdateOne(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", domain.ClientPatch{Name: strPtr("x")})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("remove reports count", func(t *testing.T) {
		n, err := s.Clients().RemoveOne(ctx, created.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		n, err = s.Clients().RemoveOne(ctx, created.ID)
		require.NoError(t, err)
		require.EqualValues(t, 0, n)

		_, err = s.Clients().FindOne(ctx, domain.ClientFilter{ID: created.ID})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("remove by id tolerates absence", func(t *testing.T) {
		require.NoError(t, s.Clients().RemoveByID(ctx, created.ID))
	})
}

func TestClientsFind(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, c := range []domain.Client{
		{Name: "a", DOB: "1950-05-01"},
		{Name: "b", DOB: "1990-05-01"},
		{Name: "c", DOB: "2010-05-01"},
		{Name: "d"},
	} {
		_, err := s.Clients().Create(ctx, c)
		require.NoError(t, err)
	}

	names := func(cs []domain.Client) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Name
		}
		return out
	}

	all, err := s.Clients().Find(ctx, domain.ClientFilter{}, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, names(all))

	limited, err := s.Clients().Find(ctx, domain.ClientFilter{}, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names(limited))

	ranged, err := s.Clients().Find(ctx, domain.ClientFilter{BornOnOrBefore: "2000-01-01", BornAfter: "1960-01-01"}, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, names(ranged))

	older, err := s.Clients().Find(ctx, domain.ClientFilter{BornOnOrBefore: "2000-01-01"}, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names(older), "clients without dob never match")

	none, err := s.Clients().Find(ctx, domain.ClientFilter{Name: "zzz"}, 10)
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestAccountsCreateMany(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	t.Run("empty batch", func(t *testing.T) {
		out, err := s.Accounts().CreateMany(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, out)
	})

	out, err := s.Accounts().CreateMany(ctx, []domain.Account{
		{ClientID: "c1", Number: "1000000001", Type: "saving", Status: "active"},
		{ClientID: "c1", Number: "1000000002", Type: "cheque", Status: "active"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotEqual(t, out[0].ID, out[1].ID)

	t.Run("duplicate number fails the whole batch", func(t *testing.T) {
		_, err := s.Accounts().CreateMany(ctx, []domain.Account{
			{ClientID: "c2", Number: "2000000001"},
			{ClientID: "c2", Number: "1000000001"},
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.Accounts().FindOne(ctx, domain.AccountFilter{Number: "2000000001"})
		require.ErrorIs(t, err, store.ErrNotFound, "first insert of the batch must be rolled back")
	})

	t.Run("find by filter", func(t *testing.T) {
		saving, err := s.Accounts().Find(ctx, domain.AccountFilter{ClientID: "c1", Type: "saving"}, 10)
		require.NoError(t, err)
		require.Len(t, saving, 1)
		require.Equal(t, "1000000001", saving[0].Number)

		byNumber, err := s.Accounts().FindOne(ctx, domain.AccountFilter{Number: "1000000002"})
		require.NoError(t, err)
		require.Equal(t, out[1], byNumber)
	})

	t.Run("update and remove", func(t *testing.T) {
		updated, err := s.Accounts().UpdateOne(ctx, out[0].ID, domain.AccountPatch{Status: strPtr("closed")})
		require.NoError(t, err)
		require.Equal(t, "closed", updated.Status)
		require.Equal(t, "1000000001", updated.Number)

		_, err = s.Accounts().UpdateOne(ctx, "missing", domain.AccountPatch{Status: strPtr("closed")})
		require.ErrorIs(t, err, store.ErrNotFound)

		n, err := s.Accounts().RemoveOne(ctx, out[0].ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})
}

func TestDeletingClientLeavesAccounts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	c, err := s.Clients().Create(ctx, domain.Client{Name: "owner"})
	require.NoError(t, err)
	_, err = s.Accounts().CreateMany(ctx, []domain.Account{{ClientID: c.ID, Number: "3000000001"}})
	require.NoError(t, err)

	n, err := s.Clients().RemoveOne(ctx, c.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	orphans, err := s.Accounts().Find(ctx, domain.AccountFilter{ClientID: c.ID}, 10)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
}
