package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/records/internal/records/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, implemented by the sqlite and
// dynamodb drivers. It is opened once at startup and shared by every
// component; no operation spans both collections atomically.
type Store interface {
	Clients() Clients
	Accounts() Accounts

	ApplyMigrations() error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Clients interface {
	// Find returns clients matching f in creation order. limit <= 0 means
	// no limit.
	Find(ctx context.Context, f domain.ClientFilter, limit int) ([]domain.Client, error)

	// FindOne returns the first match or ErrNotFound.
	FindOne(ctx context.Context, f domain.ClientFilter) (domain.Client, error)

	// Create assigns the id and timestamps and inserts c.
	Create(ctx context.Context, c domain.Client) (domain.Client, error)

	// UpdateOne applies p to client id, bumps lastUpdated and returns the
	// updated record, or ErrNotFound.
	UpdateOne(ctx context.Context, id string, p domain.ClientPatch) (domain.Client, error)

	// RemoveOne deletes client id and reports how many records went.
	// Accounts owned by the client are left in place.
	RemoveOne(ctx context.Context, id string) (int64, error)

	// RemoveByID is the compensating delete. Removing an absent client is
	// not an error.
	RemoveByID(ctx context.Context, id string) error
}

type Accounts interface {
	Find(ctx context.Context, f domain.AccountFilter, limit int) ([]domain.Account, error)
	FindOne(ctx context.Context, f domain.AccountFilter) (domain.Account, error)

	// CreateMany inserts the batch atomically: either every account is
	// written or none is. A duplicate number fails the whole batch with
	// ErrAlreadyExists.
	CreateMany(ctx context.Context, accts []domain.Account) ([]domain.Account, error)

	UpdateOne(ctx context.Context, id string, p domain.AccountPatch) (domain.Account, error)
	RemoveOne(ctx context.Context, id string) (int64, error)
}
