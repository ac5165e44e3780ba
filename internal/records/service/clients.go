package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/store"
)

// ClientQuery is a client listing request. MinAge and MaxAge are ignored
// when negative.
type ClientQuery struct {
	Filter domain.ClientFilter
	MinAge int
	MaxAge int
	Limit  int
}

type ClientService struct {
	Store store.Store
	Now   func() time.Time
}

func NewClientService(st store.Store) *ClientService {
	return &ClientService{Store: st, Now: time.Now}
}

// List returns the clients matching q, at most DefaultLimit when q.Limit is
// unset. Clients are not cached.
func (s *ClientService) List(ctx context.Context, q ClientQuery) ([]domain.Client, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	f := q.Filter
	f.BornOnOrBefore, f.BornAfter = domain.AgeBounds(s.Now().UTC(), q.MinAge, q.MaxAge)

	out, err := s.Store.Clients().Find(ctx, f, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Client{}
	}
	return out, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (domain.Client, error) {
	c, err := s.Store.Clients().FindOne(ctx, domain.ClientFilter{ID: id})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	return c, err
}

// Create writes a client without accounts.
func (s *ClientService) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.DOB != "" {
		if err := domain.ValidateDOB(c.DOB, s.Now()); err != nil {
			return domain.Client{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}
	c.ID = ""
	return s.Store.Clients().Create(ctx, c)
}

func (s *ClientService) Update(ctx context.Context, id string, p domain.ClientPatch) (domain.Client, error) {
	if err := p.Validate(s.Now()); err != nil {
		return domain.Client{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	c, err := s.Store.Clients().UpdateOne(ctx, id, p)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	return c, err
}

// Delete removes the client only. Its accounts stay behind.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	n, err := s.Store.Clients().RemoveOne(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrClientNotFound
	}
	return nil
}

// ByAccountNumber resolves the owner of an account number.
func (s *ClientService) ByAccountNumber(ctx context.Context, number string) (domain.Client, error) {
	acct, err := s.Store.Accounts().FindOne(ctx, domain.AccountFilter{Number: number})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Client{}, err
	}

	c, err := s.Store.Clients().FindOne(ctx, domain.ClientFilter{ID: acct.ClientID})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	return c, err
}
