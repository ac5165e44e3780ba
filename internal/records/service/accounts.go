package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/records/internal/records/cache"
	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/store"
)

// DefaultLimit caps a listing when the caller sets none.
const DefaultLimit = 10

// AccountQuery is an account listing request. Limit and Force are control
// parameters and do not take part in the cache key.
type AccountQuery struct {
	Filter domain.AccountFilter
	Limit  int
	Force  bool
}

type AccountService struct {
	Store   store.Store
	Numbers *NumberGenerator
	Reads   *ReadThrough[[]domain.Account]
}

func NewAccountService(st store.Store, numbers *NumberGenerator, reads *ReadThrough[[]domain.Account]) *AccountService {
	return &AccountService{Store: st, Numbers: numbers, Reads: reads}
}

// AccountParams lists the filter's query parameters in their fixed order:
// cid, number, type, status. Unset fields are left out.
func AccountParams(f domain.AccountFilter) []cache.Param {
	var ps []cache.Param
	add := func(name, value string) {
		if value != "" {
			ps = append(ps, cache.Param{Name: name, Value: value})
		}
	}
	add("cid", f.ClientID)
	add("number", f.Number)
	add("type", f.Type)
	add("status", f.Status)
	return ps
}

// List answers an account query through the read-through cache. Writes do
// not invalidate cached listings; a listing may be stale for up to the
// cache TTL unless Force is set.
func (s *AccountService) List(ctx context.Context, q AccountQuery) ([]domain.Account, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := cache.EncodeKey(AccountParams(q.Filter))
	out, err := s.Reads.Query(ctx, key, q.Force, func(ctx context.Context) ([]domain.Account, error) {
		accts, err := s.Store.Accounts().Find(ctx, q.Filter, limit)
		if err != nil {
			return nil, err
		}
		if accts == nil {
			accts = []domain.Account{}
		}
		return accts, nil
	})
	if err != nil {
		return nil, err
	}

	// Cached entries may decode into the local zone. out can still be read
	// by the write-back, so normalise a copy.
	res := make([]domain.Account, len(out))
	for i, a := range out {
		a.Created = a.Created.UTC()
		a.LastUpdated = a.LastUpdated.UTC()
		res[i] = a
	}
	return res, nil
}

// Create opens one account for an existing client.
func (s *AccountService) Create(ctx context.Context, in domain.NewAccount) (domain.Account, error) {
	if in.ClientID == "" {
		return domain.Account{}, fmt.Errorf("%w: cid is required", ErrInvalidArgument)
	}

	_, err := s.Store.Clients().FindOne(ctx, domain.ClientFilter{ID: in.ClientID})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrClientNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}

	numbers, err := s.Numbers.Generate(1)
	if err != nil {
		return domain.Account{}, err
	}

	out, err := s.Store.Accounts().CreateMany(ctx, []domain.Account{{
		ClientID: in.ClientID,
		Number:   numbers[0],
		Type:     in.Type,
		Status:   in.Status,
	}})
	if err != nil {
		return domain.Account{}, err
	}
	return out[0], nil
}

func (s *AccountService) Update(ctx context.Context, id string, p domain.AccountPatch) (domain.Account, error) {
	a, err := s.Store.Accounts().UpdateOne(ctx, id, p)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, err
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	n, err := s.Store.Accounts().RemoveOne(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}
