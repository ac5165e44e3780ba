package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/store"
	"github.com/aussiebroadwan/records/pkg/slogx"
)

// CompensationTimeout bounds the compensating delete of the client.
const CompensationTimeout = 10 * time.Second

// WorkflowState is a step of the create-with-accounts workflow.
type WorkflowState int

const (
	StateStart WorkflowState = iota
	StateClientCreated
	StateAccountsAssigned
	StateAccountsCreated
	StateCompensating
	StateCompensated
	StateFailed
)

func (s WorkflowState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateClientCreated:
		return "CLIENT_CREATED"
	case StateAccountsAssigned:
		return "ACCOUNTS_ASSIGNED"
	case StateAccountsCreated:
		return "ACCOUNTS_CREATED"
	case StateCompensating:
		return "COMPENSATING"
	case StateCompensated:
		return "COMPENSATED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("WorkflowState(%d)", int(s))
	}
}

// WorkflowError is returned when onboarding stops before the accounts are
// written. State is COMPENSATED once a created client has had its removal
// attempted, and FAILED when no client was written. RollbackErr is set when
// the compensating delete itself failed, leaving ClientID orphaned.
type WorkflowError struct {
	State       WorkflowState
	ClientID    string
	Err         error
	RollbackErr error
}

func (e *WorkflowError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("onboarding %s: %v; removing client %s failed: %v",
			e.State, e.Err, e.ClientID, e.RollbackErr)
	}
	return fmt.Sprintf("onboarding %s: %v", e.State, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// Onboarding creates a client together with its initial accounts. The two
// collections are written separately, so a failed account batch is undone
// by deleting the client again.
type Onboarding struct {
	Store   store.Store
	Numbers *NumberGenerator
	Now     func() time.Time

	// Observe, when set, sees every state the workflow enters.
	Observe func(WorkflowState)
}

func NewOnboarding(st store.Store, numbers *NumberGenerator) *Onboarding {
	return &Onboarding{Store: st, Numbers: numbers, Now: time.Now}
}

// CreateClientWithAccounts persists the client, then the account batch
// stamped with the new client id and freshly generated numbers, and returns
// the client id. On any failure after the client write the client is
// removed before the error is returned.
func (o *Onboarding) CreateClientWithAccounts(ctx context.Context, form domain.NewClient) (string, error) {
	log := slogx.FromContext(ctx)
	o.enter(StateStart)

	if form.DOB != "" {
		if err := domain.ValidateDOB(form.DOB, o.Now()); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	numbers, err := o.Numbers.Generate(len(form.Accounts))
	if err != nil {
		return "", err
	}

	client, err := o.Store.Clients().Create(ctx, form.Client())
	if err != nil {
		o.enter(StateFailed)
		return "", &WorkflowError{State: StateFailed, Err: err}
	}
	o.enter(StateClientCreated)

	accts := make([]domain.Account, len(form.Accounts))
	for i, a := range form.Accounts {
		accts[i] = domain.Account{
			ClientID: client.ID,
			Number:   numbers[i],
			Type:     a.Type,
			Status:   a.Status,
		}
	}
	o.enter(StateAccountsAssigned)

	if _, err := o.Store.Accounts().CreateMany(ctx, accts); err != nil {
		log.Warn("account batch failed, removing client",
			"client_id", client.ID, "accounts", len(accts), "error", err)
		return "", o.compensate(ctx, client.ID, err)
	}
	o.enter(StateAccountsCreated)

	log.Info("client onboarded", "client_id", client.ID, "accounts", len(accts))
	return client.ID, nil
}

func (o *Onboarding) compensate(ctx context.Context, clientID string, cause error) error {
	o.enter(StateCompensating)

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), CompensationTimeout)
	defer cancel()

	werr := &WorkflowError{State: StateCompensated, ClientID: clientID, Err: cause}
	if err := o.Store.Clients().RemoveByID(cctx, clientID); err != nil {
		slogx.FromContext(ctx).Error("compensating delete failed, client orphaned",
			"client_id", clientID, "error", err)
		werr.RollbackErr = err
	}
	o.enter(werr.State)
	return werr
}

func (o *Onboarding) enter(s WorkflowState) {
	if o.Observe != nil {
		o.Observe(s)
	}
}
