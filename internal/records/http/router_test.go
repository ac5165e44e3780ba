package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/records/internal/records/cache"
	"github.com/aussiebroadwan/records/internal/records/cache/cachetest"
	"github.com/aussiebroadwan/records/internal/records/domain"
	recordshttp "github.com/aussiebroadwan/records/internal/records/http"
	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/internal/records/store"
	"github.com/aussiebroadwan/records/internal/records/store/drivers/sqlite"
	"github.com/aussiebroadwan/records/pkg/jwtx"
	"github.com/aussiebroadwan/records/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// failingStore fails account batches when batchErr is set.
type failingStore struct {
	store.Store
	batchErr error
}

func (s *failingStore) Accounts() store.Accounts {
	return failingAccounts{Accounts: s.Store.Accounts(), err: s.batchErr}
}

type failingAccounts struct {
	store.Accounts
	err error
}

func (a failingAccounts) CreateMany(ctx context.Context, accts []domain.Account) ([]domain.Account, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.Accounts.CreateMany(ctx, accts)
}

type reported struct {
	source string
	ref    string
	err    error
}

type server struct {
	handler  http.Handler
	store    *failingStore
	provider *cachetest.Provider
	reads    *service.ReadThrough[[]domain.Account]
	reports  []reported
}

func newServer(t *testing.T, verifier jwtx.Verifier) *server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	s := &server{store: &failingStore{Store: st}, provider: cachetest.New()}
	queryCache := cache.New(s.provider, cache.JSON[[]domain.Account]{}, time.Minute)
	s.reads = service.NewReadThrough(queryCache)
	t.Cleanup(s.reads.Wait)

	numbers := service.NewNumberGenerator()

	r := recordshttp.NewRouter(verifier, "test", slogx.Discard())
	r.ClientService = service.NewClientService(s.store)
	r.AccountService = service.NewAccountService(s.store, numbers, s.reads)
	r.Onboarding = service.NewOnboarding(s.store, numbers)
	r.Monitor = service.NewHealthMonitor(slogx.Discard(), 0,
		service.Probe{Name: recordshttp.ProbeStore, Check: st.Ping},
		service.Probe{Name: recordshttp.ProbeCache, Check: queryCache.Ping},
	)
	r.Report = func(ctx context.Context, source string, err error) string {
		ref := recordshttp.LogReporter(ctx, source, err)
		s.reports = append(s.reports, reported{source: source, ref: ref, err: err})
		return ref
	}
	r.ApplyRoutes()

	s.handler = r
	return s
}

func (s *server) do(t *testing.T, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *server) onboard(t *testing.T, body string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/clients/accounts", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[string](t, rec)
}

func TestCreateWithAccountsThenLookup(t *testing.T) {
	s := newServer(t, nil)

	cid := s.onboard(t, `{"name":"hello","email":"hello@example.com","accounts":[{"type":"saving","status":"active"},{"type":"cheque","status":"active"}]}`)
	require.NotEmpty(t, cid)

	rec := s.do(t, http.MethodGet, "/v1/accounts?cid="+cid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	accts := decode[[]domain.Account](t, rec)
	require.Len(t, accts, 2)
	require.NotEqual(t, accts[0].Number, accts[1].Number)

	for _, a := range accts {
		rec := s.do(t, http.MethodGet, "/v1/clients/by-account/"+a.Number, "")
		require.Equal(t, http.StatusOK, rec.Code)
		c := decode[domain.Client](t, rec)
		require.Equal(t, cid, c.ID)
		require.Equal(t, "hello", c.Name)
	}
}

func TestCreateClientReturnsID(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodPost, "/v1/clients", `{"name":"hello","dob":"1990-01-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[string](t, rec)

	rec = s.do(t, http.MethodGet, "/v1/clients?minage=18", "")
	require.Equal(t, http.StatusOK, rec.Code)
	clients := decode[[]domain.Client](t, rec)
	require.Len(t, clients, 1)
	require.Equal(t, id, clients[0].ID)
	require.Empty(t, clients[0].Phone)
}

func TestListClientsDefaultsToTen(t *testing.T) {
	s := newServer(t, nil)

	for range 12 {
		rec := s.do(t, http.MethodPost, "/v1/clients", `{"name":"hello"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	clients := decode[[]domain.Client](t, s.do(t, http.MethodGet, "/v1/clients", ""))
	require.Len(t, clients, 10)

	clients = decode[[]domain.Client](t, s.do(t, http.MethodGet, "/v1/clients?limit=12", ""))
	require.Len(t, clients, 12)
}

func TestListClientsEmptyIsArray(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodGet, "/v1/clients?unknown=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateAndDelete(t *testing.T) {
	s := newServer(t, nil)
	cid := s.onboard(t, `{"name":"hello","accounts":[{"type":"saving"}]}`)

	rec := s.do(t, http.MethodPatch, "/v1/clients/"+cid, `{"phone":"0400000000"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/v1/clients/"+cid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[domain.Client](t, rec)
	require.Equal(t, "hello", c.Name)
	require.Equal(t, "0400000000", c.Phone)

	accts := decode[[]domain.Account](t, s.do(t, http.MethodGet, "/v1/accounts?force=true&cid="+cid, ""))
	require.Len(t, accts, 1)

	rec = s.do(t, http.MethodPatch, "/v1/accounts/"+accts[0].ID, `{"status":"closed"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/v1/clients/"+cid, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())

	// The account outlives its client.
	accts = decode[[]domain.Account](t, s.do(t, http.MethodGet, "/v1/accounts?force=true&cid="+cid, ""))
	require.Len(t, accts, 1)
	require.Equal(t, "closed", accts[0].Status)

	rec = s.do(t, http.MethodGet, "/v1/clients/by-account/"+accts[0].Number, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"message":"client not found"}`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/v1/accounts/"+accts[0].ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNotFound(t *testing.T) {
	s := newServer(t, nil)

	for _, tc := range []struct {
		method, target, body, message string
	}{
		{http.MethodGet, "/v1/clients/missing", "", "client not found"},
		{http.MethodPatch, "/v1/clients/missing", `{"name":"x"}`, "client not found"},
		{http.MethodDelete, "/v1/clients/missing", "", "client not found"},
		{http.MethodPatch, "/v1/accounts/missing", `{"status":"x"}`, "account not found"},
		{http.MethodDelete, "/v1/accounts/missing", "", "account not found"},
		{http.MethodGet, "/v1/clients/by-account/1234567890", "", "account not found"},
		{http.MethodPost, "/v1/accounts", `{"cid":"missing","type":"saving"}`, "client not found"},
	} {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.target, tc.body)
			require.Equal(t, http.StatusNotFound, rec.Code)
			require.JSONEq(t, `{"message":"`+tc.message+`"}`, rec.Body.String())
		})
	}
	require.Empty(t, s.reports)
}

func TestBadRequests(t *testing.T) {
	s := newServer(t, nil)

	for _, tc := range []struct {
		name, method, target, body string
	}{
		{"bad minage", http.MethodGet, "/v1/clients?minage=old", ""},
		{"negative limit", http.MethodGet, "/v1/accounts?limit=-1", ""},
		{"bad force", http.MethodGet, "/v1/accounts?force=maybe", ""},
		{"malformed body", http.MethodPost, "/v1/clients", `{"name":`},
		{"future dob", http.MethodPost, "/v1/clients", `{"name":"x","dob":"2999-01-01"}`},
		{"invalid dob", http.MethodPost, "/v1/clients/accounts", `{"name":"x","dob":"01/02/1990"}`},
		{"missing cid", http.MethodPost, "/v1/accounts", `{"type":"saving"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.target, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			msg := decode[map[string]string](t, rec)
			require.NotEmpty(t, msg["message"])
			require.NotContains(t, msg, "ref")
		})
	}
}

func TestStoreFailureIsReportedWithRef(t *testing.T) {
	s := newServer(t, nil)
	s.store.batchErr = &store.OpError{Op: "accounts.create", Err: errors.New("disk on fire")}

	rec := s.do(t, http.MethodPost, "/v1/clients/accounts", `{"name":"hello","accounts":[{"type":"saving"}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode[map[string]string](t, rec)
	require.Equal(t, "internal error", body["message"])
	require.NotEmpty(t, body["ref"])
	require.NotContains(t, rec.Body.String(), "disk on fire")

	require.Len(t, s.reports, 1)
	require.Equal(t, "http/clients", s.reports[0].source)
	require.Equal(t, body["ref"], s.reports[0].ref)

	var werr *service.WorkflowError
	require.ErrorAs(t, s.reports[0].err, &werr)
	require.Equal(t, service.StateCompensated, werr.State)

	// The compensated client is gone.
	rec = s.do(t, http.MethodGet, "/v1/clients", "")
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestAccountListingCacheKey(t *testing.T) {
	s := newServer(t, nil)
	cid := s.onboard(t, `{"name":"hello","accounts":[{"type":"saving","status":"open"}]}`)

	rec := s.do(t, http.MethodGet, "/v1/accounts?status=open&utm=x&type=saving&cid="+cid+"&limit=5&number=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	s.reads.Wait()

	require.Equal(t, []string{cache.Namespace + "cid:" + cid + ":type:saving:status:open:"}, s.provider.Keys())

	// Same filter in a different order is served from the same entry.
	rec2 := s.do(t, http.MethodGet, "/v1/accounts?cid="+cid+"&type=saving&status=open", "")
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Equal(t, rec.Body.String(), rec2.Body.String())
	require.Equal(t, 2, s.provider.Gets)
	require.Equal(t, 1, s.provider.Sets)
}

func TestHealthEndpoints(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", decode[recordshttp.HealthResponse](t, rec).Version)

	rec = s.do(t, http.MethodGet, "/livez", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[recordshttp.HealthResponse](t, rec)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, map[string]string{"store": "ok", "cache": "ok"}, ready.Checks)

	s.provider.SetDown(true)
	rec = s.do(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ready = decode[recordshttp.HealthResponse](t, rec)
	require.Equal(t, "degraded", ready.Status)
	require.Contains(t, ready.Checks["cache"], "error:")
}

func TestRequestIDHeader(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodGet, "/livez", "", slogx.RequestIDHeader, "abc")
	require.Equal(t, "abc", rec.Header().Get(slogx.RequestIDHeader))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBearerAuthentication(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	v, err := jwtx.NewHS256(secret, "records-test")
	require.NoError(t, err)
	s := newServer(t, v)

	token := func(scopes ...string) string {
		c := jwtx.NewClaims("svc", "records-test", scopes, time.Minute, time.Now())
		raw, err := jwtx.SignHS256(secret, c)
		require.NoError(t, err)
		return "Bearer " + raw
	}

	rec := s.do(t, http.MethodPost, "/v1/clients", `{"name":"x"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

	rec = s.do(t, http.MethodPost, "/v1/clients", `{"name":"x"}`, "Authorization", token(recordshttp.ScopeRead))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/clients", `{"name":"x"}`, "Authorization", token(recordshttp.ScopeWrite))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/clients", "", "Authorization", token(recordshttp.ScopeRead))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/livez", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
