package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/pkg/httpx"
	"github.com/aussiebroadwan/records/pkg/jwtx"
	"github.com/aussiebroadwan/records/pkg/slogx"

	_ "github.com/aussiebroadwan/records/api/records" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Scopes checked when bearer authentication is enabled.
const (
	ScopeRead  = "records:read"
	ScopeWrite = "records:write"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	ClientService  *service.ClientService
	AccountService *service.AccountService
	Onboarding     *service.Onboarding
	Monitor        *service.HealthMonitor
	Report         Reporter
}

// NewRouter returns a router. A nil verifier leaves every route open.
func NewRouter(verifier jwtx.Verifier, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		Report:       LogReporter,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AllowOrigin("*"),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerClients()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Records Service API
//	@version					0.1.0
//	@description				Client and account records with a read-through query cache.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/records
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				HS256 JWT, only required when the service runs with a shared secret. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// open rate limits a route that never needs a token.
func (r *Router) open(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByIP(httpx.ReadLimit),
	)
}

func (r *Router) read(h http.HandlerFunc) http.Handler {
	return r.guard(h, httpx.ReadLimit, ScopeRead, ScopeWrite)
}

func (r *Router) write(h http.HandlerFunc) http.Handler {
	return r.guard(h, httpx.WriteLimit, ScopeWrite)
}

func (r *Router) guard(h http.HandlerFunc, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	if r.verifier == nil {
		return httpx.Chain(h,
			httpx.RateLimitByIP(limit),
		)
	}
	return httpx.Chain(h,
		httpx.Authenticate(r.verifier),   // verify JWT (iss/exp)
		httpx.RequireAnyScope(scopes...), // enforce scopes
		httpx.RateLimitByCaller(limit),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{
		Clients:    r.ClientService,
		Onboarding: r.Onboarding,
		Report:     r.Report,
	}

	r.Mux.Handle("GET /v1/clients", r.read(h.HandleList))
	r.Mux.Handle("GET /v1/clients/{id}", r.read(h.HandleGet))
	r.Mux.Handle("GET /v1/clients/by-account/{number}", r.read(h.HandleByAccount))
	r.Mux.Handle("POST /v1/clients", r.write(h.HandleCreate))
	r.Mux.Handle("POST /v1/clients/accounts", r.write(h.HandleCreateWithAccounts))
	r.Mux.Handle("PATCH /v1/clients/{id}", r.write(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/clients/{id}", r.write(h.HandleDelete))
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{
		Accounts: r.AccountService,
		Report:   r.Report,
	}

	r.Mux.Handle("GET /v1/accounts", r.read(h.HandleList))
	r.Mux.Handle("POST /v1/accounts", r.write(h.HandleCreate))
	r.Mux.Handle("PATCH /v1/accounts/{id}", r.write(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/accounts/{id}", r.write(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /ping", r.open(PingHandler(r.buildVersion)))
	r.Mux.Handle("GET /livez", r.open(LivezHandler(r.startTime, r.buildVersion)))
	r.Mux.Handle("GET /readyz", r.open(ReadyzHandler(r.startTime, r.buildVersion, r.Monitor)))
}
