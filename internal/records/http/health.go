package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/pkg/httpx"
)

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime,omitempty"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// PingHandler godoc
//
//	@Summary	Version
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	HealthResponse	"version"
//	@Router		/ping [get].
func PingHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version})
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Probes the store and the cache. The service is not ready while the store is unreachable; an unreachable cache only degrades it.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	HealthResponse	"status, uptime, version, checks"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, monitor *service.HealthMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  map[string]string{},
		}
		code := http.StatusOK

		for _, res := range monitor.Check(r.Context()) {
			if res.Err == nil {
				resp.Checks[res.Name] = "ok"
				continue
			}
			resp.Checks[res.Name] = "error: " + res.Err.Error()
			if res.Name == ProbeStore {
				resp.Status = "unavailable"
				code = http.StatusServiceUnavailable
			} else if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}

		httpx.WriteJSON(w, code, resp)
	}
}

// Probe names reported by /readyz.
const (
	ProbeStore = "store"
	ProbeCache = "cache"
)
