package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/pkg/httpx"
	"github.com/aussiebroadwan/records/pkg/slogx"
	"github.com/google/uuid"
)

// Reporter records an unrecoverable error under source and returns the
// reference quoted back to the caller.
type Reporter func(ctx context.Context, source string, err error) string

// LogReporter logs err at error level with a fresh reference id.
func LogReporter(ctx context.Context, source string, err error) string {
	ref := uuid.NewString()
	slogx.FromContext(ctx).Error("request failed", "source", source, "ref", ref, "error", err)
	return ref
}

// writeError maps err onto the response. Not-found and invalid input are
// answered directly; anything else goes to report and only the reference
// leaves the process.
func writeError(w http.ResponseWriter, r *http.Request, report Reporter, source string, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "client not found")
	case errors.Is(err, service.ErrAccountNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "account not found")
	case errors.Is(err, service.ErrInvalidArgument):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
	default:
		ref := report(r.Context(), source, err)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.Message{
			Message: "internal error",
			Ref:     ref,
		})
	}
}
