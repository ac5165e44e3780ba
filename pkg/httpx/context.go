package httpx

import "context"

type ctxKey string

const (
	CtxKeySubject ctxKey = "subject"
	CtxKeyScopes  ctxKey = "scopes"
)

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}

// SubjectFromContext returns the authenticated subject, if the auth hook
// verified a bearer token for this request.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeySubject).(string)
	return v, ok && v != ""
}
