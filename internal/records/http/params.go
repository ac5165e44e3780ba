package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/records/internal/records/domain"
	"github.com/aussiebroadwan/records/internal/records/service"
)

// Query parameters outside these lists are ignored. Empty values are
// treated as absent.

func clientQuery(q url.Values) (service.ClientQuery, error) {
	out := service.ClientQuery{
		Filter: domain.ClientFilter{
			Name:       q.Get("name"),
			Address:    q.Get("address"),
			PostalCode: q.Get("postalCode"),
			Phone:      q.Get("phone"),
			Email:      q.Get("email"),
		},
	}

	var err error
	if out.MinAge, err = intParam(q, "minage", -1); err != nil {
		return out, err
	}
	if out.MaxAge, err = intParam(q, "maxage", -1); err != nil {
		return out, err
	}
	if out.Limit, err = intParam(q, "limit", 0); err != nil {
		return out, err
	}
	return out, nil
}

func accountQuery(q url.Values) (service.AccountQuery, error) {
	out := service.AccountQuery{
		Filter: domain.AccountFilter{
			ClientID: q.Get("cid"),
			Number:   q.Get("number"),
			Type:     q.Get("type"),
			Status:   q.Get("status"),
		},
	}

	var err error
	if out.Limit, err = intParam(q, "limit", 0); err != nil {
		return out, err
	}
	if v := q.Get("force"); v != "" {
		if out.Force, err = strconv.ParseBool(v); err != nil {
			return out, fmt.Errorf("%w: force must be a boolean", service.ErrInvalidArgument)
		}
	}
	return out, nil
}

// intParam reads a non-negative integer parameter, or def when absent.
func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := service.ParseCount(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", service.ErrInvalidArgument, name)
	}
	return n, nil
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON in request body", service.ErrInvalidArgument)
	}
	return nil
}
