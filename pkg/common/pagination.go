package common

import (
	"net/http"
	"strconv"
)

// Pagination caps. A limit above maxLimit is clamped, not rejected.
const (
	DefaultLimit = 20
	maxLimit     = 100
)

// PageParams is the skip/limit window every list endpoint accepts.
type PageParams struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// ExtractPageParams reads skip and limit from the query string. Missing or
// malformed values fall back to skip=0, limit=DefaultLimit; negatives are
// treated as absent.
func ExtractPageParams(r *http.Request) PageParams {
	params := PageParams{Skip: 0, Limit: DefaultLimit}

	if raw := r.URL.Query().Get("skip"); raw != "" {
		if skip, err := strconv.Atoi(raw); err == nil && skip >= 0 {
			params.Skip = skip
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 0 {
			if limit > maxLimit {
				limit = maxLimit
			}
			params.Limit = limit
		}
	}

	return params
}
