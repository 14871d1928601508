package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/pagination"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePagination reads the limit and cursor query parameters.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	limit, err := ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	params := pagination.Params{Limit: limit}
	if raw := strings.TrimSpace(r.URL.Query().Get("cursor")); raw != "" {
		if _, err := pagination.ParseCursor(raw); err != nil {
			return pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor").WithDetails(map[string]any{"field": "cursor"})
		}
		params.Cursor = raw
	}
	return params, nil
}
