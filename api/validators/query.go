package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/pagination"
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
	limit, err := ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}

	cursor, err := pagination.ParseCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		return pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").WithDetails(map[string]any{"field": "cursor"})
	}

	return pagination.Params{Limit: limit, Cursor: cursor}, nil
}

// URLParamID reads a positive integer id from the chi route parameters.
func URLParamID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive id").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
