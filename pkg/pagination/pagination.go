package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services.
// Cursor is the id of the last row the client has seen; zero means the
// first page. Listings order by id descending and filter with id < cursor,
// so a row is never returned twice across pages.
type Params struct {
	Limit  int
	Cursor int64
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalization result plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// ParseCursor decodes the cursor query value. Empty means first page.
func ParseCursor(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q", value)
	}
	if id <= 0 {
		return 0, fmt.Errorf("cursor must be a positive id")
	}
	return id, nil
}

// Page trims a lookahead result set down to the requested limit and
// reports the cursor for the next page. rows must have been fetched with
// LimitWithBuffer; ids returns the sort key of a row.
func Page[T any](rows []T, limit int, id func(T) int64) ([]T, int64, bool) {
	normalized := NormalizeLimit(limit)
	if len(rows) <= normalized {
		return rows, 0, false
	}
	rows = rows[:normalized]
	return rows, id(rows[len(rows)-1]), true
}
