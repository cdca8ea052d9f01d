package utils

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// GetPaginationDetails reads limit/offset query params, clamping limit to
// [1, MaxLimit] and offset to >= 0.
func GetPaginationDetails(r *http.Request) (int, int) {
	limit := DefaultLimit
	if val, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && val > 0 {
		limit = val
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := 0
	if val, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && val > 0 {
		offset = val
	}

	return limit, offset
}
