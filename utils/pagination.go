package authUtils

import "strconv"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ParsePagination normalizes raw page/limit query values. Out-of-range
// or unparseable values fall back to page 1 / the default limit.
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page, _ = strconv.Atoi(pageStr)
	limit, _ = strconv.Atoi(limitStr)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	return page, limit
}

// TotalPages computes ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
