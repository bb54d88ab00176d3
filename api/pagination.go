package api

import (
	"net/http"
	"strconv"
)

const maxPageLimit = 100

// PaginationMeta is embedded in paginated list responses.
type PaginationMeta struct {
	TotalCount int  `json:"total_count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
}

// parsePagination reads "limit" and "offset" query parameters from the
// request. Missing or invalid values fall back to the listing's
// default limit and offset 0. Limit is capped at maxPageLimit.
func parsePagination(r *http.Request, defaultLimit int) (limit, offset int) {
	q := r.URL.Query()

	limit = defaultLimit
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset = 0
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}

	return limit, offset
}

// paginateSlice returns (start, end) indices for slicing a collection of
// totalCount items, plus the filled PaginationMeta. If offset exceeds
// totalCount, start == end (empty page).
func paginateSlice(totalCount, limit, offset int) (start, end int, meta PaginationMeta) {
	start = offset
	if start > totalCount {
		start = totalCount
	}
	end = start + limit
	if end > totalCount {
		end = totalCount
	}
	meta = PaginationMeta{
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
		HasMore:    end < totalCount,
	}
	return start, end, meta
}

// listPage applies pagination to items and wraps it in the envelope.
func listPage[T any](r *http.Request, items []T, defaultLimit int) ListResponse[T] {
	limit, offset := parsePagination(r, defaultLimit)
	start, end, meta := paginateSlice(len(items), limit, offset)
	page := items[start:end]
	if page == nil {
		page = []T{}
	}
	return ListResponse[T]{Items: page, Meta: meta}
}
