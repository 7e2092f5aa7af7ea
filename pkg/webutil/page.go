package webutil

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit applies when the request has no limit parameter.
	DefaultLimit = 50
	// MaxLimit caps the page size a client may request.
	MaxLimit = 200
)

// Page is a parsed limit/offset pair.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit and offset query parameters. Out-of-range and
// malformed values fall back to the defaults.
func ParsePage(r *http.Request) Page {
	page := Page{Limit: DefaultLimit}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			page.Limit = l
			if page.Limit > MaxLimit {
				page.Limit = MaxLimit
			}
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			page.Offset = o
		}
	}

	return page
}
