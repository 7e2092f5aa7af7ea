// Package webutil carries the small HTTP runtime shared by generated
// applications and the preview server: JSON responses, pagination, and
// token-based authentication.
package webutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// TotalCountHeader exposes the collection size on list responses.
const TotalCountHeader = "X-Total-Count"

// RespondJSON writes data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are gone; nothing useful left to send.
		return
	}
}

// Error writes a JSON error body with the given status.
func Error(w http.ResponseWriter, statusCode int, format string, args ...interface{}) {
	RespondJSON(w, statusCode, map[string]string{
		"error": fmt.Sprintf(format, args...),
	})
}

// SetTotalCount sets the collection size header for paginated lists.
func SetTotalCount(w http.ResponseWriter, count int64) {
	w.Header().Set(TotalCountHeader, strconv.FormatInt(count, 10))
}
