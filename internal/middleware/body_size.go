package middleware

import (
	"fmt"
	"net/http"
)

// MaxBodySize returns middleware that limits request body size.
// maxBytes is the maximum allowed body size in bytes.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// HandleMaxBytesError checks if the error is from MaxBytesReader and writes
// a 413 response if so.
func HandleMaxBytesError(w http.ResponseWriter, err error, maxBytes int64) bool {
	if err == nil {
		return false
	}

	if err.Error() == "http: request body too large" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		fmt.Fprintf(w, `{"error":"Request body too large","max_size_bytes":%d}`, maxBytes)
		return true
	}

	return false
}
