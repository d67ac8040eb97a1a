package middleware

import (
	"net/http"
)

// BodyLimit returns middleware that caps the request body at maxBytes.
// Submissions carry base64-inlined photos and documents, so the cap exists to
// stop runaway uploads, not to be tight.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
