package middleware

import "net/http"

// MaxBodySize returns a middleware that caps the request body size.
// Oversized bodies cause the JSON decoder downstream to fail, which
// handlers surface as a 400.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
