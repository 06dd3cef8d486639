package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that caps request bodies at
// limit bytes. Reads past the limit fail, which surfaces as a decode error
// in the handler rather than unbounded memory use here.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
