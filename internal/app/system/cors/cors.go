// Package cors applies the permissive CORS policy every response from this
// service carries. The published artifacts are loaded cross-origin by map
// pages on arbitrary sites, so the allowlist is a wildcard.
package cors

import "net/http"

// Middleware sets the CORS headers on every response and short-circuits
// any OPTIONS request with 204, matching the contract consumers rely on
// (the map widget preflights POSTs with an Authorization header).
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		h.Set("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
