package middleware

import (
	"net/http"
	"sync"
)

// Serialize runs one request at a time. Commands read the session and the
// document and then write them back, so two of them must never interleave.
func Serialize() func(http.Handler) http.Handler {
	var mu sync.Mutex
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
