package middleware

import (
	"fmt"
	"net/http"

	"github.com/cloo-solutions/tryonadmin/internal/api"
)

// MaxBodyBytes caps request bodies at limit bytes. A declared
// Content-Length over the cap is refused before the handler runs; bodies
// of unknown length fail while the handler decodes them. GET, HEAD and
// OPTIONS requests pass untouched.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		tooLarge := fmt.Sprintf("request body exceeds %d bytes", limit)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge, tooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
