// middleware/auth.go
// Middleware untuk cek API key

package middleware

import (
	"crypto/subtle"
	"net/http"

	"wellprod/internal/util"
)

// Auth cek header X-API-Key. apiKey kosong = auth dimatikan (dev).
func Auth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get("X-API-Key")), []byte(apiKey)) != 1 {
				util.WriteError(w, util.Unauthorized("invalid or missing X-API-Key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
