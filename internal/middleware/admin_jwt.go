// internal/middleware/admin_jwt.go
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminTokenTTL = 24 * time.Hour

// AdminJWTAuth hanya meloloskan Bearer token HS256 yang ditandatangani secret.
func AdminJWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin jwt not configured", http.StatusForbidden)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			if _, err := ParseAdminToken(secret, strings.TrimPrefix(auth, "Bearer ")); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GenerateAdminToken membuat JWT 24 jam untuk user admin.
func GenerateAdminToken(secret, user string, now time.Time) (string, int64, error) {
	if secret == "" {
		return "", 0, errors.New("admin jwt secret not set")
	}
	exp := now.Add(adminTokenTTL).Unix()
	claims := jwt.MapClaims{
		"user": user,
		"exp":  exp,
		"iat":  now.Unix(),
		"role": "admin",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	return signed, exp, err
}

// ParseAdminToken validates the signature, expiry and admin role.
func ParseAdminToken(secret, tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return nil, errors.New("not an admin token")
	}
	return claims, nil
}
