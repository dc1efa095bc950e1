// internal/handlers/http/login_handler.go
package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"wellprod/internal/middleware"
	"wellprod/internal/util"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // epoch seconds
	User      string `json:"user"`
	Role      string `json:"role"`
}

// checkCredentials: username dibandingkan constant-time, password lewat bcrypt.
func checkCredentials(cfg AdminConfig, c credentials) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(cfg.User)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(cfg.PassHash), []byte(c.Password)) == nil
	return userOK && passOK
}

// LoginHandler menukar kredensial admin dengan JWT untuk /admin.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	depsMu.RLock()
	cfg := adminCfg
	depsMu.RUnlock()
	if cfg.User == "" || cfg.PassHash == "" || cfg.JWTSecret == "" {
		util.WriteError(w, util.Forbidden("admin login disabled"))
		return
	}

	var in credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&in); err != nil {
		util.WriteError(w, util.BadInput("body must be {\"username\",\"password\"}"))
		return
	}
	if !checkCredentials(cfg, in) {
		log.Warn().Str("user", in.Username).Str("remote", r.RemoteAddr).Msg("admin login rejected")
		util.WriteError(w, util.Unauthorized("invalid credentials"))
		return
	}

	token, exp, err := middleware.GenerateAdminToken(cfg.JWTSecret, cfg.User, time.Now())
	if err != nil {
		util.WriteError(w, util.Internal("sign token: "+err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResp{Token: token, ExpiresAt: exp, User: cfg.User, Role: "admin"})
}
