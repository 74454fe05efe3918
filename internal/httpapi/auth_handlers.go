package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"sagliktur.org/internal/audit"
	"sagliktur.org/internal/auth"
	"sagliktur.org/internal/obs"
	"sagliktur.org/internal/session"
)

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      auth.Principal `json:"user"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var creds auth.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if remaining, ok := a.limiter.Allow(creds.Identifier); !ok {
		obs.CountLogin("blocked")
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(remaining.Seconds())+1))
		writeError(w, r, http.StatusTooManyRequests, "too many failed attempts, try again later")
		return
	}

	principal, err := a.sessions.Login(r.Context(), creds)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrLoginInFlight):
			writeError(w, r, http.StatusConflict, "login already in progress")
		case errors.Is(err, auth.ErrInvalidCredentials):
			obs.CountLogin("failure")
			if a.limiter.Failure(creds.Identifier) {
				writeError(w, r, http.StatusTooManyRequests, "too many failed attempts, try again later")
				return
			}
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		default:
			writeError(w, r, http.StatusInternalServerError, "authentication error")
		}
		return
	}

	a.limiter.Success(creds.Identifier)
	obs.CountLogin("success")

	expiresAt, _ := a.sessions.Expiry()
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	token, err := auth.GenerateToken(principal, ttl)
	if err != nil {
		// The session is live; without a token the caller cannot use it.
		a.sessions.Logout()
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": principal.ID,
		"role":    string(principal.Role),
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      principal,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())
	a.sessions.Logout()
	_ = audit.LogEvent(r.Context(), "auth.logout", map[string]any{
		"user_id": principal.ID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "logged_out"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	expiresAt, _ := a.sessions.Expiry()
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       principal,
		"expires_at": expiresAt,
	})
}
