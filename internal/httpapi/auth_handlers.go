package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"darew.com/internal/audit"
	"darew.com/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      identityView `json:"user"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}
	if !a.identities.SignIn(r.Context(), req.Email, req.Password) {
		_ = audit.LogEvent(r.Context(), "auth.sign_in_failed", zap.String("email", req.Email))
		writeError(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}
	current, ok := a.identities.Current()
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "sign-in did not complete")
		return
	}
	token, expires, err := a.sessions.Issue(current)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}
	_ = audit.LogEvent(auth.ContextWithIdentity(r.Context(), current), "auth.sign_in")
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expires.UTC(),
		User:      viewOf(current),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	a.identities.SignOut(r.Context())
	_ = audit.LogEvent(r.Context(), "auth.sign_out")
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	current, _ := auth.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": viewOf(current)})
}
