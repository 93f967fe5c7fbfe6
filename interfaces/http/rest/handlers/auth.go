package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"tomosu-backend/application/cache"
	"tomosu-backend/pkg/auth"
	"tomosu-backend/pkg/common"
)

// AuthHandler serves the fixed-user session endpoints. Credentials are
// accepted but never checked: every login is the demo community member.
type AuthHandler struct {
	engine   *cache.Engine
	sessions *auth.SessionManager
	logger   *zap.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(engine *cache.Engine, sessions *auth.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		engine:   engine,
		sessions: sessions,
		logger:   logger,
	}
}

// loginRequest is accepted for API-shape compatibility; its contents are
// ignored.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      int       `json:"user_id"`
}

// Login handles POST /auth/login. Any payload (or none) opens a session for
// the fixed user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	_ = common.ParseJSONBody(r, &req, 1<<16)

	token, session, err := h.sessions.Login()
	if err != nil {
		h.logger.Error("failed to open session", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "failed to open session")
		return
	}

	common.RespondJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   session.ExpiresAt,
		UserID:      session.UserID,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.Logout(token)
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /auth/me: the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	profile, found := h.engine.GetUserProfile(session.UserID)
	if !found {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "user not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

type sessionStatusResponse struct {
	Authenticated bool      `json:"authenticated"`
	UserID        int       `json:"user_id,omitempty"`
	SessionID     string    `json:"session_id,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
}

// SessionStatus handles GET /auth/session-status. Works for anonymous
// callers too; they get authenticated=false.
func (h *AuthHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		common.RespondJSON(w, http.StatusOK, sessionStatusResponse{Authenticated: false})
		return
	}
	common.RespondJSON(w, http.StatusOK, sessionStatusResponse{
		Authenticated: true,
		UserID:        session.UserID,
		SessionID:     session.SessionID,
		ExpiresAt:     session.ExpiresAt,
	})
}

// Stats handles GET /auth/stats: counts over the session table.
func (h *AuthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.sessions.Stats())
}

// DefaultCredentials handles GET /auth/default-credentials: the demo login
// shown by the client's login form.
func (h *AuthHandler) DefaultCredentials(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"email":    "demo@tomosu.local",
		"password": "demo",
		"note":     "any credentials are accepted",
	})
}

// bearerToken pulls a bearer token from the Authorization header, for the
// endpoints that act on the token itself rather than the resolved session.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
