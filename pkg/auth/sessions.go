// Package auth implements the fixed-user session scheme used by the MVP.
// Every login authenticates as the same community member; what varies per
// login is the session: a signed token tracked in an in-memory table so it
// can be revoked and counted.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidToken covers malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrSessionExpired is returned for tokens past their expiry or whose
	// session has been revoked.
	ErrSessionExpired = errors.New("session expired")
)

// FixedUserID is the community member every session authenticates as.
const FixedUserID = 1

// Session is one live login.
type Session struct {
	SessionID string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// sessionClaims is the JWT payload for a session token.
type sessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int    `json:"uid"`
	jwt.RegisteredClaims
}

// SessionManager issues, validates and revokes session tokens. Sessions live
// only in process memory; a restart logs everyone out, which is acceptable
// for a cache-backed MVP.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]Session

	secret   []byte
	issuer   string
	lifetime time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionManager creates a session manager signing tokens with secret.
func NewSessionManager(secret, issuer string, lifetime time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]Session),
		secret:   []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
		logger:   logger,
		now:      time.Now,
	}
}

// Login opens a session for the fixed user and returns the signed token.
func (m *SessionManager) Login() (string, Session, error) {
	now := m.now()
	session := Session{
		SessionID: uuid.New().String(),
		UserID:    FixedUserID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
	}

	claims := sessionClaims{
		SessionID: session.SessionID,
		UserID:    session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   session.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Session{}, err
	}

	m.mu.Lock()
	m.sessions[session.SessionID] = session
	m.mu.Unlock()

	m.logger.Info("session opened",
		zap.String("sessionID", session.SessionID),
		zap.Int("userID", session.UserID),
	)
	return token, session, nil
}

// Validate checks a token's signature and expiry and confirms the session is
// still tracked. It returns the session on success.
func (m *SessionManager) Validate(token string) (Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrSessionExpired
		}
		return Session{}, ErrInvalidToken
	}
	if !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	m.mu.RLock()
	session, ok := m.sessions[claims.SessionID]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionExpired
	}
	if m.now().After(session.ExpiresAt) {
		m.drop(session.SessionID)
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

// Logout revokes the session behind a token. Revoking an unknown or expired
// token is not an error.
func (m *SessionManager) Logout(token string) {
	session, err := m.Validate(token)
	if err != nil {
		return
	}
	m.drop(session.SessionID)
	m.logger.Info("session closed", zap.String("sessionID", session.SessionID))
}

func (m *SessionManager) drop(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// SessionStats summarizes the session table for the system endpoints.
type SessionStats struct {
	ActiveSessions int `json:"active_sessions"`
	ExpiredPending int `json:"expired_pending_cleanup"`
}

// Stats counts live and expired-but-untracked sessions.
func (m *SessionManager) Stats() SessionStats {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := SessionStats{}
	for _, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			stats.ExpiredPending++
		} else {
			stats.ActiveSessions++
		}
	}
	return stats
}

// Sweep removes expired sessions from the table. Called periodically by the
// container.
func (m *SessionManager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

type contextKey struct{}

// SetSessionInContext stores the validated session on a request context.
func SetSessionInContext(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// SessionFromContext returns the session stored by the auth middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(contextKey{}).(Session)
	return session, ok
}

// ViewerID returns the authenticated user's ID, or zero for anonymous
// requests.
func ViewerID(ctx context.Context) int {
	if session, ok := SessionFromContext(ctx); ok {
		return session.UserID
	}
	return 0
}
