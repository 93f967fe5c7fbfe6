package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager() *SessionManager {
	return NewSessionManager("test-secret", "tomosu-backend", 24*time.Hour, zap.NewNop())
}

func TestSessionManager_LoginAndValidate(t *testing.T) {
	m := newTestManager()

	token, session, err := m.Login()

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, FixedUserID, session.UserID)
	assert.Equal(t, 24*time.Hour, session.ExpiresAt.Sub(session.CreatedAt))

	validated, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, validated.SessionID)
}

func TestSessionManager_RejectsBadTokens(t *testing.T) {
	m := newTestManager()

	_, err := m.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret.
	other := NewSessionManager("other-secret", "tomosu-backend", time.Hour, zap.NewNop())
	token, _, err := other.Login()
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_LogoutRevokes(t *testing.T) {
	m := newTestManager()
	token, _, err := m.Login()
	require.NoError(t, err)

	m.Logout(token)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// Logging out again is harmless.
	m.Logout(token)
}

func TestSessionManager_ExpiryAndSweep(t *testing.T) {
	m := newTestManager()
	current := time.Now()
	m.now = func() time.Time { return current }

	token, _, err := m.Login()
	require.NoError(t, err)

	current = current.Add(25 * time.Hour)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, _, err = m.Login()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Stats().ActiveSessions)
	assert.Equal(t, 0, m.Sweep(), "validate already dropped the expired session")
}

func TestSessionManager_Stats(t *testing.T) {
	m := newTestManager()
	_, _, err := m.Login()
	require.NoError(t, err)
	_, _, err = m.Login()
	require.NoError(t, err)

	stats := m.Stats()
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.Equal(t, 0, stats.ExpiredPending)
}

func TestViewerID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 0, ViewerID(ctx))

	ctx = SetSessionInContext(ctx, Session{SessionID: "s", UserID: FixedUserID})
	assert.Equal(t, FixedUserID, ViewerID(ctx))
}
