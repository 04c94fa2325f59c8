package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"

func newTestTokenService(t *testing.T, duration time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testKeyHex, duration)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RejectsBadKeys(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err, "short key must be rejected")

	_, err = NewTokenService(strings.Repeat("z", 64), time.Hour)
	assert.Error(t, err, "non-hex key must be rejected")
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.IssueToken("user-123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."), "expected a v4.local token")

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestVerifyToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	token, err := svc.IssueToken("user-123")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err, "expired token must not verify")
}

func TestVerifyToken_WrongKey(t *testing.T) {
	issuer := newTestTokenService(t, time.Hour)

	otherKey := hex.EncodeToString([]byte("another-key-another-key-another-"))
	verifier, err := NewTokenService(otherKey, time.Hour)
	require.NoError(t, err)

	token, err := issuer.IssueToken("user-123")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err, "token from a different key must not verify")
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	_, err := svc.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	// Second call loads the same key rather than rotating it.
	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
