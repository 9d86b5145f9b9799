// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/config"
	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestJWT(t, 15*time.Minute)

	token, err := m.CreateAccessToken(AccessTokenClaims{
		UserID:       "user-1",
		Role:         "technician",
		SessionID:    "family-1",
		TokenVersion: 3,
	})
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "technician", claims.Role)
	require.Equal(t, "family-1", claims.SessionID)
	require.Equal(t, 3, claims.TokenVersion)
	require.NotEmpty(t, claims.JTI)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	m := newTestJWT(t, -time.Minute)

	token, err := m.CreateAccessToken(AccessTokenClaims{UserID: "user-1", Role: "staff"})
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	issuer := newTestJWT(t, time.Minute)
	verifier := newTestJWT(t, time.Minute)

	token, err := issuer.CreateAccessToken(AccessTokenClaims{UserID: "user-1", Role: "staff"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = verifier.VerifyAccessToken(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWKSHandler(t *testing.T) {
	t.Parallel()

	m := newTestJWT(t, time.Minute)

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, m.KeyID(), keyIDLength)
	require.Contains(t, rec.Body.String(), m.KeyID())
	require.NotContains(t, rec.Body.String(), `"d"`)
}

func TestRefreshTokenFamily(t *testing.T) {
	t.Parallel()

	m := newTestJWT(t, time.Minute)

	first, err := m.CreateRefreshToken("")
	require.NoError(t, err)
	require.NotEmpty(t, first.FamilyID)
	require.Equal(t, core.HashToken(first.Token), first.Hash)

	next, err := m.CreateRefreshToken(first.FamilyID)
	require.NoError(t, err)
	require.Equal(t, first.FamilyID, next.FamilyID)
	require.NotEqual(t, first.Token, next.Token)
}

func TestKeyIDStableAcrossLoads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	require.NoError(t, GenerateKeyPair(priv, filepath.Join(dir, "public.pem")))

	cfg := config.JWTConfig{PrivateKeyPath: priv, AccessTokenExpire: time.Minute}
	a, err := NewJWTManager(cfg)
	require.NoError(t, err)
	b, err := NewJWTManager(cfg)
	require.NoError(t, err)

	require.Equal(t, a.KeyID(), b.KeyID())
}

func TestNewJWTManagerMissingKey(t *testing.T) {
	t.Parallel()

	_, err := NewJWTManager(config.JWTConfig{PrivateKeyPath: filepath.Join(t.TempDir(), "absent.pem")})
	require.Error(t, err)
}
