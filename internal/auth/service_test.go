// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
)

type fixture struct {
	svc      *Service
	sessions *memSessions
	users    *memUsers
	revoked  *memRevocations
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		sessions: newMemSessions(),
		users:    newMemUsers(),
		revoked:  newMemRevocations(),
	}
	opts = append([]Option{WithRevocations(f.revoked)}, opts...)
	f.svc = NewService(f.sessions, newTestJWT(t, 15*time.Minute), f.users, opts...)
	return f
}

// claimsFor verifies an issued access token the way the authenticator does.
func (f *fixture) claimsFor(t *testing.T, resp *AuthResponse) *middleware.AccessTokenClaims {
	t.Helper()
	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	require.NoError(t, err)
	return claims
}

func TestLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.users.add(t, "tech@hotel.test", "wrench-and-ladder", "technician")
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{
		Email:    "tech@hotel.test",
		Password: "wrench-and-ladder",
	}, Client{UserAgent: "curl/8", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, "technician", resp.User.Role)
	require.True(t, resp.User.Permissions.CanAcceptJobs)
	require.False(t, resp.User.Permissions.CanCreateRepairs)
	require.Equal(t, "Bearer", resp.Tokens.TokenType)
	require.Equal(t, 900, resp.Tokens.ExpiresIn)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "tech@hotel.test", Password: "wrong-password"}, Client{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "nobody@hotel.test", Password: "wrench-and-ladder"}, Client{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	weak, err := core.NewPasswordHasher(core.Argon2Params{Memory: 512, Time: 1, Threads: 1, KeyLen: 32}).
		Hash("front-desk-123")
	require.NoError(t, err)

	u := f.users.add(t, "desk@hotel.test", "placeholder-pw", "staff")
	require.NoError(t, f.users.UpdatePassword(context.Background(), u.ID, weak))

	_, err = f.svc.Login(context.Background(), LoginRequest{Email: u.Email, Password: "front-desk-123"}, Client{})
	require.NoError(t, err)

	stored, err := f.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotEqual(t, weak, stored.PasswordHash)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates staff", func(t *testing.T) {
		f := newFixture(t)
		req := RegisterRequest{Email: "Desk@Hotel.test", Password: "front-desk-123", Name: "Desk"}

		resp, err := f.svc.Register(context.Background(), req, Client{})
		require.NoError(t, err)
		require.Equal(t, "staff", resp.User.Role)
		require.True(t, resp.User.Permissions.CanCreateRepairs)
		require.False(t, resp.User.Permissions.CanViewAllRepairs)

		_, err = f.svc.Register(context.Background(), req, Client{})
		require.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("closed", func(t *testing.T) {
		f := newFixture(t, WithRegistration(false))

		_, err := f.svc.Register(context.Background(), RegisterRequest{
			Email:    "walk-in@hotel.test",
			Password: "front-desk-123",
			Name:     "Walk In",
		}, Client{})
		require.ErrorIs(t, err, ErrRegistrationClosed)
	})
}

func TestRefreshRotationAndReuse(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.users.add(t, "mgr@hotel.test", "manager-pass-1", "manager")
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginRequest{Email: "mgr@hotel.test", Password: "manager-pass-1"}, Client{})
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(ctx, login.Tokens.RefreshToken, Client{})
	require.NoError(t, err)
	require.NotEqual(t, login.Tokens.RefreshToken, rotated.Tokens.RefreshToken)
	require.Equal(t, f.claimsFor(t, login).SessionID, f.claimsFor(t, rotated).SessionID)

	_, err = f.svc.Refresh(ctx, login.Tokens.RefreshToken, Client{})
	require.ErrorIs(t, err, ErrTokenReuse)

	_, err = f.svc.Refresh(ctx, rotated.Tokens.RefreshToken, Client{})
	require.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, "unknown", Client{})
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefreshExpired(t *testing.T) {
	t.Parallel()

	later := time.Now().Add(2 * time.Hour)
	f := newFixture(t, WithClock(func() time.Time { return later }))
	f.users.add(t, "night@hotel.test", "night-shift-1", "technician")
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginRequest{Email: "night@hotel.test", Password: "night-shift-1"}, Client{})
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, login.Tokens.RefreshToken, Client{})
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	u := f.users.add(t, "staff@hotel.test", "room-service-1", "staff")
	other := f.users.add(t, "other@hotel.test", "room-service-2", "staff")
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginRequest{Email: u.Email, Password: "room-service-1"}, Client{})
	require.NoError(t, err)
	claims := f.claimsFor(t, login)

	t.Run("foreign refresh token", func(t *testing.T) {
		otherLogin, err := f.svc.Login(ctx, LoginRequest{Email: other.Email, Password: "room-service-2"}, Client{})
		require.NoError(t, err)
		require.ErrorIs(t, f.svc.Logout(ctx, claims, otherLogin.Tokens.RefreshToken), core.ErrForbidden)
	})

	t.Run("without refresh token ends own session", func(t *testing.T) {
		require.NoError(t, f.svc.Logout(ctx, claims, ""))

		_, err := f.svc.VerifyAccessToken(ctx, login.Tokens.AccessToken)
		require.ErrorIs(t, err, core.ErrTokenRevoked)

		_, err = f.svc.Refresh(ctx, login.Tokens.RefreshToken, Client{})
		require.ErrorIs(t, err, core.ErrTokenRevoked)
	})
}

func TestSessions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	u := f.users.add(t, "staff@hotel.test", "room-service-1", "staff")
	other := f.users.add(t, "other@hotel.test", "room-service-2", "staff")
	ctx := context.Background()

	phone, err := f.svc.Login(ctx, LoginRequest{Email: u.Email, Password: "room-service-1"}, Client{IPAddress: "10.0.0.2"})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, LoginRequest{Email: u.Email, Password: "room-service-1"}, Client{IPAddress: "10.0.0.3"})
	require.NoError(t, err)

	current := f.claimsFor(t, phone).SessionID
	sessions, err := f.svc.GetActiveSessions(ctx, u.ID, current)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	var desk SessionInfo
	for _, s := range sessions {
		if s.IPAddress == "10.0.0.2" {
			require.True(t, s.Current)
		} else {
			require.False(t, s.Current)
			desk = s
		}
	}

	require.ErrorIs(t, f.svc.RevokeSession(ctx, other.ID, desk.ID), core.ErrForbidden)
	require.ErrorIs(t, f.svc.RevokeSession(ctx, u.ID, "missing"), core.ErrNotFound)
	require.NoError(t, f.svc.RevokeSession(ctx, u.ID, desk.ID))

	sessions, err = f.svc.GetActiveSessions(ctx, u.ID, current)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.True(t, sessions[0].Current)
}

func TestLogoutAllBumpsTokenVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	u := f.users.add(t, "admin@hotel.test", "admin-pass-123", "admin")
	ctx := context.Background()

	login, err := f.svc.Login(ctx, LoginRequest{Email: u.Email, Password: "admin-pass-123"}, Client{})
	require.NoError(t, err)

	require.NoError(t, f.svc.ValidateTokenVersion(ctx, u.ID, 0))
	require.NoError(t, f.svc.LogoutAll(ctx, u.ID))
	require.ErrorIs(t, f.svc.ValidateTokenVersion(ctx, u.ID, 0), core.ErrTokenRevoked)
	require.NoError(t, f.svc.ValidateTokenVersion(ctx, u.ID, 1))

	_, err = f.svc.VerifyAccessToken(ctx, login.Tokens.AccessToken)
	require.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	u := f.users.add(t, "tech2@hotel.test", "old-password-1", "technician")
	ctx := context.Background()

	require.ErrorIs(t, f.svc.ChangePassword(ctx, u.ID, "bad", "new-password-1"), ErrInvalidCredentials)
	require.NoError(t, f.svc.ChangePassword(ctx, u.ID, "old-password-1", "new-password-1"))

	_, err := f.svc.Login(ctx, LoginRequest{Email: u.Email, Password: "new-password-1"}, Client{})
	require.NoError(t, err)
}

func TestPruneExpiredSessions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sessions.Create(ctx, &Session{ID: "old", TokenHash: "h1", ExpiresAt: time.Now().Add(-72 * time.Hour)}))
	require.NoError(t, f.sessions.Create(ctx, &Session{ID: "recent", TokenHash: "h2", ExpiresAt: time.Now().Add(-time.Hour)}))

	n, err := f.svc.PruneExpiredSessions(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = f.sessions.FindByID(ctx, "recent")
	require.NoError(t, err)
}

func TestSessionStateAt(t *testing.T) {
	t.Parallel()

	now := time.Now()
	revokedAt := now.Add(-time.Minute)

	cases := []struct {
		name    string
		session Session
		want    SessionState
	}{
		{"active", Session{ExpiresAt: now.Add(time.Hour)}, SessionActive},
		{"expired", Session{ExpiresAt: now}, SessionExpired},
		{"used", Session{ExpiresAt: now.Add(-time.Hour), IsUsed: true}, SessionUsed},
		{"revoked wins", Session{ExpiresAt: now.Add(time.Hour), IsUsed: true, RevokedAt: &revokedAt}, SessionRevoked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.session.StateAt(now))
		})
	}
}
