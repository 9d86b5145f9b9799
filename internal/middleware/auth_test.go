// AngelaMos | 2026
// auth_test.go

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

type verifierFunc func(ctx context.Context, token string) (*middleware.AccessTokenClaims, error)

func (f verifierFunc) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	return f(ctx, token)
}

func staticVerifier(role string, err error) verifierFunc {
	return func(_ context.Context, token string) (*middleware.AccessTokenClaims, error) {
		if err != nil {
			return nil, err
		}
		return &middleware.AccessTokenClaims{UserID: "user-" + token, Role: role}, nil
	}
}

func okHandler(t *testing.T, seen *permission.Actor) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		require.True(t, ok)
		if seen != nil {
			*seen = actor
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func request(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/repairs", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    string
		verifier verifierFunc
		want     int
	}{
		{"missing token", "", staticVerifier("staff", nil), http.StatusUnauthorized},
		{"expired", "abc", staticVerifier("", core.ErrTokenExpired), http.StatusUnauthorized},
		{"revoked", "abc", staticVerifier("", core.ErrTokenRevoked), http.StatusUnauthorized},
		{"unknown role", "abc", staticVerifier("owner", nil), http.StatusUnauthorized},
		{"valid", "abc", staticVerifier("technician", nil), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen permission.Actor
			h := middleware.Authenticator(tt.verifier)(okHandler(t, &seen))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request(tt.token))

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "user-abc", seen.ID)
				assert.True(t, seen.Can(permission.CanAcceptJobs))
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role permission.Role
		caps []permission.Capability
		want int
	}{
		{"granted", permission.RoleManager, []permission.Capability{permission.CanViewAnalytics}, http.StatusNoContent},
		{"denied", permission.RoleStaff, []permission.Capability{permission.CanViewAnalytics}, http.StatusForbidden},
		{"any of", permission.RoleTechnician, []permission.Capability{permission.CanAddUsers, permission.CanAcceptJobs}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actor, err := permission.NewActor("u1", string(tt.role))
			require.NoError(t, err)

			h := middleware.RequireCapability(tt.caps...)(okHandler(t, nil))
			r := request("")
			r = r.WithContext(middleware.WithActor(r.Context(), actor))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		middleware.RequireCapability(permission.CanViewDashboard)(okHandler(t, nil)).
			ServeHTTP(rec, request(""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	for role, want := range map[permission.Role]int{
		permission.RoleAdmin:   http.StatusNoContent,
		permission.RoleManager: http.StatusForbidden,
	} {
		actor, err := permission.NewActor("u1", string(role))
		require.NoError(t, err)

		r := request("")
		r = r.WithContext(middleware.WithActor(r.Context(), actor))

		rec := httptest.NewRecorder()
		middleware.RequireAdmin(okHandler(t, nil)).ServeHTTP(rec, r)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"abc":          "",
		"":             "",
	}

	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, middleware.ExtractToken(r), header)
	}
}
