// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

const (
	UserIDKey contextKey = "user_id"
	ActorKey  contextKey = "actor"
	ClaimsKey contextKey = "jwt_claims"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// AccessTokenClaims is what a verified access token asserts. SessionID is
// the refresh token family the access token was issued from.
type AccessTokenClaims struct {
	UserID       string
	Role         string
	SessionID    string
	TokenVersion int
	JTI          string
	ExpiresAt    time.Time
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			actor, err := permission.NewActor(claims.UserID, claims.Role)
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims, actor)))
		})
	}
}

func withIdentity(
	ctx context.Context,
	claims *AccessTokenClaims,
	actor permission.Actor,
) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, ActorKey, actor)
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return ctx
}

// WithActor stores a resolved actor on ctx. Used by tests and by callers
// that authenticate outside of Authenticator.
func WithActor(ctx context.Context, actor permission.Actor) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, actor.ID)
	return context.WithValue(ctx, ActorKey, actor)
}

func RequireRole(roles ...permission.Role) func(http.Handler) http.Handler {
	roleSet := make(map[permission.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[actor.Role]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(permission.RoleAdmin)(next)
}

// RequireCapability rejects callers whose role grants none of caps.
func RequireCapability(caps ...permission.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			for _, c := range caps {
				if actor.Can(c) {
					next.ServeHTTP(w, r)
					return
				}
			}

			core.JSONError(w, core.ForbiddenError("insufficient permissions"))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// handleAuthError keeps every verification failure a 401 so a broken
// blacklist lookup never reads as a permission problem.
func handleAuthError(w http.ResponseWriter, err error) {
	appErr := core.StatusFor(err)
	if appErr.StatusCode != http.StatusUnauthorized {
		appErr = core.TokenInvalidError()
	}
	core.JSONError(w, appErr)
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetActor(ctx context.Context) (permission.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(permission.Actor)
	return actor, ok
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}
