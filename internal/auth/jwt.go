// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/hotel-maintenance/internal/config"
	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
)

const (
	claimRole      = "role"
	claimSession   = "sid"
	claimVersion   = "ver"
	claimTokenType = "typ"

	accessTokenType = "access"
)

// JWTManager signs access tokens with the service key and mints opaque
// refresh tokens. Only the public half is ever served.
type JWTManager struct {
	signing jwk.Key
	verify  jwk.Key
	jwks    jwk.Set
	cfg     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	private, public, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	set := jwk.NewSet()
	if err := set.AddKey(public); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &JWTManager{
		signing: private,
		verify:  public,
		jwks:    set,
		cfg:     cfg,
	}, nil
}

// AccessTokenClaims is what gets signed into a new access token.
type AccessTokenClaims struct {
	UserID       string
	Role         string
	SessionID    string
	TokenVersion int
}

func (m *JWTManager) CreateAccessToken(claims AccessTokenClaims) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.cfg.Issuer).
		Audience([]string{m.cfg.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(m.cfg.AccessTokenExpire)).
		Claim(claimRole, claims.Role).
		Claim(claimSession, claims.SessionID).
		Claim(claimVersion, claims.TokenVersion).
		Claim(claimTokenType, accessTokenType).
		Build()
	if err != nil {
		return "", fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signing))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return string(signed), nil
}

// VerifyAccessToken checks signature, issuer, audience and lifetime. It
// does not consult revocation state; Service.VerifyAccessToken does.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.ES256(), m.verify),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
	)
	if expired(err) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	}
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	claims, err := readClaims(token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %s: %w", err, core.ErrTokenInvalid)
	}
	return claims, nil
}

func expired(err error) bool {
	if err == nil {
		return false
	}
	// Older validators wrap the exp failure without the sentinel.
	return errors.Is(err, jwt.TokenExpiredError()) ||
		strings.Contains(err.Error(), `"exp" not satisfied`)
}

func readClaims(token jwt.Token) (*middleware.AccessTokenClaims, error) {
	var typ string
	if err := token.Get(claimTokenType, &typ); err != nil || typ != accessTokenType {
		return nil, errors.New("not an access token")
	}

	c := &middleware.AccessTokenClaims{}
	var ok bool
	if c.UserID, ok = token.Subject(); !ok || c.UserID == "" {
		return nil, errors.New("missing sub")
	}
	if c.JTI, ok = token.JwtID(); !ok || c.JTI == "" {
		return nil, errors.New("missing jti")
	}
	c.ExpiresAt, _ = token.Expiration()

	if err := token.Get(claimRole, &c.Role); err != nil {
		return nil, errors.New("missing role")
	}
	// sid is empty for tokens minted outside a refresh family.
	_ = token.Get(claimSession, &c.SessionID)

	// JSON numbers decode as float64.
	var ver float64
	if err := token.Get(claimVersion, &ver); err != nil {
		return nil, errors.New("missing ver")
	}
	c.TokenVersion = int(ver)

	return c, nil
}

// JWKSHandler serves the public verification key set.
func (m *JWTManager) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body, err := json.Marshal(m.jwks)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/jwk-set+json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.cfg.AccessTokenExpire
}

func (m *JWTManager) KeyID() string {
	var kid string
	_ = m.verify.Get(jwk.KeyIDKey, &kid)
	return kid
}

// IssuedRefreshToken is a freshly minted refresh token. Token is handed to
// the client once; only Hash is stored.
type IssuedRefreshToken struct {
	Token     string
	Hash      string
	FamilyID  string
	ExpiresAt time.Time
}

// CreateRefreshToken mints the next token of familyID, or opens a new
// family when familyID is empty.
func (m *JWTManager) CreateRefreshToken(familyID string) (*IssuedRefreshToken, error) {
	token, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	return &IssuedRefreshToken{
		Token:     token,
		Hash:      core.HashToken(token),
		FamilyID:  familyID,
		ExpiresAt: time.Now().Add(m.cfg.RefreshTokenExpire),
	}, nil
}
