// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("refresh token reuse")
	ErrEmailExists        = errors.New("email already exists")
	ErrRegistrationClosed = errors.New("registration is closed")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	TokenVersion int
}

// UserProvider is the slice of the user service that auth depends on.
// Create always registers a staff account.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, email, passwordHash, name string) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Client identifies the device a session was opened from.
type Client struct {
	UserAgent string
	IPAddress string
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	users        UserProvider
	revocations  Revocations
	registration bool
	now          func() time.Time
	logger       *slog.Logger
}

type Option func(*Service)

// WithRevocations enables per-token logout of access tokens. Without it
// logout only ends the refresh family.
func WithRevocations(r Revocations) Option {
	return func(s *Service) { s.revocations = r }
}

func WithRegistration(open bool) Option {
	return func(s *Service) { s.registration = open }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, jwt *JWTManager, users UserProvider, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		jwt:          jwt,
		users:        users,
		registration: true,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithGroup("auth")
	return s
}

func (s *Service) Login(ctx context.Context, req LoginRequest, client Client) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, core.ErrNotFound) {
		// Burn the same argon2 work as a real check.
		_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, rehash, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if rehash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, rehash); err != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.openSession(ctx, user, client, nil)
}

func (s *Service) Register(ctx context.Context, req RegisterRequest, client Client) (*AuthResponse, error) {
	if !s.registration {
		return nil, ErrRegistrationClosed
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, hash, req.Name)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.openSession(ctx, user, client, nil)
}

// Refresh trades a refresh token for a new pair. Presenting a token that
// was already traded revokes its whole family.
func (s *Service) Refresh(ctx context.Context, refreshToken string, client Client) (*AuthResponse, error) {
	session, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	switch session.StateAt(s.now()) {
	case SessionUsed:
		n, err := s.repo.RevokeFamily(ctx, session.FamilyID)
		s.logger.WarnContext(ctx, "refresh token reuse",
			"user_id", session.UserID,
			"family_id", session.FamilyID,
			"revoked", n,
			"error", err,
		)
		return nil, ErrTokenReuse
	case SessionRevoked:
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	case SessionExpired:
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return s.openSession(ctx, user, client, session)
}

// Logout ends one refresh family and denies the access token that asked
// for it. With no refresh token the caller's own family is ended.
func (s *Service) Logout(ctx context.Context, claims *middleware.AccessTokenClaims, refreshToken string) error {
	familyID := claims.SessionID

	if refreshToken != "" {
		session, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
			familyID = ""
		case err != nil:
			return fmt.Errorf("logout: %w", err)
		case session.UserID != claims.UserID:
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		default:
			familyID = session.FamilyID
		}
	}

	if familyID != "" {
		if _, err := s.repo.RevokeFamily(ctx, familyID); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}

	return s.revokeAccessToken(ctx, claims)
}

// LogoutAll revokes every session and bumps the token version so access
// tokens already in flight stop verifying too.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if _, err := s.repo.RevokeUser(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}
	return nil
}

func (s *Service) revokeAccessToken(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if s.revocations == nil || claims.JTI == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// VerifyAccessToken checks the signature, then rejects tokens that were
// logged out or issued before the user's last role or password change.
func (s *Service) VerifyAccessToken(ctx context.Context, token string) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.JTI)
		if err != nil {
			return nil, fmt.Errorf("verify token: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	err = s.ValidateTokenVersion(ctx, claims.UserID, claims.TokenVersion)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func (s *Service) ValidateTokenVersion(ctx context.Context, userID string, version int) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("validate token version: %w", err)
	}
	if version < user.TokenVersion {
		return fmt.Errorf("validate token version: %w", core.ErrTokenRevoked)
	}
	return nil
}

// PruneExpiredSessions deletes sessions that expired more than retention
// ago. Recently expired rows are kept so reuse is still detected.
func (s *Service) PruneExpiredSessions(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.repo.DeleteExpiredBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return n, nil
}

// GetActiveSessions lists the user's live sessions, flagging the one whose
// family matches currentFamily.
func (s *Service) GetActiveSessions(ctx context.Context, userID, currentFamily string) ([]SessionInfo, error) {
	sessions, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]SessionInfo, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessions[i].Info(currentFamily))
	}
	return out, nil
}

// RevokeSession ends the family of one of the caller's own sessions.
func (s *Service) RevokeSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if session.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if _, err := s.repo.RevokeFamily(ctx, session.FamilyID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	ok, _, err := core.VerifyPasswordWithRehash(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := core.HashPassword(next)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return s.LogoutAll(ctx, userID)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := toUserResponse(user)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func toUserResponse(user *UserInfo) (UserResponse, error) {
	caps, err := permission.ResolveString(user.Role)
	if err != nil {
		return UserResponse{}, err
	}

	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Permissions: caps,
	}, nil
}

// openSession issues an access/refresh pair. When prev is set the new
// refresh token joins prev's family and prev is marked rotated; losing
// that race to a concurrent refresh counts as reuse.
func (s *Service) openSession(
	ctx context.Context,
	user *UserInfo,
	client Client,
	prev *Session,
) (*AuthResponse, error) {
	userResp, err := toUserResponse(user)
	if err != nil {
		return nil, err
	}

	var familyID string
	if prev != nil {
		familyID = prev.FamilyID
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	if prev != nil {
		err := s.repo.MarkRotated(ctx, prev.ID, session.ID)
		if errors.Is(err, core.ErrNotFound) {
			_, _ = s.repo.RevokeFamily(ctx, prev.FamilyID)
			return nil, ErrTokenReuse
		}
		if err != nil {
			return nil, fmt.Errorf("rotate session: %w", err)
		}
	}

	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Role:         user.Role,
		SessionID:    session.FamilyID,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, err
	}

	ttl := s.jwt.AccessTokenTTL()
	return &AuthResponse{
		User: userResp,
		Tokens: TokenResponse{
			AccessToken:  access,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(ttl / time.Second),
			ExpiresAt:    s.now().Add(ttl),
		},
	}, nil
}
