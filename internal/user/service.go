// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/hotel-maintenance/internal/auth"
	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

type Notifier interface {
	Dispatch(ctx context.Context, intents []notification.Intent)
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create registers a self-signed-up account. New accounts are front-desk
// staff; other roles are granted through UpdateUserRole or CreateUser.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Language:     DefaultLanguage,
		Role:         string(permission.RoleStaff),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) Permissions(actor permission.Actor) PermissionsResponse {
	return PermissionsResponse{
		Role:        actor.Role,
		Permissions: actor.Caps,
	}
}

// CreateUser adds an account on behalf of an administrator and tells the
// new user about it.
func (s *Service) CreateUser(
	ctx context.Context,
	actor permission.Actor,
	req CreateUserRequest,
) (*User, error) {
	if !actor.Can(permission.CanAddUsers) {
		return nil, fmt.Errorf("create user: %w", core.ErrForbidden)
	}

	role, err := permission.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", core.ErrValidationFailed)
	}

	if role == permission.RoleAdmin && !actor.IsAdmin() {
		return nil, fmt.Errorf("create admin: %w", core.ErrForbidden)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Language:     language,
		Role:         string(role),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(context.WithoutCancel(ctx), []notification.Intent{{
		Type:        notification.TypeUserCreated,
		Title:       "Welcome aboard",
		Description: fmt.Sprintf("An account with role %s was created for you.", role),
		RelatedID:   user.ID,
		Audience:    notification.ToUser(user.ID),
	}})

	return user, nil
}

func (s *Service) GetUser(
	ctx context.Context,
	actor permission.Actor,
	id string,
) (*User, error) {
	if !actor.Can(permission.CanViewAllUsers) && actor.ID != id {
		return nil, fmt.Errorf("get user: %w", core.ErrForbidden)
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateUserRole changes a user's role. Only administrators may grant or
// revoke the admin role, and nobody changes their own role.
func (s *Service) UpdateUserRole(
	ctx context.Context,
	actor permission.Actor,
	id, role string,
) (*User, error) {
	if !actor.Can(permission.CanManageUsers) {
		return nil, fmt.Errorf("update role: %w", core.ErrForbidden)
	}

	newRole, err := permission.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrValidationFailed,
		)
	}

	if actor.ID == id {
		return nil, fmt.Errorf("update own role: %w", core.ErrForbidden)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	touchesAdmin := user.IsAdmin() || newRole == permission.RoleAdmin
	if touchesAdmin && !actor.IsAdmin() {
		return nil, fmt.Errorf("update admin role: %w", core.ErrForbidden)
	}

	if user.Role == string(newRole) {
		return user, nil
	}

	user.Role = string(newRole)

	if err := s.repo.UpdateRole(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	actor permission.Actor,
	params ListUsersParams,
) ([]User, int, error) {
	if !actor.Can(permission.CanViewAllUsers) {
		return nil, 0, fmt.Errorf("list users: %w", core.ErrForbidden)
	}

	if params.Role != "" && !permission.Role(params.Role).Valid() {
		return nil, 0, fmt.Errorf(
			"list users: unknown role %q: %w",
			params.Role,
			core.ErrValidationFailed,
		)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Language != nil {
		user.Language = *req.Language
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteMe(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return s.repo.SoftDelete(ctx, userID)
}

// DeleteUser soft deletes target. Users may delete themselves; anyone
// else needs canManageUsers. Administrators are never deleted.
func (s *Service) DeleteUser(
	ctx context.Context,
	actor permission.Actor,
	targetID string,
) error {
	if actor.ID != targetID && !actor.Can(permission.CanManageUsers) {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return s.repo.SoftDelete(ctx, targetID)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
