// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Repository,Notifier

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ListIDsByRoles(ctx context.Context, roles []permission.Role) ([]string, error)
	ContactsByIDs(ctx context.Context, ids []string) ([]notification.Contact, error)
}

type repository struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var userColumns = []string{
	"id", "email", "password_hash", "name", "phone", "language", "role",
	"token_version", "created_at", "updated_at", "deleted_at",
}

// live restricts a query to users that have not been soft deleted.
var live = sq.Eq{"deleted_at": nil}

func (r *repository) Create(ctx context.Context, user *User) error {
	query, args, err := r.qb.
		Insert("users").
		Columns("id", "email", "password_hash", "name", "phone", "language", "role").
		Values(user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Language, user.Role).
		Suffix("RETURNING created_at, updated_at, token_version").
		ToSql()
	if err != nil {
		return fmt.Errorf("create user: build query: %w", err)
	}

	err = r.db.GetContext(ctx, user, query, args...)
	if isDuplicateKeyError(err) {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "get user", sq.Eq{"id": id})
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "get user by email", sq.Eq{"email": email})
}

func (r *repository) findOne(ctx context.Context, op string, where sq.Eq) (*User, error) {
	query, args, err := r.qb.
		Select(userColumns...).
		From("users").
		Where(where).
		Where(live).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var user User
	err = r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query, args, err := r.qb.
		Update("users").
		Set("name", user.Name).
		Set("phone", user.Phone).
		Set("language", user.Language).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": user.ID}).
		Where(live).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("update user: build query: %w", err)
	}

	err = r.db.GetContext(ctx, &user.UpdatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdateRole stores the new role and bumps token_version in the same
// statement, so access tokens carrying the old role stop verifying.
func (r *repository) UpdateRole(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET role = $2, token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING token_version, updated_at`

	err := r.db.QueryRowxContext(ctx, query, user.ID, user.Role).
		Scan(&user.TokenVersion, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, "update password", id, map[string]any{
		"password_hash": passwordHash,
	})
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id string) error {
	return r.updateOne(ctx, "increment token version", id, map[string]any{
		"token_version": sq.Expr("token_version + 1"),
	})
}

func (r *repository) updateOne(ctx context.Context, op, id string, set map[string]any) error {
	query, args, err := r.qb.
		Update("users").
		SetMap(set).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Where(live).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}
	return execOne(ctx, r.db, op, query, args...)
}

// SoftDelete marks the user deleted and revokes every refresh token in one
// transaction.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE users
			SET deleted_at = NOW(), updated_at = NOW(),
			    token_version = token_version + 1
			WHERE id = $1 AND deleted_at IS NULL`

		if err := execOne(ctx, tx, "delete user", query, id); err != nil {
			return err
		}

		revoke := `
			UPDATE refresh_tokens
			SET revoked_at = NOW()
			WHERE user_id = $1 AND revoked_at IS NULL`

		if _, err := tx.ExecContext(ctx, revoke, id); err != nil {
			return fmt.Errorf("delete user: revoke sessions: %w", err)
		}

		return nil
	})
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	where := sq.And{live}

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"email": pattern},
			sq.ILike{"name": pattern},
		})
	}

	if params.Role != "" {
		where = append(where, sq.Eq{"role": params.Role})
	}

	countQuery, countArgs, err := r.qb.
		Select("COUNT(*)").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("count users: build query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	//nolint:gosec // G115: page size and offset are normalized non-negative ints
	query, args, err := r.qb.
		Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(params.PageSize)).
		Offset(uint64(params.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("list users: build query: %w", err)
	}

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

// ListIDsByRoles returns the ids of active users holding any of roles.
func (r *repository) ListIDsByRoles(
	ctx context.Context,
	roles []permission.Role,
) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	query, args, err := r.qb.
		Select("id").
		From("users").
		Where(sq.Eq{"role": names}).
		Where(live).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list users by role: build query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}

	return ids, nil
}

func (r *repository) ContactsByIDs(
	ctx context.Context,
	ids []string,
) ([]notification.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := r.qb.
		Select("id", "name", "email").
		From("users").
		Where(sq.Eq{"id": ids}).
		Where(live).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("load contacts: build query: %w", err)
	}

	var contacts []notification.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	return contacts, nil
}

func execOne(
	ctx context.Context,
	db sqlx.ExecerContext,
	op, query string,
	args ...any,
) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
