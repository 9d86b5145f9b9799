// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	FindByHash(ctx context.Context, tokenHash string) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	MarkRotated(ctx context.Context, id, replacedByID string) error
	RevokeSession(ctx context.Context, id string) error
	RevokeFamily(ctx context.Context, familyID string) (int64, error)
	RevokeUser(ctx context.Context, userID string) (int64, error)
	ListActive(ctx context.Context, userID string) ([]Session, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
	qb sq.StatementBuilderType
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var sessionColumns = []string{
	"id", "user_id", "token_hash", "family_id", "expires_at", "created_at",
	"is_used", "used_at", "revoked_at", "replaced_by_id", "user_agent", "ip_address",
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	query, args, err := r.qb.
		Insert("refresh_tokens").
		Columns("id", "user_id", "token_hash", "family_id", "expires_at", "user_agent", "ip_address").
		Values(
			session.ID,
			session.UserID,
			session.TokenHash,
			session.FamilyID,
			session.ExpiresAt,
			session.UserAgent,
			session.IPAddress,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("create session: build query: %w", err)
	}

	if err := r.db.GetContext(ctx, &session.CreatedAt, query, args...); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(ctx context.Context, tokenHash string) (*Session, error) {
	return r.findOne(ctx, sq.Eq{"token_hash": tokenHash})
}

func (r *repository) FindByID(ctx context.Context, id string) (*Session, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *repository) findOne(ctx context.Context, where sq.Eq) (*Session, error) {
	query, args, err := r.qb.
		Select(sessionColumns...).
		From("refresh_tokens").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("find session: build query: %w", err)
	}

	var session Session
	err = r.db.GetContext(ctx, &session, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

// MarkRotated flags the session as spent and links it to its successor. A
// session that was already rotated is reported as not found.
func (r *repository) MarkRotated(ctx context.Context, id, replacedByID string) error {
	n, err := r.exec(ctx, r.qb.
		Update("refresh_tokens").
		Set("is_used", true).
		Set("used_at", sq.Expr("NOW()")).
		Set("replaced_by_id", replacedByID).
		Where(sq.Eq{"id": id, "is_used": false}))
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rotate session: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) RevokeSession(ctx context.Context, id string) error {
	n, err := r.revoke(ctx, sq.Eq{"id": id})
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) RevokeFamily(ctx context.Context, familyID string) (int64, error) {
	n, err := r.revoke(ctx, sq.Eq{"family_id": familyID})
	if err != nil {
		return 0, fmt.Errorf("revoke session family: %w", err)
	}
	return n, nil
}

func (r *repository) RevokeUser(ctx context.Context, userID string) (int64, error) {
	n, err := r.revoke(ctx, sq.Eq{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	return n, nil
}

func (r *repository) revoke(ctx context.Context, where sq.Eq) (int64, error) {
	return r.exec(ctx, r.qb.
		Update("refresh_tokens").
		Set("revoked_at", sq.Expr("NOW()")).
		Where(where).
		Where(sq.Eq{"revoked_at": nil}))
}

func (r *repository) ListActive(ctx context.Context, userID string) ([]Session, error) {
	query, args, err := r.qb.
		Select(sessionColumns...).
		From("refresh_tokens").
		Where(sq.Eq{"user_id": userID, "revoked_at": nil, "is_used": false}).
		Where("expires_at > NOW()").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list sessions: build query: %w", err)
	}

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

func (r *repository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := r.exec(ctx, r.qb.
		Delete("refresh_tokens").
		Where(sq.Lt{"expires_at": cutoff}))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}

func (r *repository) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
