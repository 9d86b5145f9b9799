// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Repository,Directory,Publisher,EmailSender

type Repository interface {
	CreateMany(ctx context.Context, notifications []Notification) error
	List(ctx context.Context, userID string, params ListParams) ([]Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, id int64) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
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

// CreateMany inserts every row in one statement and fills in the generated
// id and created_at.
func (r *repository) CreateMany(
	ctx context.Context,
	notifications []Notification,
) error {
	if len(notifications) == 0 {
		return nil
	}

	ins := r.qb.
		Insert("notifications").
		Columns("user_id", "title", "description", "type", "related_id")
	for _, n := range notifications {
		ins = ins.Values(n.UserID, n.Title, n.Description, n.Type, n.RelatedID)
	}

	query, args, err := ins.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return fmt.Errorf("create notifications: build query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	for i := 0; rows.Next() && i < len(notifications); i++ {
		if err := rows.Scan(&notifications[i].ID, &notifications[i].CreatedAt); err != nil {
			return fmt.Errorf("create notifications: scan: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Notification, int, error) {
	params.Normalize()

	where := sq.And{sq.Eq{"user_id": userID}}
	if params.UnreadOnly {
		where = append(where, sq.Eq{"is_read": false})
	}

	countQuery, countArgs, err := r.qb.
		Select("COUNT(*)").
		From("notifications").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("count notifications: build query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	//nolint:gosec // G115: limit and offset are normalized non-negative ints
	query, args, err := r.qb.
		Select(
			"id", "user_id", "title", "description", "type",
			"is_read", "related_id", "created_at",
		).
		From("notifications").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: build query: %w", err)
	}

	notifications := []Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, total, nil
}

func (r *repository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead only touches rows owned by userID, so another user's id reads
// as not found.
func (r *repository) MarkRead(ctx context.Context, userID string, id int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark notification read: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return rows, nil
}
