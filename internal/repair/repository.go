// AngelaMos | 2026
// repository.go

package repair

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Repository,Notifier

type Repository interface {
	Create(ctx context.Context, repair *Repair) error
	GetByID(ctx context.Context, id int64) (*Repair, error)
	List(ctx context.Context, scope Scope, filter Filter) ([]Repair, int, error)
	ApplyTransition(ctx context.Context, repair *Repair, from Status) error
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

const selectColumns = `
	r.id, r.room, r.category, r.urgency, r.description, r.status,
	r.requester_id, r.assignee_id, r.images, r.created_at, r.updated_at,
	req.name AS requester_name, asg.name AS assignee_name`

func (r *repository) base() sq.SelectBuilder {
	return r.qb.
		Select(selectColumns).
		From("repairs r").
		Join("users req ON req.id = r.requester_id").
		LeftJoin("users asg ON asg.id = r.assignee_id")
}

func (r *repository) Create(ctx context.Context, repair *Repair) error {
	query := `
		INSERT INTO repairs (
			room, category, urgency, description, status,
			requester_id, assignee_id, images
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		repair.Room,
		repair.Category,
		repair.Urgency,
		repair.Description,
		repair.Status,
		repair.RequesterID,
		repair.AssigneeID,
		repair.Images,
	).Scan(&repair.ID, &repair.CreatedAt, &repair.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create repair: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Repair, error) {
	query, args, err := r.base().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("get repair: build query: %w", err)
	}

	var repair Repair
	err = r.db.GetContext(ctx, &repair, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get repair %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get repair %d: %w", id, err)
	}

	return &repair, nil
}

func (r *repository) List(
	ctx context.Context,
	scope Scope,
	filter Filter,
) ([]Repair, int, error) {
	filter.Normalize()

	if scope.None() {
		return []Repair{}, 0, nil
	}

	where := filterConditions(scope, filter)

	countQuery, countArgs, err := r.qb.
		Select("COUNT(*)").
		From("repairs r").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("count repairs: build query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count repairs: %w", err)
	}

	//nolint:gosec // G115: limit and offset are normalized non-negative ints
	query, args, err := r.base().
		Where(where).
		OrderBy("r.created_at DESC", "r.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("list repairs: build query: %w", err)
	}

	repairs := []Repair{}
	if err := r.db.SelectContext(ctx, &repairs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list repairs: %w", err)
	}

	return repairs, total, nil
}

func filterConditions(scope Scope, filter Filter) sq.And {
	where := sq.And{}

	if !scope.All {
		where = append(where, sq.Eq{"r.requester_id": scope.RequesterID})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"r.status": filter.Status})
	}
	if filter.Category != "" {
		where = append(where, sq.Eq{"r.category": filter.Category})
	}
	if filter.Urgency != "" {
		where = append(where, sq.Eq{"r.urgency": filter.Urgency})
	}
	if filter.Search != "" {
		pattern := "%" + core.EscapeLike(filter.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"r.room": pattern},
			sq.ILike{"r.description": pattern},
		})
	}

	return where
}

// ApplyTransition writes the new status and assignee only if the stored row
// still has status from. A lost race surfaces as ErrIllegalTransition.
func (r *repository) ApplyTransition(
	ctx context.Context,
	repair *Repair,
	from Status,
) error {
	query := `
		UPDATE repairs
		SET status = $3, assignee_id = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &repair.UpdatedAt, query,
		repair.ID,
		from,
		repair.Status,
		repair.AssigneeID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r.explainMissedUpdate(ctx, repair.ID, from)
	}
	if err != nil {
		return fmt.Errorf("update repair %d: %w", repair.ID, err)
	}

	return nil
}

func (r *repository) explainMissedUpdate(
	ctx context.Context,
	id int64,
	from Status,
) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM repairs WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return fmt.Errorf("update repair %d: %w", id, err)
	}

	if !exists {
		return fmt.Errorf("update repair %d: %w", id, core.ErrNotFound)
	}

	return fmt.Errorf(
		"update repair %d: no longer %s: %w",
		id,
		from,
		core.ErrIllegalTransition,
	)
}
