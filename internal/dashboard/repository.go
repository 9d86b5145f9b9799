// AngelaMos | 2026
// repository.go

package dashboard

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/repair"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Repository,RepairLister,Cache

type Repository interface {
	CountByStatus(ctx context.Context, scope repair.Scope) (StatusCounts, error)
	CountByCategory(ctx context.Context) ([]Bucket, error)
	CountByUrgency(ctx context.Context) ([]Bucket, error)
	TechnicianCompletions(ctx context.Context) ([]TechnicianCount, error)
	DailyCreated(ctx context.Context, since time.Time) ([]DailyCount, error)
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

func (r *repository) CountByStatus(
	ctx context.Context,
	scope repair.Scope,
) (StatusCounts, error) {
	var counts StatusCounts
	if scope.None() {
		return counts, nil
	}

	b := r.qb.
		Select("r.status AS key", "COUNT(*) AS count").
		From("repairs r").
		GroupBy("r.status")
	if !scope.All {
		b = b.Where(sq.Eq{"r.requester_id": scope.RequesterID})
	}

	rows, err := r.buckets(ctx, "count by status", b)
	if err != nil {
		return counts, err
	}

	for _, row := range rows {
		counts.add(repair.Status(row.Key), row.Count)
	}

	return counts, nil
}

func (r *repository) CountByCategory(ctx context.Context) ([]Bucket, error) {
	return r.buckets(ctx, "count by category", r.qb.
		Select("r.category AS key", "COUNT(*) AS count").
		From("repairs r").
		GroupBy("r.category").
		OrderBy("count DESC", "key"))
}

func (r *repository) CountByUrgency(ctx context.Context) ([]Bucket, error) {
	return r.buckets(ctx, "count by urgency", r.qb.
		Select("r.urgency AS key", "COUNT(*) AS count").
		From("repairs r").
		GroupBy("r.urgency").
		OrderBy("count DESC", "key"))
}

func (r *repository) TechnicianCompletions(
	ctx context.Context,
) ([]TechnicianCount, error) {
	query, args, err := r.qb.
		Select(
			"r.assignee_id AS technician_id",
			"u.name AS technician_name",
			"COUNT(*) AS completed",
		).
		From("repairs r").
		Join("users u ON u.id = r.assignee_id").
		Where(sq.Eq{"r.status": repair.StatusCompleted}).
		GroupBy("r.assignee_id", "u.name").
		OrderBy("completed DESC", "technician_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("technician completions: build query: %w", err)
	}

	out := []TechnicianCount{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("technician completions: %w", err)
	}

	return out, nil
}

func (r *repository) DailyCreated(
	ctx context.Context,
	since time.Time,
) ([]DailyCount, error) {
	query, args, err := r.qb.
		Select(
			"date_trunc('day', r.created_at AT TIME ZONE 'UTC') AS day",
			"COUNT(*) AS count",
		).
		From("repairs r").
		Where(sq.GtOrEq{"r.created_at": since}).
		GroupBy("day").
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("daily created: build query: %w", err)
	}

	out := []DailyCount{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("daily created: %w", err)
	}

	return out, nil
}

func (r *repository) buckets(
	ctx context.Context,
	op string,
	b sq.SelectBuilder,
) ([]Bucket, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	out := []Bucket{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
