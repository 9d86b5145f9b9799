// AngelaMos | 2026
// service.go

package repair

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

const tracerName = "github.com/carterperez-dev/hotel-maintenance/internal/repair"

// Notifier delivers notification intents. Delivery is best effort and never
// fails the operation that produced the intents.
type Notifier interface {
	Dispatch(ctx context.Context, intents []notification.Intent)
}

type Service struct {
	repo     Repository
	notifier Notifier
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	actor permission.Actor,
	in CreateInput,
) (*Repair, error) {
	ctx, span := s.startSpan(ctx, "repair.create", actor)
	defer span.End()

	r, intents, err := Create(actor, in, s.now())
	if err != nil {
		return nil, core.SpanError(span, err)
	}

	if err := s.repo.Create(ctx, &r); err != nil {
		return nil, core.SpanError(span, err)
	}

	span.SetAttributes(attribute.Int64("repair.id", r.ID))

	BindRelated(intents, r.ID)
	s.dispatch(ctx, intents)

	return &r, nil
}

// Get returns a repair the actor may see. Repairs outside the actor's scope
// are reported as not found.
func (s *Service) Get(
	ctx context.Context,
	actor permission.Actor,
	id int64,
) (*Repair, error) {
	scope := ScopeFor(actor.Caps, actor.ID)
	if scope.None() {
		return nil, fmt.Errorf("get repair %d: %w", id, core.ErrNotFound)
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !scope.Includes(r) {
		return nil, fmt.Errorf("get repair %d: %w", id, core.ErrNotFound)
	}

	return r, nil
}

func (s *Service) List(
	ctx context.Context,
	actor permission.Actor,
	filter Filter,
) ([]Repair, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, fmt.Errorf("list repairs: %w", err)
	}

	return s.repo.List(ctx, ScopeFor(actor.Caps, actor.ID), filter)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	actor permission.Actor,
	id int64,
	to Status,
) (*Repair, error) {
	return s.transition(ctx, "repair.update_status", actor, id,
		func(r Repair, now time.Time) (Result, error) {
			return UpdateStatus(actor, r, to, now)
		},
	)
}

func (s *Service) Accept(
	ctx context.Context,
	actor permission.Actor,
	id int64,
) (*Repair, error) {
	return s.transition(ctx, "repair.accept", actor, id,
		func(r Repair, now time.Time) (Result, error) {
			return Accept(actor, r, now)
		},
	)
}

func (s *Service) Cancel(
	ctx context.Context,
	actor permission.Actor,
	id int64,
) (*Repair, error) {
	return s.transition(ctx, "repair.cancel", actor, id,
		func(r Repair, now time.Time) (Result, error) {
			return Cancel(actor, r, now)
		},
	)
}

func (s *Service) transition(
	ctx context.Context,
	op string,
	actor permission.Actor,
	id int64,
	apply func(Repair, time.Time) (Result, error),
) (*Repair, error) {
	ctx, span := s.startSpan(ctx, op, actor)
	defer span.End()
	span.SetAttributes(attribute.Int64("repair.id", id))

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, core.SpanError(span, err)
	}

	res, err := apply(*current, s.now())
	if err != nil {
		return nil, core.SpanError(span, err)
	}

	span.SetAttributes(
		attribute.String("repair.from", string(res.From)),
		attribute.String("repair.to", string(res.Repair.Status)),
		attribute.Bool("repair.changed", res.Changed),
	)

	if !res.Changed {
		return &res.Repair, nil
	}

	if err := s.repo.ApplyTransition(ctx, &res.Repair, res.From); err != nil {
		return nil, core.SpanError(span, err)
	}

	s.dispatch(ctx, res.Intents)

	return &res.Repair, nil
}

func (s *Service) dispatch(ctx context.Context, intents []notification.Intent) {
	if s.notifier == nil || len(intents) == 0 {
		return
	}
	s.notifier.Dispatch(context.WithoutCancel(ctx), intents)
}

func (s *Service) startSpan(
	ctx context.Context,
	name string,
	actor permission.Actor,
) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("actor.id", actor.ID),
		attribute.String("actor.role", string(actor.Role)),
	))
}
