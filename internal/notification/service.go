// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

const tracerName = "github.com/carterperez-dev/hotel-maintenance/internal/notification"

// Directory resolves recipients. It is implemented by the user repository.
type Directory interface {
	ListIDsByRoles(ctx context.Context, roles []permission.Role) ([]string, error)
	ContactsByIDs(ctx context.Context, ids []string) ([]Contact, error)
}

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type EmailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type Service struct {
	repo      Repository
	dir       Directory
	publisher Publisher
	mailer    EmailSender
	logger    *slog.Logger
	tracer    trace.Tracer
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMailer(m EmailSender) Option {
	return func(s *Service) { s.mailer = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo Repository, dir Directory, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		dir:    dir,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithGroup("notifications")
	return s
}

// Dispatch stores one row per recipient of every intent, then publishes
// and mails them. Failures are logged and never returned.
func (s *Service) Dispatch(ctx context.Context, intents []Intent) {
	if len(intents) == 0 {
		return
	}

	ctx, span := s.tracer.Start(ctx, "notification.dispatch",
		trace.WithAttributes(attribute.Int("notification.intents", len(intents))),
	)
	defer span.End()

	var rows []Notification
	for _, in := range intents {
		recipients, err := s.resolve(ctx, in.Audience)
		if err != nil {
			span.RecordError(err)
			s.logger.Error("resolve audience",
				"type", in.Type,
				"related_id", in.RelatedID,
				"error", err,
			)
			continue
		}

		for _, userID := range recipients {
			rows = append(rows, in.notificationFor(userID))
		}
	}

	span.SetAttributes(attribute.Int("notification.rows", len(rows)))

	if len(rows) == 0 {
		return
	}

	if err := s.repo.CreateMany(ctx, rows); err != nil {
		span.RecordError(err)
		s.logger.Error("store notifications", "count", len(rows), "error", err)
		return
	}

	s.publish(ctx, rows)
	s.email(ctx, rows)
}

func (s *Service) resolve(ctx context.Context, a Audience) ([]string, error) {
	if a.UserID != "" {
		if a.excludes(a.UserID) {
			return nil, nil
		}
		return []string{a.UserID}, nil
	}

	if !a.IsBroadcast() {
		return nil, nil
	}

	roles := permission.RolesWith(a.Capability)
	if len(roles) == 0 {
		return nil, nil
	}

	ids, err := s.dir.ListIDsByRoles(ctx, roles)
	if err != nil {
		return nil, fmt.Errorf("list users with %s: %w", a.Capability, err)
	}

	seen := make(map[string]struct{}, len(ids))
	recipients := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || a.excludes(id) {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}

	return recipients, nil
}

func (s *Service) publish(ctx context.Context, rows []Notification) {
	if s.publisher == nil {
		return
	}

	for _, n := range rows {
		if err := s.publisher.Publish(ctx, n.UserID, newEvent(n)); err != nil {
			s.logger.Warn("publish notification",
				"notification_id", n.ID,
				"error", err,
			)
		}
	}
}

func (s *Service) email(ctx context.Context, rows []Notification) {
	if s.mailer == nil {
		return
	}

	var ids []string
	for _, n := range rows {
		if n.Type.emailed() {
			ids = append(ids, n.UserID)
		}
	}
	if len(ids) == 0 {
		return
	}

	contacts, err := s.dir.ContactsByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("load mail contacts", "error", err)
		return
	}

	byID := make(map[string]Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}

	for _, n := range rows {
		if !n.Type.emailed() {
			continue
		}

		c, ok := byID[n.UserID]
		if !ok || c.Email == "" {
			continue
		}

		body := fmt.Sprintf("Hello %s,\n\n%s\n", c.Name, n.Description)
		if err := s.mailer.Send(ctx, []string{c.Email}, n.Title, body); err != nil {
			s.logger.Warn("send notification email",
				"notification_id", n.ID,
				"error", err,
			)
		}
	}
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	params ListParams,
) ([]Notification, int, error) {
	return s.repo.List(ctx, userID, params)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID string, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
