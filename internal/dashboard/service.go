// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/hotel-maintenance/internal/config"
	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
	"github.com/carterperez-dev/hotel-maintenance/internal/repair"
)

// RepairLister is the read side of the repair service.
type RepairLister interface {
	List(
		ctx context.Context,
		actor permission.Actor,
		filter repair.Filter,
	) ([]repair.Repair, int, error)
}

type Service struct {
	repo    Repository
	repairs RepairLister
	cache   Cache
	ttl     config.CacheConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds the dashboard service. cache may be nil, in which case
// every read goes to the database.
func NewService(
	repo Repository,
	repairs RepairLister,
	cache Cache,
	ttl config.CacheConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:    repo,
		repairs: repairs,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.WithGroup("dashboard"),
		now:     time.Now,
	}
}

// Summary returns status counts and the most recent repairs within the
// caller's view scope.
func (s *Service) Summary(
	ctx context.Context,
	actor permission.Actor,
) (*Summary, error) {
	if !actor.Can(permission.CanViewDashboard) {
		return nil, fmt.Errorf("dashboard summary: %w", core.ErrForbidden)
	}

	scope := repair.ScopeFor(actor.Caps, actor.ID)
	if scope.None() {
		return &Summary{Recent: []repair.RepairResponse{}}, nil
	}

	key := summaryKey(scope)

	var out Summary
	if s.readCache(ctx, key, &out) {
		return &out, nil
	}

	counts, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.repairs.List(ctx, actor, repair.Filter{Limit: RecentLimit})
	if err != nil {
		return nil, err
	}

	out = Summary{
		Counts: counts,
		Recent: repair.ToRepairResponseList(recent),
	}
	s.writeCache(ctx, key, out, s.ttl.SummaryTTL)

	return &out, nil
}

// Analytics aggregates repair history for the last days days.
func (s *Service) Analytics(
	ctx context.Context,
	actor permission.Actor,
	days int,
) (*Analytics, error) {
	if !actor.Can(permission.CanViewAnalytics) {
		return nil, fmt.Errorf("dashboard analytics: %w", core.ErrForbidden)
	}

	days = clampDays(days)
	key := fmt.Sprintf("%s%d", analyticsKey, days)

	var out Analytics
	if s.readCache(ctx, key, &out) {
		return &out, nil
	}

	now := s.now().UTC()
	since := startOfDay(now).AddDate(0, 0, -(days - 1))

	out = Analytics{Days: days, GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.ByCategory, err = s.repo.CountByCategory(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ByUrgency, err = s.repo.CountByUrgency(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TechnicianCompletions, err = s.repo.TechnicianCompletions(gctx)
		return err
	})

	var daily []DailyCount
	g.Go(func() (err error) {
		daily, err = s.repo.DailyCreated(gctx, since)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.DailyCreated = fillDays(since, days, daily)
	s.writeCache(ctx, key, out, s.ttl.AnalyticsTTL)

	return &out, nil
}

func (s *Service) readCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}

	return true
}

func (s *Service) writeCache(
	ctx context.Context,
	key string,
	value any,
	ttl time.Duration,
) {
	if s.cache == nil || ttl <= 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func summaryKey(scope repair.Scope) string {
	if scope.All {
		return summaryKeyPrefix + "all"
	}
	return summaryKeyPrefix + "requester:" + scope.RequesterID
}

func clampDays(days int) int {
	if days < 1 {
		return DefaultDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fillDays returns one entry per day starting at since, taking counts from
// rows and zero for days with no repairs.
func fillDays(since time.Time, days int, rows []DailyCount) []DailyCount {
	byDay := make(map[string]int, len(rows))
	for _, row := range rows {
		byDay[row.Day.UTC().Format(time.DateOnly)] += row.Count
	}

	out := make([]DailyCount, 0, days)
	for i := range days {
		day := since.AddDate(0, 0, i)
		out = append(out, DailyCount{
			Day:   day,
			Count: byDay[day.Format(time.DateOnly)],
		})
	}

	return out
}
