// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

// buckets takes from a Redis GCRA bucket and falls back to an in-process
// token bucket while Redis is unreachable.
type buckets struct {
	redis    *core.Redis
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	degraded atomic.Bool
}

func newBuckets(r *core.Redis) *buckets {
	return &buckets{
		redis:    r,
		limiter:  redis_rate.NewLimiter(r.Client),
		fallback: newLocalLimiter(),
	}
}

func (b *buckets) take(
	ctx context.Context,
	subject string,
	limit redis_rate.Limit,
) *redis_rate.Result {
	key := b.redis.Key("ratelimit", subject)

	res, err := b.limiter.Allow(ctx, key, limit)
	if err == nil {
		if b.degraded.Swap(false) {
			slog.Info("rate limiter recovered redis backend")
		}
		return res
	}

	if !b.degraded.Swap(true) {
		slog.Warn("rate limiter using local buckets", "error", err)
	}
	return b.fallback.allow(key, limit)
}

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
}

type RateLimiter struct {
	buckets *buckets
	config  RateLimitConfig
}

func NewRateLimiter(r *core.Redis, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		buckets: newBuckets(r),
		config:  cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.buckets.take(r.Context(), rl.config.KeyFunc(r), rl.config.Limit)
		if !admit(w, res, rl.config.Limit) {
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SkipProbes exempts the health endpoints polled by orchestrators.
func SkipProbes(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return false
}

// RoleLimit is the per-minute budget for one role on a limited route group.
type RoleLimit struct {
	RequestsPerMinute int
	BurstSize         int
}

// DefaultRoleLimits gives front-desk staff a tighter write budget than the
// roles that triage and work the queue.
var DefaultRoleLimits = map[permission.Role]RoleLimit{
	permission.RoleAdmin:      {RequestsPerMinute: 600, BurstSize: 100},
	permission.RoleManager:    {RequestsPerMinute: 600, BurstSize: 100},
	permission.RoleTechnician: {RequestsPerMinute: 300, BurstSize: 60},
	permission.RoleStaff:      {RequestsPerMinute: 60, BurstSize: 10},
}

// RoleRateLimiter limits authenticated callers per user and endpoint using
// the budget of their role. It must run after Authenticator.
func RoleRateLimiter(
	r *core.Redis,
	limits map[permission.Role]RoleLimit,
) func(http.Handler) http.Handler {
	b := newBuckets(r)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			role := permission.RoleStaff
			if actor, ok := GetActor(req.Context()); ok {
				role = actor.Role
			}

			budget, ok := limits[role]
			if !ok {
				budget = limits[permission.RoleStaff]
			}

			limit := PerMinute(budget.RequestsPerMinute, budget.BurstSize)
			res := b.take(req.Context(), KeyByUserAndEndpoint(req), limit)

			w.Header().Set("X-RateLimit-Role", string(role))
			if !admit(w, res, limit) {
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

func KeyByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID
	}
	return KeyByIP(r)
}

func KeyByUserAndEndpoint(r *http.Request) string {
	return KeyByUser(r) + ":" + r.Method + ":" + normalizeEndpoint(r.URL.Path)
}

// ClientIP trusts the last X-Forwarded-For hop, which is the one our own
// proxy appended.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// normalizeEndpoint folds repair ids and user uuids so one caller shares a
// bucket across every ticket they touch.
func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if isNumeric(part) || isUUID(part) {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func isUUID(s string) bool {
	return len(s) == 36 && s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// admit writes the rate limit headers and, when the bucket is empty, the
// 429 envelope. It reports whether the request may proceed.
func admit(w http.ResponseWriter, res *redis_rate.Result, limit redis_rate.Limit) bool {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))

	if res.Allowed > 0 {
		return true
	}

	retryAfter := max(int(res.RetryAfter.Seconds()), 1)
	h.Set("Retry-After", strconv.Itoa(retryAfter))

	core.JSONError(w, core.NewAppError(
		core.ErrRateLimited,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
	return false
}

const (
	localSweepEvery = 1024
	localEntryTTL   = 10 * time.Minute
)

type localEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64
}

// localLimiter keeps one token bucket per key and sweeps idle keys on every
// localSweepEvery-th call.
type localLimiter struct {
	entries sync.Map
	calls   atomic.Uint64
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	now := time.Now()
	perSec := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSec)

	if l.calls.Add(1)%localSweepEvery == 0 {
		l.sweep(now.Add(-localEntryTTL).UnixNano())
	}

	v, ok := l.entries.Load(key)
	if !ok {
		v, _ = l.entries.LoadOrStore(key, &localEntry{
			limiter: rate.NewLimiter(rate.Limit(perSec), limit.Burst),
		})
	}
	entry := v.(*localEntry) //nolint:forcetypeassert // only localEntry is stored
	entry.lastAccess.Store(now.UnixNano())

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(int(entry.limiter.TokensAt(now)), 0),
		RetryAfter: -1,
		ResetAfter: interval,
	}

	if entry.limiter.AllowN(now, 1) {
		res.Allowed = 1
		res.Remaining = max(res.Remaining-1, 0)
		return res
	}

	res.RetryAfter = interval
	return res
}

func (l *localLimiter) sweep(cutoff int64) {
	l.entries.Range(func(key, value any) bool {
		if e, ok := value.(*localEntry); ok && e.lastAccess.Load() < cutoff {
			l.entries.Delete(key)
		}
		return true
	})
}
