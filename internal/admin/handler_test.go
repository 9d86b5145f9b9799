// AngelaMos | 2026
// handler_test.go

package admin_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/hotel-maintenance/internal/admin"
	"github.com/carterperez-dev/hotel-maintenance/internal/broker"
	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

type pruner struct {
	got time.Duration
	n   int64
	err error
}

func (p *pruner) PruneExpiredSessions(_ context.Context, retention time.Duration) (int64, error) {
	p.got = retention
	return p.n, p.err
}

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(cfg admin.HandlerConfig) http.Handler {
	r := chi.NewRouter()
	admin.NewHandler(cfg).RegisterRoutes(r, passthrough, passthrough)
	return r
}

func get(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var resp core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	data, _ := resp.Data.(map[string]any)
	return rec, data
}

func TestSystemStats(t *testing.T) {
	t.Parallel()

	h := newRouter(admin.HandlerConfig{
		DBStats:     func() sql.DBStats { return sql.DBStats{OpenConnections: 3} },
		DBPing:      func(context.Context) error { return nil },
		RedisPing:   func(context.Context) error { return errors.New("down") },
		BrokerStats: func() broker.Stats { return broker.Stats{Topic: "hotel.notifications", Messages: 9} },
	})

	rec, data := get(t, h, http.MethodGet, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	db := data["database"].(map[string]any)
	assert.Equal(t, true, db["healthy"])
	assert.EqualValues(t, 3, db["stats"].(map[string]any)["open_connections"])

	rds := data["redis"].(map[string]any)
	assert.Equal(t, false, rds["healthy"])

	brk := data["broker"].(map[string]any)
	assert.EqualValues(t, 9, brk["messages"])
}

func TestBrokerStatsDisabled(t *testing.T) {
	t.Parallel()

	rec, _ := get(t, newRouter(admin.HandlerConfig{}), http.MethodGet, "/admin/stats/broker")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPruneSessions(t *testing.T) {
	t.Parallel()

	t.Run("default retention", func(t *testing.T) {
		t.Parallel()

		p := &pruner{n: 4}
		rec, data := get(t, newRouter(admin.HandlerConfig{Sessions: p}), http.MethodPost, "/admin/sessions/prune")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, admin.DefaultSessionRetention, p.got)
		assert.EqualValues(t, 4, data["deleted"])
	})

	t.Run("configured retention", func(t *testing.T) {
		t.Parallel()

		p := &pruner{}
		h := newRouter(admin.HandlerConfig{Sessions: p, SessionRetention: 48 * time.Hour})
		rec, data := get(t, h, http.MethodPost, "/admin/sessions/prune")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 48*time.Hour, p.got)
		assert.Equal(t, "48h0m0s", data["retention"])
	})

	t.Run("explicit retention", func(t *testing.T) {
		t.Parallel()

		p := &pruner{}
		rec, _ := get(t, newRouter(admin.HandlerConfig{Sessions: p}), http.MethodPost, "/admin/sessions/prune?retention=36h")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 36*time.Hour, p.got)
	})

	t.Run("bad retention", func(t *testing.T) {
		t.Parallel()

		rec, _ := get(t, newRouter(admin.HandlerConfig{Sessions: &pruner{}}), http.MethodPost, "/admin/sessions/prune?retention=soon")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
