// AngelaMos | 2026
// handler_test.go

package notification_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification/mocks"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

func newRouter(t *testing.T, userID string) (http.Handler, *mocks.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	h := notification.NewHandler(notification.NewService(repo, mocks.NewMockDirectory(ctrl)))

	actor, err := permission.NewActor(userID, string(permission.RoleStaff))
	require.NoError(t, err)

	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithActor(r.Context(), actor)))
		})
	}

	r := chi.NewRouter()
	h.RegisterRoutes(r, auth)
	return r, repo
}

func do(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, core.Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body core.Response
	if rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandler_ListUnreadOnly(t *testing.T) {
	t.Parallel()

	router, repo := newRouter(t, "staff-1")

	repo.EXPECT().
		List(gomock.Any(), "staff-1", notification.ListParams{UnreadOnly: true, Limit: 5, Offset: 10}).
		Return([]notification.Notification{{ID: 3, UserID: "staff-1", Title: "Repair accepted", CreatedAt: time.Now()}}, 11, nil)

	rec, body := do(t, router, http.MethodGet, "/notifications/?unread_only=true&limit=5&offset=10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, body.Success)
	require.Equal(t, 11, body.Meta.Total)
	require.Len(t, body.Data, 1)
}

func TestHandler_UnreadCount(t *testing.T) {
	t.Parallel()

	router, repo := newRouter(t, "staff-1")
	repo.EXPECT().CountUnread(gomock.Any(), "staff-1").Return(4, nil)

	rec, body := do(t, router, http.MethodGet, "/notifications/unread-count")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"count": float64(4)}, body.Data)
}

func TestHandler_MarkRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		repoErr  error
		expectDB bool
		wantCode int
	}{
		{name: "ok", path: "/notifications/7/read", expectDB: true, wantCode: http.StatusNoContent},
		{
			name:     "someone else's notification",
			path:     "/notifications/7/read",
			repoErr:  fmt.Errorf("mark notification read: %w", core.ErrNotFound),
			expectDB: true,
			wantCode: http.StatusNotFound,
		},
		{name: "bad id", path: "/notifications/abc/read", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, repo := newRouter(t, "staff-1")
			if tt.expectDB {
				repo.EXPECT().MarkRead(gomock.Any(), "staff-1", int64(7)).Return(tt.repoErr)
			}

			rec, _ := do(t, router, http.MethodPatch, tt.path)
			require.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_MarkAllRead(t *testing.T) {
	t.Parallel()

	router, repo := newRouter(t, "staff-1")
	repo.EXPECT().MarkAllRead(gomock.Any(), "staff-1").Return(int64(6), nil)

	rec, body := do(t, router, http.MethodPatch, "/notifications/read-all")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"updated": float64(6)}, body.Data)
}
