// AngelaMos | 2026
// handler.go

package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticator)

		r.With(middleware.RequireCapability(permission.CanViewDashboard)).
			Get("/summary", h.Summary)
		r.With(middleware.RequireCapability(permission.CanViewAnalytics)).
			Get("/analytics", h.Analytics)
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	summary, err := h.service.Summary(r.Context(), actor)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, summary)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	days := DefaultDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			core.BadRequest(w, "days must be an integer")
			return
		}
		days = parsed
	}

	analytics, err := h.service.Analytics(r.Context(), actor, days)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, analytics)
}
