// AngelaMos | 2026
// handler.go

package repair

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/middleware"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/repairs", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.With(middleware.RequireCapability(permission.CanCreateRepairs)).
			Post("/", h.Create)
		r.Get("/{repairID}", h.Get)
		r.Patch("/{repairID}/status", h.UpdateStatus)
		r.Post("/{repairID}/accept", h.Accept)
		r.Post("/{repairID}/cancel", h.Cancel)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var req CreateRepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	repair, err := h.service.Create(r.Context(), actor, req.ToInput())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToRepairResponse(repair))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	q := r.URL.Query()
	filter := Filter{
		Status:   Status(q.Get("status")),
		Category: Category(q.Get("category")),
		Urgency:  Urgency(q.Get("urgency")),
		Search:   q.Get("search"),
		Limit:    core.QueryInt(r, "limit", DefaultLimit),
		Offset:   core.QueryInt(r, "offset", 0),
	}
	filter.Normalize()

	repairs, total, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OffsetPaginated(
		w,
		ToRepairResponseList(repairs),
		filter.Limit,
		filter.Offset,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := repairID(w, r)
	if !ok {
		return
	}
	actor, _ := middleware.GetActor(r.Context())

	repair, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRepairResponse(repair))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := repairID(w, r)
	if !ok {
		return
	}
	actor, _ := middleware.GetActor(r.Context())

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	repair, err := h.service.UpdateStatus(r.Context(), actor, id, Status(req.Status))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRepairResponse(repair))
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := repairID(w, r)
	if !ok {
		return
	}
	actor, _ := middleware.GetActor(r.Context())

	repair, err := h.service.Accept(r.Context(), actor, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRepairResponse(repair))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := repairID(w, r)
	if !ok {
		return
	}
	actor, _ := middleware.GetActor(r.Context())

	repair, err := h.service.Cancel(r.Context(), actor, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRepairResponse(repair))
}

func repairID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "repairID"), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid repair id")
		return 0, false
	}
	return id, true
}
