package complaints

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/internal/classifier"
	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/handlers"
	"github.com/campusdesk/campusdesk/pkg/pagination"
	"github.com/campusdesk/campusdesk/pkg/routes"
)

// Handler exposes complaint operations over HTTP.
type Handler struct {
	sys     System
	pageCfg pagination.Config
	logger  *slog.Logger
}

func NewHandler(sys System, pageCfg pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		pageCfg: pageCfg,
		logger:  logger.With("handler", "complaints"),
	}
}

func (h *Handler) Routes() *routes.Group {
	return &routes.Group{
		Prefix: "/complaints",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "", Handler: h.Create},
			{Method: http.MethodGet, Pattern: "", Handler: h.List},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Find},
			{Method: http.MethodGet, Pattern: "/ticket/{code}", Handler: h.FindByTicket},
			{Method: http.MethodPatch, Pattern: "/{id}", Handler: h.Update},
			{Method: http.MethodPost, Pattern: "/{id}/withdraw", Handler: h.Withdraw},
			{Method: http.MethodPost, Pattern: "/{id}/review", Handler: h.Review},
		},
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	var cmd SubmitCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	complaint, err := h.sys.Create(r.Context(), actor, cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, complaint)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	page := pagination.FromQuery(r.URL.Query(), h.pageCfg)

	filters, err := filtersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), actor, page, filters)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	complaint, err := h.sys.Find(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, complaint)
}

func (h *Handler) FindByTicket(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	complaint, err := h.sys.FindByTicket(r.Context(), actor, r.PathValue("code"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, complaint)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	complaint, err := h.sys.UpdateOwn(r.Context(), actor, id, cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, complaint)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	complaint, err := h.sys.Withdraw(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, complaint)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd ReviewCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	complaint, err := h.sys.Review(r.Context(), actor, id, cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, complaint)
}

// respondError handles the domain-specific response shapes: validation
// failures carry their field map, and rate limiting carries a Retry-After
// hint so clients back off.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": validation.Fields,
		})
		return
	}

	if errors.Is(err, classifier.ErrRateLimited) {
		w.Header().Set("Retry-After", "30")
	}

	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}

func filtersFromQuery(values url.Values) (Filters, error) {
	var filters Filters

	if s := values.Get("status"); s != "" {
		status, err := ParseStatus(s)
		if err != nil {
			return Filters{}, err
		}
		filters.Status = &status
	}
	if s := values.Get("category"); s != "" {
		category, err := ParseCategory(s)
		if err != nil {
			return Filters{}, err
		}
		filters.Category = &category
	}
	if s := values.Get("priority"); s != "" {
		priority, err := ParsePriority(s)
		if err != nil {
			return Filters{}, err
		}
		filters.Priority = &priority
	}
	if s := values.Get("student"); s != "" {
		studentID, err := uuid.Parse(s)
		if err != nil {
			return Filters{}, err
		}
		filters.StudentID = &studentID
	}

	return filters, nil
}
