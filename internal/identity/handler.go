package identity

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/pkg/handlers"
	"github.com/campusdesk/campusdesk/pkg/routes"
)

// Handler exposes identity operations over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "identity"),
	}
}

func (h *Handler) Routes() *routes.Group {
	return &routes.Group{
		Prefix: "/profiles",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/me", Handler: h.Me},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Get},
			{Method: http.MethodPatch, Pattern: "/{id}", Handler: h.Update},
			{Method: http.MethodPost, Pattern: "/{id}/roles", Handler: h.GrantRole},
			{Method: http.MethodDelete, Pattern: "/{id}/roles/{role}", Handler: h.RevokeRole},
		},
	}
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	profile, err := h.sys.Profile(r.Context(), actor, actor.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	profile, err := h.sys.Profile(r.Context(), actor, userID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd UpdateProfileCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	profile, err := h.sys.UpdateProfile(r.Context(), actor, userID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}

func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	role, err := ParseRole(body.Role)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.sys.Grant(r.Context(), actor, userID, role); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	role, err := ParseRole(r.PathValue("role"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.sys.Revoke(r.Context(), actor, userID, role); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
