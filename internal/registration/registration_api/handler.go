package registration_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"campus-portal/internal/logger"
	"campus-portal/internal/models"
	"campus-portal/internal/registration"
	"campus-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Simulator interface {
	Register(ctx context.Context, surface models.Surface, eventID string) (models.ControlState, error)
	Cancel(ctx context.Context, surface models.Surface, eventID string) (models.ControlState, bool)
	State(surface models.Surface, eventID string) models.ControlState
	Pass(ctx context.Context, id string) ([]byte, error)
}

type Handler struct {
	Simulator Simulator
	Logger    *logger.Logger
}

func NewHandler(sim Simulator, logger *logger.Logger) *Handler {
	return &Handler{Simulator: sim, Logger: logger}
}

// RegisterRoutes mounts the register button endpoints relative to /api/events.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/{eventID}/register", func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Post("/", h.Register)
		r.Delete("/", h.Cancel)
	})
}

// RegisterPassRoutes mounts the pass endpoint relative to /api/registrations.
func (h *Handler) RegisterPassRoutes(r chi.Router) {
	r.Get("/{registrationID}/pass.png", h.GetPass)
}

func surfaceFrom(r *http.Request) (models.Surface, error) {
	return registration.ParseSurface(r.URL.Query().Get("surface"))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	surface, err := surfaceFrom(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid surface", err.Error()))
		return
	}

	state, err := h.Simulator.Register(r.Context(), surface, chi.URLParam(r, "eventID"))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Registration rejected", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, utils.SuccessResponse("Registration "+string(state.State), state))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	surface, err := surfaceFrom(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid surface", err.Error()))
		return
	}

	state, cancelled := h.Simulator.Cancel(r.Context(), surface, chi.URLParam(r, "eventID"))
	message := "Nothing pending"
	if cancelled {
		message = "Registration cancelled"
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse(message, state))
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	surface, err := surfaceFrom(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid surface", err.Error()))
		return
	}
	state := h.Simulator.State(surface, chi.URLParam(r, "eventID"))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Registration "+string(state.State), state))
}

func (h *Handler) GetPass(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "registrationID")
	png, err := h.Simulator.Pass(r.Context(), id)
	switch {
	case errors.Is(err, registration.ErrRegistrationNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Registration not found", id))
		return
	case errors.Is(err, registration.ErrRegistrationNotCompleted):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("Registration still pending", id))
		return
	case err != nil:
		h.Logger.Error("REGISTRATION", fmt.Sprintf("Failed to render pass for %s: %v", id, err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to render pass", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
