package event_api

import (
	"errors"
	"net/http"

	"campus-portal/internal/events/filter"
	events "campus-portal/internal/events/service"
	"campus-portal/internal/logger"
	"campus-portal/internal/models"
	"campus-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type EventService interface {
	Filter(criteria models.FilterCriteria) []models.Visibility
	Facets() models.Facets
	GetEvent(id string) (models.EventRecord, error)
}

type Handler struct {
	Service EventService
	Logger  *logger.Logger
}

func NewHandler(service EventService, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

// RegisterRoutes mounts the catalog endpoints relative to /api/events.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.FilterEvents)
	r.Get("/facets", h.GetFacets)
	r.Get("/{eventID}", h.GetEvent)
}

// FilterEvents evaluates ?search=&campus=&category=&date= and returns one visibility per card.
func (h *Handler) FilterEvents(w http.ResponseWriter, r *http.Request) {
	criteria := filter.ParseCriteria(r.URL.Query())
	result := h.Service.Filter(criteria)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Filter applied", result))
}

func (h *Handler) GetFacets(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Filter options", h.Service.Facets()))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.Service.GetEvent(eventID)
	if errors.Is(err, events.ErrEventNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", eventID))
		return
	}
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load event", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event", models.NewEventResponse(event)))
}
