package notification_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"campus-portal/internal/actions"
	"campus-portal/internal/logger"
	"campus-portal/internal/models"
	"campus-portal/internal/notification"
	"campus-portal/internal/sse"
	"campus-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Presenter *notification.Presenter
	Emitter   *sse.NotificationEmitter
	Actions   *actions.Service
	Logger    *logger.Logger
}

func NewHandler(presenter *notification.Presenter, emitter *sse.NotificationEmitter, actionService *actions.Service, logger *logger.Logger) *Handler {
	return &Handler{
		Presenter: presenter,
		Emitter:   emitter,
		Actions:   actionService,
		Logger:    logger,
	}
}

// RegisterRoutes mounts notification and action endpoints under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/", h.ShowNotification)
		r.Get("/stream", h.StreamNotifications)
		r.Delete("/{notificationID}", h.DismissNotification)
	})
	r.Post("/actions/{action}", h.PerformAction)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Active notifications", h.Presenter.Active()))
}

func (h *Handler) ShowNotification(w http.ResponseWriter, r *http.Request) {
	var req models.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", "message is required"))
		return
	}

	n := h.Presenter.Show(req.Message, req.Severity)
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Notification shown", n))
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	h.Presenter.Dismiss(chi.URLParam(r, "notificationID"))
	w.WriteHeader(http.StatusNoContent)
}

// PerformAction answers the profile, club and announcement buttons. Unknown actions do nothing.
func (h *Handler) PerformAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
			return
		}
	}

	n, err := h.Actions.Perform(chi.URLParam(r, "action"), body.Name)
	if errors.Is(err, actions.ErrUnknownAction) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Action failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Action performed", n))
}

// StreamNotifications sends shown and dismissed events until the client disconnects.
func (h *Handler) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	setupSSEHeaders(w)

	ctx := r.Context()
	eventChan := h.Emitter.Subscribe(ctx)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	// Replay what is already on screen so a late client sees the same toasts.
	// A toast shown after Subscribe is both replayed and queued; the queued copy is dropped.
	replayed := make(map[string]struct{})
	for _, n := range h.Presenter.Active() {
		replayed[n.ID] = struct{}{}
		if err := writeEvent(w, models.NotificationEvent{Type: models.NotificationShown, Notification: n}); err != nil {
			h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize notification: %v", err))
		}
	}
	flusher.Flush()

	h.Logger.Info("SSE", "Client connected to notification stream")

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event.Type == models.NotificationShown {
				if _, seen := replayed[event.Notification.ID]; seen {
					delete(replayed, event.Notification.ID)
					continue
				}
			}
			if err := writeEvent(w, event); err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize notification: %v", err))
				continue
			}
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", "Client disconnected from notification stream")
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event models.NotificationEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, jsonData)
	return err
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
