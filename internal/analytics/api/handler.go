package analytics_api

import (
	"context"
	"fmt"
	"net/http"

	"campus-portal/internal/analytics"
	"campus-portal/internal/logger"
	"campus-portal/internal/utils"

	"github.com/go-chi/chi/v5"
)

type StatsService interface {
	Stats(ctx context.Context) (*analytics.DashboardStats, error)
}

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service StatsService
	Logger  *logger.Logger
}

func NewHandler(service StatsService, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.GetDashboardStats)
}

func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("Failed to compute dashboard stats: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to compute dashboard stats", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Dashboard stats", stats))
}
