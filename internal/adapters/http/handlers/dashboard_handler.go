package handlers

import (
	"labops-backend/internal/core/services"
	"labops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard statistics endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns dashboard counters
// @Summary Dashboard statistics
// @Description Aggregate counters for tasks, experiments, deadlines and resources
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.DashboardStats
// @Router /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard stats")
	}
	return c.JSON(stats)
}
