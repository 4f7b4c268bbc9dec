package handlers

import (
	"labops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles service health endpoints
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root returns the API banner
// @Summary API banner
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":  "Lab Operations API",
		"version":  "2.0.0",
		"status":   "running",
		"features": []string{"JWT Auth", "Charts API", "CSV Export"},
	})
}

// Check reports service and database health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} response.ErrorResponse
// @Router /api/health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable")
	}
	if err := sqlDB.Ping(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable")
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}
