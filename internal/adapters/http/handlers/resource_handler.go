package handlers

import (
	"errors"
	"strings"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/core/domain"
	"labops-backend/internal/core/services"
	"labops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ResourceHandler handles the consumable inventory endpoints
type ResourceHandler struct {
	resourceService *services.ResourceService
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceService *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

func validateResourceInput(input *services.ResourceInput) string {
	if strings.TrimSpace(input.Name) == "" {
		return "Name is required"
	}
	if strings.TrimSpace(input.Category) == "" {
		return "Category is required"
	}
	if strings.TrimSpace(input.Unit) == "" {
		return "Unit is required"
	}
	return ""
}

// List lists resources
// @Summary List resources
// @Description List resources with optional category and status filters, ordered by name
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Resource
// @Router /api/resources [get]
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	resources, err := h.resourceService.List(c.Context(), c.Query("category"), c.Query("status"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list resources")
	}
	if resources == nil {
		resources = []*models.Resource{}
	}
	return c.JSON(resources)
}

// Get gets one resource
// @Summary Get resource
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} models.Resource
// @Failure 404 {object} response.ErrorResponse
// @Router /api/resources/{id} [get]
func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	resource, err := h.resourceService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrResourceNotFound) {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to load resource")
	}
	return c.JSON(resource)
}

// Create creates a resource
// @Summary Create resource
// @Description Create a resource with current stock equal to initial stock
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ResourceInput true "Resource data"
// @Success 201 {object} models.Resource
// @Failure 400 {object} response.ErrorResponse
// @Router /api/resources [post]
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var input services.ResourceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := validateResourceInput(&input); msg != "" {
		return response.BadRequest(c, msg)
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	resource, err := h.resourceService.Create(c.Context(), &input, userID)
	if err != nil {
		if errors.Is(err, services.ErrNegativeInitialStock) {
			return response.BadRequest(c, "Initial stock cannot be negative")
		}
		return response.InternalServerError(c, "Failed to create resource")
	}
	return c.Status(fiber.StatusCreated).JSON(resource)
}

// Update edits a resource
// @Summary Update resource
// @Description Update resource fields. Changing the initial stock rescales the current stock proportionally.
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param body body services.ResourceInput true "Resource data"
// @Success 200 {object} models.Resource
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/resources/{id} [put]
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	var input services.ResourceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := validateResourceInput(&input); msg != "" {
		return response.BadRequest(c, msg)
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	resource, err := h.resourceService.Edit(c.Context(), uint(id), &input, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResourceNotFound):
			return response.NotFound(c, "Resource not found")
		case errors.Is(err, services.ErrNegativeInitialStock):
			return response.BadRequest(c, "Initial stock cannot be negative")
		default:
			return response.InternalServerError(c, "Failed to update resource")
		}
	}
	return c.JSON(resource)
}

// RecordUsage records a stock withdrawal
// @Summary Record resource usage
// @Description Consume a quantity of stock and append a usage event
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param body body services.UsageInput true "Usage data"
// @Success 201 {object} models.ResourceUsage
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/resources/{id}/usage [post]
func (h *ResourceHandler) RecordUsage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	var input services.UsageInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	usage, err := h.resourceService.RecordUsage(c.Context(), uint(id), &input, userID)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		switch {
		case errors.Is(err, services.ErrResourceNotFound):
			return response.NotFound(c, "Resource not found")
		case errors.Is(err, services.ErrInvalidQuantity):
			return response.BadRequest(c, "Quantity must be greater than zero")
		case errors.As(err, &insufficient):
			return response.BadRequest(c, insufficient.Error())
		default:
			return response.InternalServerError(c, "Failed to record usage")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(usage)
}

// Restock replenishes a resource
// @Summary Restock resource
// @Description Raise current and initial stock by the given quantity
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param body body services.RestockInput true "Restock data"
// @Success 200 {object} models.Resource
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/resources/{id}/restock [post]
func (h *ResourceHandler) Restock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	var input services.RestockInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	resource, err := h.resourceService.Restock(c.Context(), uint(id), &input, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResourceNotFound):
			return response.NotFound(c, "Resource not found")
		case errors.Is(err, services.ErrInvalidQuantity):
			return response.BadRequest(c, "Quantity must be greater than zero")
		default:
			return response.InternalServerError(c, "Failed to restock resource")
		}
	}
	return c.JSON(resource)
}

// UsageHistory lists a resource's usage events
// @Summary Get usage history
// @Description List a resource's usage events, most recent first
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {array} models.ResourceUsageEntry
// @Failure 404 {object} response.ErrorResponse
// @Router /api/resources/{id}/usage [get]
func (h *ResourceHandler) UsageHistory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	entries, err := h.resourceService.UsageHistory(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrResourceNotFound) {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to load usage history")
	}
	return c.JSON(entries)
}

// Delete deletes a resource and its usage history
// @Summary Delete resource
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/resources/{id} [delete]
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid resource ID")
	}

	if err := h.resourceService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrResourceNotFound) {
			return response.NotFound(c, "Resource not found")
		}
		return response.InternalServerError(c, "Failed to delete resource")
	}
	return c.JSON(fiber.Map{"message": "Resource deleted successfully"})
}
