package handlers

import (
	"errors"
	"strings"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/adapters/persistence/repositories"
	"labops-backend/internal/pkg/dateonly"
	"labops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ExperimentHandler handles experiment CRUD endpoints
type ExperimentHandler struct {
	experimentRepo *repositories.ExperimentRepository
}

// NewExperimentHandler creates a new experiment handler
func NewExperimentHandler(experimentRepo *repositories.ExperimentRepository) *ExperimentHandler {
	return &ExperimentHandler{experimentRepo: experimentRepo}
}

// ExperimentRequest represents experiment create/update request body
type ExperimentRequest struct {
	Title        string        `json:"title"`
	ProtocolType string        `json:"protocol_type"`
	Assignee     string        `json:"assignee"`
	Status       string        `json:"status"`
	StartDate    dateonly.Date `json:"start_date"`
	EndDate      dateonly.Date `json:"end_date"`
	Description  string        `json:"description"`
	Results      string        `json:"results"`
}

func (req *ExperimentRequest) validate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "Title is required"
	}
	if strings.TrimSpace(req.ProtocolType) == "" {
		return "Protocol type is required"
	}
	if strings.TrimSpace(req.Assignee) == "" {
		return "Assignee is required"
	}
	if req.Status == "" {
		return "Status is required"
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return "Start date and end date are required"
	}
	return ""
}

// List lists experiments
// @Summary List experiments
// @Description List experiments with an optional status filter, newest first
// @Tags Experiments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Experiment
// @Router /api/experiments [get]
func (h *ExperimentHandler) List(c *fiber.Ctx) error {
	experiments, err := h.experimentRepo.List(c.Context(), c.Query("status"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list experiments")
	}
	if experiments == nil {
		experiments = []*models.Experiment{}
	}
	return c.JSON(experiments)
}

// Get gets one experiment
// @Summary Get experiment
// @Tags Experiments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Experiment ID"
// @Success 200 {object} models.Experiment
// @Failure 404 {object} response.ErrorResponse
// @Router /api/experiments/{id} [get]
func (h *ExperimentHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid experiment ID")
	}

	experiment, err := h.experimentRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Experiment not found")
		}
		return response.InternalServerError(c, "Failed to load experiment")
	}
	return c.JSON(experiment)
}

// Create creates an experiment
// @Summary Create experiment
// @Tags Experiments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ExperimentRequest true "Experiment data"
// @Success 201 {object} models.Experiment
// @Failure 400 {object} response.ErrorResponse
// @Router /api/experiments [post]
func (h *ExperimentHandler) Create(c *fiber.Ctx) error {
	var req ExperimentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	experiment := &models.Experiment{
		Title:        req.Title,
		ProtocolType: req.ProtocolType,
		Assignee:     req.Assignee,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Description:  req.Description,
		Results:      req.Results,
		CreatedBy:    userID,
	}
	if err := h.experimentRepo.Create(c.Context(), experiment); err != nil {
		return response.InternalServerError(c, "Failed to create experiment")
	}
	return c.Status(fiber.StatusCreated).JSON(experiment)
}

// Update updates an experiment
// @Summary Update experiment
// @Tags Experiments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Experiment ID"
// @Param body body ExperimentRequest true "Experiment data"
// @Success 200 {object} models.Experiment
// @Failure 404 {object} response.ErrorResponse
// @Router /api/experiments/{id} [put]
func (h *ExperimentHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid experiment ID")
	}

	var req ExperimentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	experiment := &models.Experiment{
		ID:           uint(id),
		Title:        req.Title,
		ProtocolType: req.ProtocolType,
		Assignee:     req.Assignee,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Description:  req.Description,
		Results:      req.Results,
	}
	if err := h.experimentRepo.Update(c.Context(), experiment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Experiment not found")
		}
		return response.InternalServerError(c, "Failed to update experiment")
	}

	updated, err := h.experimentRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to load experiment")
	}
	return c.JSON(updated)
}

// Delete deletes an experiment
// @Summary Delete experiment
// @Tags Experiments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Experiment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorResponse
// @Router /api/experiments/{id} [delete]
func (h *ExperimentHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid experiment ID")
	}

	if err := h.experimentRepo.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Experiment not found")
		}
		return response.InternalServerError(c, "Failed to delete experiment")
	}
	return c.JSON(fiber.Map{"message": "Experiment deleted successfully"})
}
