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

// TaskHandler handles task CRUD endpoints
type TaskHandler struct {
	taskRepo *repositories.TaskRepository
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo *repositories.TaskRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

// TaskRequest represents task create/update request body
type TaskRequest struct {
	Title       string        `json:"title"`
	Assignee    string        `json:"assignee"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	StartDate   dateonly.Date `json:"start_date"`
	EndDate     dateonly.Date `json:"end_date"`
	Description string        `json:"description"`
}

func (req *TaskRequest) validate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "Title is required"
	}
	if strings.TrimSpace(req.Assignee) == "" {
		return "Assignee is required"
	}
	if req.Status == "" {
		return "Status is required"
	}
	if req.Priority == "" {
		return "Priority is required"
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return "Start date and end date are required"
	}
	return ""
}

// List lists tasks
// @Summary List tasks
// @Description List tasks with optional status and priority filters, ordered by end date
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Success 200 {array} models.Task
// @Router /api/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.taskRepo.List(c.Context(), c.Query("status"), c.Query("priority"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list tasks")
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return c.JSON(tasks)
}

// Get gets one task
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} response.ErrorResponse
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid task ID")
	}

	task, err := h.taskRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Task not found")
		}
		return response.InternalServerError(c, "Failed to load task")
	}
	return c.JSON(task)
}

// Create creates a task
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TaskRequest true "Task data"
// @Success 201 {object} models.Task
// @Failure 400 {object} response.ErrorResponse
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req TaskRequest
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

	task := &models.Task{
		Title:       req.Title,
		Assignee:    req.Assignee,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := h.taskRepo.Create(c.Context(), task); err != nil {
		return response.InternalServerError(c, "Failed to create task")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// Update updates a task
// @Summary Update task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body TaskRequest true "Task data"
// @Success 200 {object} models.Task
// @Failure 404 {object} response.ErrorResponse
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid task ID")
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	task := &models.Task{
		ID:          uint(id),
		Title:       req.Title,
		Assignee:    req.Assignee,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	}
	if err := h.taskRepo.Update(c.Context(), task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Task not found")
		}
		return response.InternalServerError(c, "Failed to update task")
	}

	updated, err := h.taskRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to load task")
	}
	return c.JSON(updated)
}

// Delete deletes a task
// @Summary Delete task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorResponse
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid task ID")
	}

	if err := h.taskRepo.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Task not found")
		}
		return response.InternalServerError(c, "Failed to delete task")
	}
	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}
