package handlers

import (
	"labops-backend/internal/core/services"
	"labops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles chart and export endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// TaskDistribution returns task counts per status
// @Summary Task distribution chart
// @Tags Charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.ChartData
// @Router /api/charts/task-distribution [get]
func (h *ReportHandler) TaskDistribution(c *fiber.Ctx) error {
	chart, err := h.reportService.TaskDistribution(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build chart")
	}
	return c.JSON(chart)
}

// TaskPriority returns task counts per priority
// @Summary Task priority chart
// @Tags Charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.ChartData
// @Router /api/charts/task-priority [get]
func (h *ReportHandler) TaskPriority(c *fiber.Ctx) error {
	chart, err := h.reportService.TaskPriority(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build chart")
	}
	return c.JSON(chart)
}

// ExperimentsTimeline returns experiments started per month
// @Summary Experiments timeline chart
// @Description Experiments started per month over the last six months
// @Tags Charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.ChartData
// @Router /api/charts/experiments-timeline [get]
func (h *ReportHandler) ExperimentsTimeline(c *fiber.Ctx) error {
	chart, err := h.reportService.ExperimentsTimeline(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build chart")
	}
	return c.JSON(chart)
}

// TasksGantt returns the task timeline payload
// @Summary Tasks gantt chart
// @Tags Charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.GanttData
// @Router /api/charts/tasks-gantt [get]
func (h *ReportHandler) TasksGantt(c *fiber.Ctx) error {
	data, err := h.reportService.TasksGantt(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build chart")
	}
	return c.JSON(data)
}

// ExportTasksCSV downloads all tasks as CSV
// @Summary Export tasks CSV
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV file"
// @Router /api/export/tasks/csv [get]
func (h *ReportHandler) ExportTasksCSV(c *fiber.Ctx) error {
	data, err := h.reportService.ExportTasksCSV(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to export tasks")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=tasks.csv`)
	return c.Send(data)
}

// ExportExperimentsCSV downloads all experiments as CSV
// @Summary Export experiments CSV
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV file"
// @Router /api/export/experiments/csv [get]
func (h *ReportHandler) ExportExperimentsCSV(c *fiber.Ctx) error {
	data, err := h.reportService.ExportExperimentsCSV(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to export experiments")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=experiments.csv`)
	return c.Send(data)
}
