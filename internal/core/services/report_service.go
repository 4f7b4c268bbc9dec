package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strconv"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/pkg/dateonly"

	"gorm.io/gorm"
)

// ReportService produces chart payloads and CSV exports
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ChartData is a label/value series for bar, pie and line charts
type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// GanttTask is one bar of the task timeline
type GanttTask struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Assignee    string        `json:"assignee"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	StartDate   dateonly.Date `json:"start_date"`
	EndDate     dateonly.Date `json:"end_date"`
	Progress    int           `json:"progress"`
	Color       string        `json:"color"`
	Description string        `json:"description"`
}

// GanttData is the full gantt payload
type GanttData struct {
	Tasks []GanttTask `json:"tasks"`
	Total int         `json:"total"`
}

type groupCount struct {
	Label string
	Count int64
}

// TaskDistribution counts tasks per status.
func (s *ReportService) TaskDistribution(ctx context.Context) (*ChartData, error) {
	return s.groupTasksBy(ctx, "status")
}

// TaskPriority counts tasks per priority.
func (s *ReportService) TaskPriority(ctx context.Context) (*ChartData, error) {
	return s.groupTasksBy(ctx, "priority")
}

func (s *ReportService) groupTasksBy(ctx context.Context, column string) (*ChartData, error) {
	var rows []groupCount
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	chart := &ChartData{Labels: []string{}, Data: []int64{}}
	for _, row := range rows {
		chart.Labels = append(chart.Labels, row.Label)
		chart.Data = append(chart.Data, row.Count)
	}
	return chart, nil
}

// ExperimentsTimeline counts experiments started per month over the last
// six months. Bucketing happens in Go because month-formatting SQL
// differs between the supported databases.
func (s *ReportService) ExperimentsTimeline(ctx context.Context) (*ChartData, error) {
	cutoff := dateonly.FromTime(dateonly.Today().Time().AddDate(0, -6, 0))

	var experiments []models.Experiment
	err := s.db.WithContext(ctx).
		Select("start_date").
		Where("start_date >= ?", cutoff).
		Find(&experiments).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int64)
	for _, exp := range experiments {
		if exp.StartDate.IsZero() {
			continue
		}
		buckets[exp.StartDate.Time().Format("2006-01")]++
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	chart := &ChartData{Labels: []string{}, Data: []int64{}}
	for _, month := range months {
		chart.Labels = append(chart.Labels, month)
		chart.Data = append(chart.Data, buckets[month])
	}
	return chart, nil
}

// TasksGantt returns all tasks ordered by start date, with a progress
// percentage derived from status and a color derived from priority.
func (s *ReportService) TasksGantt(ctx context.Context) (*GanttData, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).Order("start_date ASC").Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	data := &GanttData{Tasks: []GanttTask{}}
	for _, task := range tasks {
		data.Tasks = append(data.Tasks, GanttTask{
			ID:          task.ID,
			Title:       task.Title,
			Assignee:    task.Assignee,
			Status:      task.Status,
			Priority:    task.Priority,
			StartDate:   task.StartDate,
			EndDate:     task.EndDate,
			Progress:    ganttProgress(task.Status),
			Color:       ganttColor(task.Priority),
			Description: task.Description,
		})
	}
	data.Total = len(data.Tasks)
	return data, nil
}

func ganttProgress(status string) int {
	switch status {
	case models.TaskStatusDone:
		return 100
	case models.TaskStatusReview:
		return 75
	case models.TaskStatusProgress:
		return 50
	default:
		return 0
	}
}

func ganttColor(priority string) string {
	switch priority {
	case models.PriorityHigh:
		return "#ef4444"
	case models.PriorityMedium:
		return "#f59e0b"
	default:
		return "#22c55e"
	}
}

// ExportTasksCSV renders all tasks as CSV, ordered by end date.
func (s *ReportService) ExportTasksCSV(ctx context.Context) ([]byte, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).Order("end_date ASC").Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Title", "Assignee", "Status", "Priority", "Start Date", "End Date", "Description"}); err != nil {
		return nil, err
	}
	for _, task := range tasks {
		record := []string{
			strconv.FormatUint(uint64(task.ID), 10),
			task.Title,
			task.Assignee,
			task.Status,
			task.Priority,
			task.StartDate.String(),
			task.EndDate.String(),
			task.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportExperimentsCSV renders all experiments as CSV, newest first.
func (s *ReportService) ExportExperimentsCSV(ctx context.Context) ([]byte, error) {
	var experiments []models.Experiment
	err := s.db.WithContext(ctx).Order("start_date DESC").Find(&experiments).Error
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Title", "Protocol Type", "Assignee", "Status", "Start Date", "End Date", "Results"}); err != nil {
		return nil, err
	}
	for _, exp := range experiments {
		record := []string{
			strconv.FormatUint(uint64(exp.ID), 10),
			exp.Title,
			exp.ProtocolType,
			exp.Assignee,
			exp.Status,
			exp.StartDate.String(),
			exp.EndDate.String(),
			exp.Results,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
