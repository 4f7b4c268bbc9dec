package services

import (
	"context"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/pkg/dateonly"

	"gorm.io/gorm"
)

// DashboardService aggregates operational counters for the landing page
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// TaskStats summarizes task completion
type TaskStats struct {
	Total    int64 `json:"total"`
	Done     int64 `json:"done"`
	Progress int   `json:"progress"`
}

// ExperimentStats summarizes experiment activity
type ExperimentStats struct {
	Active      int64 `json:"active"`
	Completed7d int64 `json:"completed_7d"`
}

// DeadlineStats counts unfinished tasks by due-date bucket
type DeadlineStats struct {
	Today   int64 `json:"today"`
	Week    int64 `json:"week"`
	Overdue int64 `json:"overdue"`
}

// ResourceStats counts resources needing attention
type ResourceStats struct {
	Critical int64 `json:"critical"`
}

// DashboardStats is the aggregate payload for the dashboard
type DashboardStats struct {
	Tasks       TaskStats       `json:"tasks"`
	Experiments ExperimentStats `json:"experiments"`
	Deadlines   DeadlineStats   `json:"deadlines"`
	Resources   ResourceStats   `json:"resources"`
}

// GetStats computes all dashboard counters. Date boundaries are fixed in
// Go so the queries read the same on every supported database.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := s.db.WithContext(ctx)

	today := dateonly.Today()
	weekAhead := today.AddDays(7)
	weekAgo := today.AddDays(-7)

	if err := db.Model(&models.Task{}).Count(&stats.Tasks.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Where("status = ?", models.TaskStatusDone).Count(&stats.Tasks.Done).Error; err != nil {
		return nil, err
	}
	if stats.Tasks.Total > 0 {
		stats.Tasks.Progress = int(stats.Tasks.Done * 100 / stats.Tasks.Total)
	}

	if err := db.Model(&models.Experiment{}).
		Where("status = ?", models.ExperimentStatusProgress).
		Count(&stats.Experiments.Active).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Experiment{}).
		Where("status = ? AND start_date >= ?", models.ExperimentStatusDone, weekAgo).
		Count(&stats.Experiments.Completed7d).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Task{}).
		Where("end_date = ? AND status != ?", today, models.TaskStatusDone).
		Count(&stats.Deadlines.Today).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).
		Where("end_date BETWEEN ? AND ? AND status != ?", today, weekAhead, models.TaskStatusDone).
		Count(&stats.Deadlines.Week).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).
		Where("end_date < ? AND status != ?", today, models.TaskStatusDone).
		Count(&stats.Deadlines.Overdue).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Resource{}).
		Where("status = ?", models.StatusCritical).
		Count(&stats.Resources.Critical).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
