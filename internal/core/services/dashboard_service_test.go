package services

import (
	"context"
	"testing"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/pkg/dateonly"

	"gorm.io/gorm"
)

func seedTask(t *testing.T, db *gorm.DB, status string, endDate dateonly.Date) {
	t.Helper()
	task := &models.Task{
		Title:     "task",
		Assignee:  "someone",
		Status:    status,
		Priority:  models.PriorityMedium,
		StartDate: endDate.AddDays(-3),
		EndDate:   endDate,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
}

func seedExperiment(t *testing.T, db *gorm.DB, status string, startDate dateonly.Date) {
	t.Helper()
	exp := &models.Experiment{
		Title:        "exp",
		ProtocolType: "PCR",
		Assignee:     "someone",
		Status:       status,
		StartDate:    startDate,
		EndDate:      startDate.AddDays(5),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("failed to seed experiment: %v", err)
	}
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	user := createTestUser(t, db, "tech@biotech.com", "Lab Tech")
	today := dateonly.Today()

	// Tasks: 4 total, 1 done. Deadlines: one due today, one later this
	// week, one overdue; the done task never counts as a deadline.
	seedTask(t, db, models.TaskStatusDone, today)
	seedTask(t, db, models.TaskStatusTodo, today)
	seedTask(t, db, models.TaskStatusProgress, today.AddDays(3))
	seedTask(t, db, models.TaskStatusTodo, today.AddDays(-2))

	// Experiments: one active, one completed recently, one completed long ago.
	seedExperiment(t, db, models.ExperimentStatusProgress, today.AddDays(-1))
	seedExperiment(t, db, models.ExperimentStatusDone, today.AddDays(-3))
	seedExperiment(t, db, models.ExperimentStatusDone, today.AddDays(-30))

	// Resources: one critical, one healthy.
	resourceSvc := NewResourceService(db)
	res := createResource(t, resourceSvc, user.ID, "100")
	if _, err := resourceSvc.RecordUsage(context.Background(), res.ID, &UsageInput{
		QuantityUsed: dec("95"), Purpose: "drain",
	}, user.ID); err != nil {
		t.Fatalf("RecordUsage returned error: %v", err)
	}
	if _, err := resourceSvc.Create(context.Background(), &ResourceInput{
		Name: "Healthy", Category: "reagents", InitialStock: dec("100"), Unit: "mL",
	}, user.ID); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	if stats.Tasks.Total != 4 || stats.Tasks.Done != 1 {
		t.Errorf("Tasks = %+v, want total 4 done 1", stats.Tasks)
	}
	if stats.Tasks.Progress != 25 {
		t.Errorf("Tasks.Progress = %d, want 25", stats.Tasks.Progress)
	}
	if stats.Experiments.Active != 1 {
		t.Errorf("Experiments.Active = %d, want 1", stats.Experiments.Active)
	}
	if stats.Experiments.Completed7d != 1 {
		t.Errorf("Experiments.Completed7d = %d, want 1", stats.Experiments.Completed7d)
	}
	if stats.Deadlines.Today != 1 {
		t.Errorf("Deadlines.Today = %d, want 1", stats.Deadlines.Today)
	}
	// The week window includes today's deadline.
	if stats.Deadlines.Week != 2 {
		t.Errorf("Deadlines.Week = %d, want 2", stats.Deadlines.Week)
	}
	if stats.Deadlines.Overdue != 1 {
		t.Errorf("Deadlines.Overdue = %d, want 1", stats.Deadlines.Overdue)
	}
	if stats.Resources.Critical != 1 {
		t.Errorf("Resources.Critical = %d, want 1", stats.Resources.Critical)
	}
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}
	if stats.Tasks.Total != 0 || stats.Tasks.Progress != 0 {
		t.Errorf("empty database should yield zero stats, got %+v", stats.Tasks)
	}
}
