package services

import (
	"context"
	"strings"
	"testing"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/pkg/dateonly"
)

func TestTaskDistribution(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	today := dateonly.Today()

	seedTask(t, db, models.TaskStatusDone, today)
	seedTask(t, db, models.TaskStatusDone, today)
	seedTask(t, db, models.TaskStatusTodo, today)

	chart, err := svc.TaskDistribution(context.Background())
	if err != nil {
		t.Fatalf("TaskDistribution returned error: %v", err)
	}
	if len(chart.Labels) != 2 || len(chart.Data) != 2 {
		t.Fatalf("got %d labels, want 2", len(chart.Labels))
	}

	counts := map[string]int64{}
	for i, label := range chart.Labels {
		counts[label] = chart.Data[i]
	}
	if counts["done"] != 2 || counts["todo"] != 1 {
		t.Errorf("counts = %v, want done:2 todo:1", counts)
	}
}

func TestTaskPriority(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	today := dateonly.Today()

	for _, priority := range []string{models.PriorityHigh, models.PriorityHigh, models.PriorityLow} {
		task := &models.Task{
			Title: "task", Assignee: "a", Status: models.TaskStatusTodo,
			Priority: priority, StartDate: today, EndDate: today,
		}
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	chart, err := svc.TaskPriority(context.Background())
	if err != nil {
		t.Fatalf("TaskPriority returned error: %v", err)
	}

	counts := map[string]int64{}
	for i, label := range chart.Labels {
		counts[label] = chart.Data[i]
	}
	if counts["high"] != 2 || counts["low"] != 1 {
		t.Errorf("counts = %v, want high:2 low:1", counts)
	}
}

func TestExperimentsTimeline(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	today := dateonly.Today()

	seedExperiment(t, db, models.ExperimentStatusProgress, today)
	seedExperiment(t, db, models.ExperimentStatusDone, today)
	seedExperiment(t, db, models.ExperimentStatusDone, today.AddDays(-400)) // outside the window

	chart, err := svc.ExperimentsTimeline(context.Background())
	if err != nil {
		t.Fatalf("ExperimentsTimeline returned error: %v", err)
	}

	currentMonth := today.Time().Format("2006-01")
	if len(chart.Labels) != 1 || chart.Labels[0] != currentMonth {
		t.Fatalf("Labels = %v, want [%s]", chart.Labels, currentMonth)
	}
	if chart.Data[0] != 2 {
		t.Errorf("Data[0] = %d, want 2", chart.Data[0])
	}
}

func TestTasksGantt(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	today := dateonly.Today()

	mk := func(title, status, priority string, start dateonly.Date) {
		task := &models.Task{
			Title: title, Assignee: "a", Status: status, Priority: priority,
			StartDate: start, EndDate: start.AddDays(5),
		}
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}
	mk("second", models.TaskStatusDone, models.PriorityHigh, today)
	mk("first", models.TaskStatusProgress, models.PriorityLow, today.AddDays(-10))
	mk("third", models.TaskStatusReview, models.PriorityMedium, today.AddDays(10))

	data, err := svc.TasksGantt(context.Background())
	if err != nil {
		t.Fatalf("TasksGantt returned error: %v", err)
	}
	if data.Total != 3 {
		t.Fatalf("Total = %d, want 3", data.Total)
	}

	// Ordered by start date.
	if data.Tasks[0].Title != "first" || data.Tasks[2].Title != "third" {
		t.Errorf("unexpected order: %s ... %s", data.Tasks[0].Title, data.Tasks[2].Title)
	}

	byTitle := map[string]GanttTask{}
	for _, task := range data.Tasks {
		byTitle[task.Title] = task
	}
	if byTitle["second"].Progress != 100 || byTitle["second"].Color != "#ef4444" {
		t.Errorf("done/high task = %+v", byTitle["second"])
	}
	if byTitle["first"].Progress != 50 || byTitle["first"].Color != "#22c55e" {
		t.Errorf("progress/low task = %+v", byTitle["first"])
	}
	if byTitle["third"].Progress != 75 || byTitle["third"].Color != "#f59e0b" {
		t.Errorf("review/medium task = %+v", byTitle["third"])
	}
}

func TestExportTasksCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	today := dateonly.Today()

	task := &models.Task{
		Title: `Calibrate the "big" spectrometer`, Assignee: "Ana", Status: models.TaskStatusTodo,
		Priority: models.PriorityHigh, StartDate: today, EndDate: today.AddDays(2),
		Description: "line one, with comma",
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	data, err := svc.ExportTasksCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportTasksCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "ID,Title,Assignee,Status,Priority,Start Date,End Date,Description" {
		t.Errorf("header = %q", lines[0])
	}
	// Quotes and commas survive encoding.
	if !strings.Contains(lines[1], `"Calibrate the ""big"" spectrometer"`) {
		t.Errorf("row = %q, title not properly quoted", lines[1])
	}
	if !strings.Contains(lines[1], today.String()) {
		t.Errorf("row = %q, missing start date", lines[1])
	}
}

func TestExportExperimentsCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	today := dateonly.Today()

	seedExperiment(t, db, models.ExperimentStatusDone, today.AddDays(-5))
	seedExperiment(t, db, models.ExperimentStatusProgress, today)

	data, err := svc.ExportExperimentsCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportExperimentsCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "ID,Title,Protocol Type,Assignee,Status,Start Date,End Date,Results" {
		t.Errorf("header = %q", lines[0])
	}
	// Newest first.
	if !strings.Contains(lines[1], today.String()) {
		t.Errorf("first row = %q, want the newest experiment", lines[1])
	}
}
