package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/adapters/persistence/repositories"
	"labops-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(data)
}

// A handler reached without the auth middleware must refuse to write,
// never fall back to actor id 0.
func TestCreateWithoutAuthContextRejected(t *testing.T) {
	db := newTestDB(t)

	app := fiber.New()
	app.Post("/tasks", NewTaskHandler(repositories.NewTaskRepository(db)).Create)
	app.Post("/resources", NewResourceHandler(services.NewResourceService(db)).Create)

	status, body := postJSON(t, app, "/tasks", `{
		"title": "t", "assignee": "a", "status": "todo", "priority": "low",
		"start_date": "2026-08-20", "end_date": "2026-08-25"
	}`)
	if status != fiber.StatusUnauthorized {
		t.Errorf("task create without auth context: status %d, body %s", status, body)
	}
	if !strings.Contains(body, "Not authenticated") {
		t.Errorf("task create body = %s", body)
	}

	status, body = postJSON(t, app, "/resources", `{
		"name": "Ethanol", "category": "solvents", "initial_stock": 10, "unit": "mL"
	}`)
	if status != fiber.StatusUnauthorized {
		t.Errorf("resource create without auth context: status %d, body %s", status, body)
	}

	var tasks, resources int64
	db.Model(&models.Task{}).Count(&tasks)
	db.Model(&models.Resource{}).Count(&resources)
	if tasks != 0 || resources != 0 {
		t.Errorf("rows persisted without an actor: tasks=%d resources=%d", tasks, resources)
	}
}
