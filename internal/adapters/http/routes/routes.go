package routes

import (
	"labops-backend/internal/adapters/http/handlers"
	"labops-backend/internal/adapters/http/middleware"
	"labops-backend/internal/adapters/persistence/repositories"
	"labops-backend/internal/config"
	"labops-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	experimentRepo := repositories.NewExperimentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	resourceService := services.NewResourceService(db)
	dashboardService := services.NewDashboardService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskRepo)
	experimentHandler := handlers.NewExperimentHandler(experimentRepo)
	resourceHandler := handlers.NewResourceHandler(resourceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/api/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	protected := middleware.AuthMiddleware(cfg, userRepo)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Get("/me", protected, authHandler.Me)

	// Task routes
	tasks := api.Group("/tasks", protected)
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)

	// Experiment routes
	experiments := api.Group("/experiments", protected)
	experiments.Get("/", experimentHandler.List)
	experiments.Post("/", experimentHandler.Create)
	experiments.Get("/:id", experimentHandler.Get)
	experiments.Put("/:id", experimentHandler.Update)
	experiments.Delete("/:id", experimentHandler.Delete)

	// Resource routes (delete restricted to admin and manager)
	resources := api.Group("/resources", protected)
	resources.Get("/", resourceHandler.List)
	resources.Post("/", resourceHandler.Create)
	resources.Get("/:id", resourceHandler.Get)
	resources.Put("/:id", resourceHandler.Update)
	resources.Delete("/:id", middleware.AdminOrManager(), resourceHandler.Delete)
	resources.Post("/:id/usage", resourceHandler.RecordUsage)
	resources.Get("/:id/usage", resourceHandler.UsageHistory)
	resources.Post("/:id/restock", resourceHandler.Restock)

	// Chart routes
	charts := api.Group("/charts", protected)
	charts.Get("/task-distribution", reportHandler.TaskDistribution)
	charts.Get("/task-priority", reportHandler.TaskPriority)
	charts.Get("/experiments-timeline", reportHandler.ExperimentsTimeline)
	charts.Get("/tasks-gantt", reportHandler.TasksGantt)

	// Export routes
	export := api.Group("/export", protected)
	export.Get("/tasks/csv", reportHandler.ExportTasksCSV)
	export.Get("/experiments/csv", reportHandler.ExportExperimentsCSV)

	// Dashboard routes
	dashboard := api.Group("/dashboard", protected)
	dashboard.Get("/stats", dashboardHandler.Stats)
}
