package FiberConfig

import (
	"fmt"
	"log"

	"Turno/Controllers"
	"Turno/Models"
	"Turno/Notify"
	"Turno/Storage"
	"Turno/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, photos Storage.PhotoStore) {
	// Initialize handlers
	sectorController := Controllers.NewSectorController(db)
	taskController := Controllers.NewTaskController(db)
	employeeController := Controllers.NewEmployeeController(db)
	recordController := Controllers.NewRecordController(db, Notify.NewSlackClient())
	dashboardController := Controllers.NewDashboardController(db)
	insightController := Controllers.NewInsightController(db)
	exportController := Controllers.NewExportController(db)
	composerController := Controllers.NewComposerController(db, photos, recordController)

	// API group
	api := app.Group("/api")

	// Session routes
	api.Post("/login", Controllers.Login)
	api.Post("/logout", Controllers.Logout)
	api.Get("/validate-session", middleware.Verify(), Controllers.ValidateSession)

	// Catalog reads are open so the composer can load sectors and tasks
	api.Get("/sectors", sectorController.GetSectors)
	api.Get("/tasks", taskController.GetTasks)
	api.Get("/employees", employeeController.GetEmployees)

	// Catalog writes are administrative
	api.Post("/sectors", middleware.Verify(), sectorController.CreateSector)
	api.Delete("/sectors/:id", middleware.Verify(), sectorController.DeleteSector)
	api.Post("/tasks", middleware.Verify(), taskController.CreateTask)
	api.Delete("/tasks/:id", middleware.Verify(), taskController.DeleteTask)
	api.Post("/employees", middleware.Verify(), employeeController.CreateEmployee)
	api.Delete("/employees/:id", middleware.Verify(), employeeController.DeleteEmployee)

	// Composer flow (operator-facing, no session required)
	compose := api.Group("/compose")
	compose.Post("/", composerController.StartDraft)
	compose.Get("/:id", composerController.GetDraft)
	compose.Put("/:id", composerController.UpdateDraft)
	compose.Post("/:id/photos", composerController.AttachPhoto)
	compose.Delete("/:id/photos/:index", composerController.RemovePhoto)
	compose.Post("/:id/submit", composerController.SubmitDraft)

	// Record store
	records := api.Group("/records")
	records.Post("/", recordController.CreateRecord)
	records.Get("/", middleware.Verify(), recordController.GetRecords)
	records.Get("/export", middleware.Verify(), exportController.ExportRecords)
	records.Get("/:id", middleware.Verify(), recordController.GetRecord)
	records.Put("/:id/status", middleware.Verify(), recordController.UpdateStatus)
	records.Post("/:id/insight", middleware.Verify(), insightController.GenerateInsight)

	// Report surface
	api.Get("/dashboard", middleware.Verify(), dashboardController.GetDashboard)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func FiberConfig(photos Storage.PhotoStore) {
	fmt.Println("Server Up...")
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // room for photo uploads
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB, photos)
	app.Static("/static", "static/")

	if err := app.Listen(":8080"); err != nil {
		log.Fatal(err)
	}
}
