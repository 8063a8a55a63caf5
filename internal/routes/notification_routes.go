package routes

import (
	"erp-backend/internal/handler"
	"erp-backend/internal/metrics"
	"erp-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewNotificationHandler(d.Notifications)

	api := app.Group("/api/notifications", middleware.Auth(d.JWTSecret))
	api.Get("/", hdl.List)
	api.Post("/:id/read", hdl.MarkRead)
}

// SetupSystemRoutes serves signed file links and the metrics endpoint.
func SetupSystemRoutes(app *fiber.App, d Deps) {
	files := handler.NewFileHandler(d.Files)
	app.Get("/files", files.Serve)
	app.Get("/metrics", metrics.Handler())
}

func SetupAll(app *fiber.App, d Deps) {
	SetupAuthRoutes(app, d)
	SetupLeaveRoutes(app, d)
	SetupHelpDeskRoutes(app, d)
	SetupCorrespondenceRoutes(app, d)
	SetupProfileRoutes(app, d)
	SetupNotificationRoutes(app, d)
	SetupSystemRoutes(app, d)
}
