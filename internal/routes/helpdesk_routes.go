package routes

import (
	"erp-backend/internal/handler"
	"erp-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupHelpDeskRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewHelpDeskHandler(d.HelpDesk)

	api := app.Group("/api/help-desk", middleware.Auth(d.JWTSecret))
	api.Post("/tickets", hdl.Create)
	api.Get("/tickets", hdl.List)
	api.Get("/tickets/:id", hdl.Get)
	api.Patch("/tickets/:id", hdl.Update)
	api.Get("/tickets/:id/events", hdl.Events)
	api.Post("/tickets/:id/approvals", hdl.DecideApproval)
}
