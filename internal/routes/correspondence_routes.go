package routes

import (
	"erp-backend/internal/handler"
	"erp-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupCorrespondenceRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewCorrespondenceHandler(d.Correspondence)

	api := app.Group("/api/correspondence", middleware.Auth(d.JWTSecret))
	api.Post("/records", hdl.Create)
	api.Get("/records", hdl.List)
	api.Get("/records/:id", hdl.Get)
	api.Patch("/records/:id", hdl.Update)
	api.Get("/records/:id/documents", hdl.Documents)
	api.Post("/records/:id/documents", hdl.Upload)
	api.Post("/records/:id/submit", hdl.Submit)
	api.Post("/records/:id/approvals", hdl.Decide)
}
