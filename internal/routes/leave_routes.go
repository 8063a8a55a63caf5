package routes

import (
	"erp-backend/internal/access"
	"erp-backend/internal/handler"
	"erp-backend/internal/middleware"
	"erp-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaveRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewLeaveHandler(d.Leave)

	api := app.Group("/api/leave", middleware.Auth(d.JWTSecret))
	api.Post("/requests", hdl.Submit)
	api.Get("/requests", hdl.List)
	api.Post("/requests/:id/decision", hdl.Decide)
	api.Post("/lifecycle", hdl.Lifecycle)
	api.Get("/balances", hdl.Balances)

	admin := app.Group("/api/admin/leave", middleware.Auth(d.JWTSecret), middleware.MinRole(model.RoleLead),
		middleware.AdminSection(d.Resolver, access.SectionReports))
	admin.Get("/balances/export", hdl.ExportBalances)
}
