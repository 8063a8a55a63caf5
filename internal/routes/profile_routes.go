package routes

import (
	"erp-backend/internal/access"
	"erp-backend/internal/handler"
	"erp-backend/internal/middleware"
	"erp-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewProfileHandler(d.Profiles)

	app.Put("/api/profile", middleware.Auth(d.JWTSecret), hdl.UpdateOwn)

	// Scope lookup for the admin console; leads get a scoped view.
	app.Get("/api/admin/scope", middleware.Auth(d.JWTSecret), middleware.MinRole(model.RoleLead),
		middleware.AdminSection(d.Resolver, access.SectionDashboard), hdl.Scope)

	admin := app.Group("/api/admin/profiles", middleware.Auth(d.JWTSecret), middleware.MinRole(model.RoleAdmin),
		middleware.AdminSection(d.Resolver, access.SectionProfiles))
	admin.Patch("/:id/status", hdl.ChangeStatus)
	admin.Patch("/:id/role", hdl.ChangeRole)
}
