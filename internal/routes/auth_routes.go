package routes

import (
	"erp-backend/internal/handler"
	"erp-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewAuthHandler(d.Auth, d.Profiles)

	api := app.Group("/api/auth")
	api.Post("/login", hdl.Login)
	api.Get("/me", middleware.Auth(d.JWTSecret), hdl.Me)
}
