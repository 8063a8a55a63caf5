package handler

import (
	"erp-backend/internal/middleware"
	"erp-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth     *usecase.AuthUsecase
	profiles *usecase.ProfileUsecase
}

func NewAuthHandler(auth *usecase.AuthUsecase, profiles *usecase.ProfileUsecase) *AuthHandler {
	return &AuthHandler{auth: auth, profiles: profiles}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, p, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"data":    p,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := h.profiles.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, "Current profile", p)
}
