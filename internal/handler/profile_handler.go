package handler

import (
	"erp-backend/internal/middleware"
	"erp-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profiles *usecase.ProfileUsecase
}

func NewProfileHandler(profiles *usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) UpdateOwn(c *fiber.Ctx) error {
	var req usecase.UpdateProfileInput
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.profiles.UpdateOwnProfile(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return ok(c, "Profile updated", p)
}

func (h *ProfileHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req usecase.ChangeStatusInput
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.profiles.ChangeStatus(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Employment status updated", p)
}

func (h *ProfileHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req usecase.ChangeRoleInput
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.profiles.ChangeRole(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Role updated", p)
}

// Scope returns the admin scope resolved by the AdminSection middleware.
func (h *ProfileHandler) Scope(c *fiber.Ctx) error {
	return ok(c, "Admin scope", middleware.Scope(c))
}
