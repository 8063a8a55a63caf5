package handler

import (
	"erp-backend/internal/middleware"
	"erp-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type HelpDeskHandler struct {
	tickets *usecase.HelpDeskUsecase
}

func NewHelpDeskHandler(tickets *usecase.HelpDeskUsecase) *HelpDeskHandler {
	return &HelpDeskHandler{tickets: tickets}
}

func (h *HelpDeskHandler) Create(c *fiber.Ctx) error {
	var req usecase.CreateTicketInput
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.tickets.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return created(c, "Ticket created", t)
}

func (h *HelpDeskHandler) List(c *fiber.Ctx) error {
	list, err := h.tickets.List(c.UserContext(), middleware.UserID(c), c.Query("scope"), c.Query("status"))
	if err != nil {
		return err
	}
	return ok(c, "Tickets", list)
}

func (h *HelpDeskHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.tickets.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Ticket", t)
}

func (h *HelpDeskHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req usecase.UpdateTicketInput
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.tickets.Update(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Ticket updated", t)
}

func (h *HelpDeskHandler) Events(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.tickets.Events(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Ticket events", list)
}

func (h *HelpDeskHandler) DecideApproval(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req usecase.DecideApprovalInput
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.tickets.DecideApproval(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Approval recorded", t)
}
