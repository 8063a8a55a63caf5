package handler

import (
	"fmt"

	"erp-backend/internal/apperr"
	"erp-backend/internal/middleware"
	"erp-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LeaveHandler struct {
	leave *usecase.LeaveUsecase
}

func NewLeaveHandler(leave *usecase.LeaveUsecase) *LeaveHandler {
	return &LeaveHandler{leave: leave}
}

func (h *LeaveHandler) Submit(c *fiber.Ctx) error {
	var req usecase.SubmitLeaveInput
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.leave.Submit(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return created(c, "Leave request submitted", out)
}

// List returns the caller's own requests, or with scope=approvals the
// requests waiting on the caller.
func (h *LeaveHandler) List(c *fiber.Ctx) error {
	switch c.Query("scope", "mine") {
	case "mine":
		list, err := h.leave.ListMine(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return ok(c, "Leave requests", list)
	case "approvals":
		list, err := h.leave.ListForApprover(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return err
		}
		return ok(c, "Leave requests awaiting your approval", list)
	default:
		return apperr.Validation("scope", "scope must be mine or approvals")
	}
}

func (h *LeaveHandler) Decide(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req usecase.DecideLeaveInput
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.leave.Decide(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Decision recorded", out)
}

func (h *LeaveHandler) Lifecycle(c *fiber.Ctx) error {
	var req usecase.LifecycleInput
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.leave.Lifecycle(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return ok(c, res.Message, res.Request)
}

func (h *LeaveHandler) Balances(c *fiber.Ctx) error {
	list, err := h.leave.Balances(c.UserContext(), middleware.UserID(c), c.QueryInt("year", 0))
	if err != nil {
		return err
	}
	return ok(c, "Leave balances", list)
}

func (h *LeaveHandler) ExportBalances(c *fiber.Ctx) error {
	year := c.QueryInt("year", 0)
	data, err := h.leave.ExportBalances(c.UserContext(), middleware.UserID(c), year)
	if err != nil {
		return err
	}
	name := "leave-balances.xlsx"
	if year > 0 {
		name = fmt.Sprintf("leave-balances-%d.xlsx", year)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
