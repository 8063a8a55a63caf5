package handler

import (
	"io"

	"erp-backend/internal/apperr"
	"erp-backend/internal/middleware"
	"erp-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type CorrespondenceHandler struct {
	records *usecase.CorrespondenceUsecase
}

func NewCorrespondenceHandler(records *usecase.CorrespondenceUsecase) *CorrespondenceHandler {
	return &CorrespondenceHandler{records: records}
}

func (h *CorrespondenceHandler) Create(c *fiber.Ctx) error {
	var req usecase.CreateCorrespondenceInput
	if err := bind(c, &req); err != nil {
		return err
	}
	rec, err := h.records.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return created(c, "Correspondence recorded", rec)
}

func (h *CorrespondenceHandler) List(c *fiber.Ctx) error {
	list, err := h.records.List(c.UserContext(), middleware.UserID(c), usecase.ListCorrespondenceInput{
		Status:    c.Query("status"),
		Direction: c.Query("direction"),
	})
	if err != nil {
		return err
	}
	return ok(c, "Correspondence records", list)
}

func (h *CorrespondenceHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.records.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Correspondence record", detail)
}

func (h *CorrespondenceHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req usecase.UpdateCorrespondenceInput
	if err := bind(c, &req); err != nil {
		return err
	}
	rec, err := h.records.Update(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Correspondence updated", rec)
}

func (h *CorrespondenceHandler) Documents(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	docs, err := h.records.Documents(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Documents", docs)
}

// Upload takes a multipart form with fields kind, change_summary and file.
func (h *CorrespondenceHandler) Upload(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("file", "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.Internal("failed to read upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return apperr.Internal("failed to read upload", err)
	}

	rec, err := h.records.Upload(c.UserContext(), middleware.UserID(c), id, usecase.UploadDocumentInput{
		Kind:          c.FormValue("kind"),
		FileName:      fh.Filename,
		Data:          data,
		ChangeSummary: c.FormValue("change_summary"),
	})
	if err != nil {
		return err
	}
	return created(c, "Document uploaded", rec)
}

func (h *CorrespondenceHandler) Submit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	rec, err := h.records.Submit(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Submitted for approval", rec)
}

func (h *CorrespondenceHandler) Decide(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req usecase.CorrespondenceDecisionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	rec, err := h.records.Decide(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return err
	}
	return ok(c, "Decision recorded", rec)
}
