package handler

import (
	"erp-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// FileOpener turns a signed link token into a readable file path.
type FileOpener interface {
	Open(token string) (string, error)
}

type FileHandler struct {
	files FileOpener
}

func NewFileHandler(files FileOpener) *FileHandler {
	return &FileHandler{files: files}
}

func (h *FileHandler) Serve(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return apperr.Validation("token", "token is required")
	}
	path, err := h.files.Open(token)
	if err != nil {
		return err
	}
	return c.SendFile(path)
}
