package middleware

import (
	"errors"

	"erp-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler turns errors returned by handlers into JSON responses. Internal
// errors are logged; errors from outside apperr get a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		kind := apperr.KindOf(err)
		body := fiber.Map{"error": "internal server error", "kind": kind}
		var ae *apperr.Error
		if errors.As(err, &ae) {
			body["error"] = ae.Message
			if ae.Field != "" {
				body["field"] = ae.Field
			}
		}
		if kind == apperr.KindInternal {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Uint("user_id", UserID(c)),
				zap.Error(err),
			)
		}
		return c.Status(apperr.HTTPStatus(kind)).JSON(body)
	}
}
