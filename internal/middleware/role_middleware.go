package middleware

import (
	"erp-backend/internal/apperr"
	"erp-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

// MinRole lets the request through when the role in the session token ranks
// at least min. Handlers still re-check against the stored profile.
func MinRole(min model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localRole).(string)
		if !ok {
			return apperr.Forbidden("access denied: no role in session")
		}
		if !model.HasRoleOrHigher(model.Role(role), min) {
			return apperr.Forbidden("access denied: requires " + string(min) + " or higher")
		}
		return c.Next()
	}
}
