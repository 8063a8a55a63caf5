package middleware

import (
	"erp-backend/internal/access"
	"erp-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// AdminSection resolves the caller's admin scope from the database and lets
// the request through only when the scope may open section. The resolved
// scope is kept for the handler.
func AdminSection(resolver *access.Resolver, section string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Resolve the scope fresh on every request
		scope, err := resolver.Resolve(c.UserContext(), UserID(c))
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.Unauthorized("session user no longer exists")
			}
			return err
		}

		// 2. Check the section against the scope
		if !access.CanAccessAdminSection(scope, section) {
			return apperr.Forbidden("access denied: no access to " + section)
		}

		c.Locals(localScope, scope)
		return c.Next()
	}
}

// Scope returns the admin scope stored by AdminSection.
func Scope(c *fiber.Ctx) *access.AdminScope {
	scope, _ := c.Locals(localScope).(*access.AdminScope)
	return scope
}
