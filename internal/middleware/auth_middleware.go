package middleware

import (
	"strings"

	"erp-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localUserID = "user_id"
	localRole   = "role"
	localScope  = "admin_scope"
)

// Auth validates the bearer session token and stores the caller's id and
// role in the request context.
func Auth(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		// 1. Read the token from the Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("missing bearer token")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		// 2. Parse and validate the token
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return apperr.Unauthorized("token is invalid or expired")
		}

		// 3. Keep the claims the handlers need
		id, ok := claims["user_id"].(float64)
		if !ok || id <= 0 {
			return apperr.Unauthorized("token has no user")
		}
		role, _ := claims["role"].(string)
		c.Locals(localUserID, uint(id))
		c.Locals(localRole, role)

		return c.Next()
	}
}

// UserID returns the authenticated caller set by Auth.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}
