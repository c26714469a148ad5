package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/velostore/storefront/pkg/auth"
)

// AuthMiddleware validates JWT tokens
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		setUserContext(c, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware validates the token if present but doesn't require
// it. Anonymous and preview traffic flows through untouched.
func OptionalAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := auth.ValidateToken(parts[1]); err == nil {
				setUserContext(c, claims)
			}
		}

		return c.Next()
	}
}

// setUserContext stores the verified identity in locals and forwards it to
// backend services as headers.
func setUserContext(c *fiber.Ctx, claims *auth.Claims) {
	c.Locals("user_id", claims.Subject)
	c.Locals("email", claims.Email)
	c.Locals("role", claims.Role)

	c.Request().Header.Set("X-User-Id", claims.Subject)
	c.Request().Header.Set("X-User-Email", claims.Email)
	c.Request().Header.Set("X-User-Name", claims.Name)
}
