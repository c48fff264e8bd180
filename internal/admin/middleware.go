package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

const (
	tokenLocalsKey = "user"
	adminLocalsKey = "admin"
)

// JWT verifies the bearer token and stores it in locals under "user".
func JWT(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ContextKey:    tokenLocalsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if err.Error() == "Missing or malformed JWT" {
				return fiber.NewError(fiber.StatusUnauthorized, "Token required")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		},
	})
}

// RequireAdmin must run after JWT. It loads the admin named by the token and
// rejects unknown or disabled admins.
func RequireAdmin(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(tokenLocalsKey).(*jwt.Token)
		if !ok || token == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token required")
		}
		a, err := s.FromToken(c.UserContext(), token)
		if errors.Is(err, ErrInvalidClaims) || apperr.IsNotFound(err) {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized access")
		}
		if err != nil {
			return err
		}
		if !a.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized access")
		}
		SetCtx(c, a)
		return c.Next()
	}
}

func SetCtx(c *fiber.Ctx, a Admin) {
	c.Locals(adminLocalsKey, a)
}

// FromCtx returns the admin resolved by RequireAdmin.
func FromCtx(c *fiber.Ctx) (Admin, bool) {
	a, ok := c.Locals(adminLocalsKey).(Admin)
	return a, ok
}

// MustFromCtx is FromCtx for handlers that are only mounted behind RequireAdmin.
func MustFromCtx(c *fiber.Ctx) (Admin, error) {
	a, ok := FromCtx(c)
	if !ok {
		return Admin{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized access")
	}
	return a, nil
}
