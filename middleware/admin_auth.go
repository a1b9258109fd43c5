// middleware/admin_auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AdminAuthMiddleware accepts only requests whose bearer token equals the admin
// user id. A missing header is 401; a wrong token, or no admin configured, is 403.
func AdminAuthMiddleware(adminUserID string) fiber.Handler {
	if adminUserID == "" {
		logrus.Warn("⚠️  ADMIN_USER_ID is not set — admin routes will reject every request")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logrus.Warnf("🚫 [ADMIN_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No authorization header",
			})
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if adminUserID == "" || token != adminUserID {
			logrus.Warnf("❌ [ADMIN_AUTH] Invalid admin token for %s", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}

		return c.Next()
	}
}
