package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogMiddleware tags each request with an id (reusing the caller's
// X-Request-ID when sent) and logs it once the handler chain returns.
func RequestLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)
		c.Locals("request_id", requestID)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the app's error handler pick the status before we log it.
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		entry := logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    time.Since(start).String(),
		})
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request served")
		}
		return nil
	}
}
