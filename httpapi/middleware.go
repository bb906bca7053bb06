package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-hr-auth"
	"github.com/goliatone/go-hr-auth/middleware/jwtware"
)

// RequestLogger logs one line per request. Errors from the chain are
// rendered here through the app error handler so the logged status, and
// anything wrapping this middleware, sees the final response.
func RequestLogger(logger auth.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		}
		if ra, ok := jwtware.FromLocals(c); ok {
			args = append(args, "user", ra.Identity.Username)
		}

		logger.Info("request", args...)
		return nil
	}
}
