package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
	"github.com/sirupsen/logrus"
)

// RequestContext: Request-ID + timeout context (selaras dengan statement_timeout di DB).
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals("reqid", id)

		start := time.Now()
		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}

		err := c.Next()
		logrus.WithFields(logrus.Fields{
			"reqid":  id,
			"method": c.Method(),
			"action": c.Query("action"),
			"type":   c.Query("type"),
			"dur":    time.Since(start).String(),
		}).Debug("[REQ]")
		return err
	}
}
