package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "pesantren_backend/internals/helpers"
	"pesantren_backend/internals/helpers/apperror"
)

func limitReached(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return helper.JsonError(c, &apperror.Error{
			Code:    apperror.CodeTooManyRequests,
			Status:  fiber.StatusTooManyRequests,
			Message: message,
		})
	}
}

// Global limiter: untuk semua request API
func GlobalRateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: limitReached("❌ Terlalu banyak permintaan. Silakan coba lagi nanti."),
	})
}

// Rate limiter untuk action login (lebih ketat). Action lain di-skip.
func LoginRateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Query("action") != "login"
		},
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: limitReached("❌ Terlalu banyak percobaan login. Coba beberapa saat lagi."),
	})
}
