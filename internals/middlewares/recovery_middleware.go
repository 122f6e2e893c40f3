package middlewares

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// RecoveryMiddleware menangkap panic; error diteruskan ke ErrorHandler (500 InternalError).
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logrus.WithFields(logrus.Fields{
				"reqid":  c.Locals("reqid"),
				"method": c.Method(),
				"path":   c.Path(),
				"panic":  e,
			}).Error("🔥 panic\n" + string(debug.Stack()))
		},
	})
}
