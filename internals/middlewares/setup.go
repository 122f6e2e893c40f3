package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/sirupsen/logrus"

	"pesantren_backend/internals/configs"
	authService "pesantren_backend/internals/features/users/auth/service"
	"pesantren_backend/internals/middlewares/logger"
	"pesantren_backend/internals/middlewares/session"
)

// SetupMiddlewares memasang middleware global. Urutan penting: recover paling luar,
// request-id sebelum logger, session terakhir.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config, tokens *authService.TokenIssuer) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(cfg.RequestTimeout()))
	app.Use(logger.LoggerMiddleware(logrus.StandardLogger().Out))
	app.Use(CorsMiddleware(cfg.CORSOrigins))

	// ⚙️ performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	if cfg.RateLimitEnabled {
		window := time.Duration(cfg.RateLimitWindowSec) * time.Second
		app.Use(GlobalRateLimiter(cfg.RateLimitMax, window))
		app.Use(LoginRateLimiter(cfg.LoginRateLimitMax, window))
	}

	if cfg.AuthRequireToken || cfg.AuthIssueToken {
		app.Use(session.SessionToken(session.Options{Tokens: tokens, Required: cfg.AuthRequireToken}))
	}
}
