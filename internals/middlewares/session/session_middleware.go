// internals/middlewares/session/session_middleware.go
package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	authService "pesantren_backend/internals/features/users/auth/service"
	helper "pesantren_backend/internals/helpers"
	"pesantren_backend/internals/helpers/apperror"
)

// Action yang selalu boleh tanpa token.
var publicActions = map[string]struct{}{
	"ping":  {},
	"login": {},
}

type Options struct {
	Tokens   *authService.TokenIssuer
	Required bool
}

// SessionToken memverifikasi JWT sesi. Required=false: token hanya dipakai untuk
// mengisi actor kalau ada dan valid; request tanpa token tetap jalan.
func SessionToken(opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// "/", "/health" bukan bagian API
		if opts.Tokens == nil || !strings.HasPrefix(c.Path(), "/api") {
			return c.Next()
		}
		if _, ok := publicActions[c.Query("action")]; ok {
			return c.Next()
		}

		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			if opts.Required {
				return apperror.Unauthorized("token sesi tidak ada")
			}
			return c.Next()
		}

		claims, err := opts.Tokens.Parse(raw)
		if err != nil {
			if opts.Required {
				logrus.WithField("reqid", c.Locals("reqid")).Info("🔒 token sesi ditolak")
				return apperror.Unauthorized("token sesi tidak valid atau kedaluwarsa")
			}
			return c.Next()
		}

		helper.SetRawAccessToken(c, raw)
		c.Locals(helper.LocActor, claims.Subject)
		return c.Next()
	}
}
