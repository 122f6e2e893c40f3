// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesantren_backend/internals/configs"
	statsRoute "pesantren_backend/internals/features/dashboard/stats/route"
	signatureRoute "pesantren_backend/internals/features/files/signature/route"
	signatureService "pesantren_backend/internals/features/files/signature/service"
	recordRoute "pesantren_backend/internals/features/records/route"
	authRoute "pesantren_backend/internals/features/users/auth/route"
	authService "pesantren_backend/internals/features/users/auth/service"
	"pesantren_backend/internals/route/action"
)

var startTime = time.Now()

type Deps struct {
	DB     *gorm.DB
	Config *configs.Config
	Signer signatureService.Signer
	// Tokens nil = AUTH_ISSUE_TOKEN mati; login tidak menerbitkan JWT.
	Tokens *authService.TokenIssuer
	Loc    *time.Location
}

// SetupRoutes: semua action API di satu path /api (StrictRouting mati, /api/ ikut).
func SetupRoutes(app *fiber.App, deps Deps) *action.Router {
	startTime = time.Now()
	r := action.New()

	BaseRoutes(app, r, deps.DB)

	var issuer *authService.TokenIssuer
	// wajib token tanpa menerbitkan token = semua orang terkunci
	if deps.Config.AuthIssueToken || deps.Config.AuthRequireToken {
		issuer = deps.Tokens
	}
	authRoute.AuthRoutes(r, deps.DB, issuer)

	recordRoute.RecordRoutes(r, deps.DB, recordRoute.Options{
		AuditEnabled:       deps.Config.AuditEnabled,
		StorePlainPassword: deps.Config.StorePlainPassword,
	})
	statsRoute.StatsRoutes(r, deps.DB, deps.Loc)
	signatureRoute.SignatureRoutes(r, deps.Signer)

	app.All("/api", r.Dispatch)

	logrus.WithField("actions", r.Actions()).Info("✅ API actions terdaftar")
	return r
}
