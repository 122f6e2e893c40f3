// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"gorm.io/gorm"

	"pesantren_backend/internals/features/users/auth/controller"
	"pesantren_backend/internals/features/users/auth/service"
	"pesantren_backend/internals/route/action"
)

// AuthRoutes: action login. tokens nil = JWT tidak diterbitkan.
func AuthRoutes(r *action.Router, db *gorm.DB, tokens *service.TokenIssuer) {
	ctrl := controller.NewAuthController(service.NewAuthService(db, tokens))

	r.Post("login", ctrl.Login)
}
