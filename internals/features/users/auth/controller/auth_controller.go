package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pesantren_backend/internals/features/users/auth/dto"
	"pesantren_backend/internals/features/users/auth/service"
	helper "pesantren_backend/internals/helpers"
	"pesantren_backend/internals/helpers/apperror"
)

var validateLogin = validator.New()

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

// POST /api?action=login  body: {username, password}
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.DecodeBody(c, &req); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)

	// field kosong diperlakukan sama dengan kredensial salah
	if req.Username == "" || req.Password == "" {
		return apperror.InvalidCredentials()
	}
	if err := validateLogin.Struct(req); err != nil {
		return apperror.BadRequest(err.Error())
	}

	resp, err := ac.Service.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonData(c, resp)
}
