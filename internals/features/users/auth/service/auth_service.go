// internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/users/auth/dto"
	authRepo "pesantren_backend/internals/features/users/auth/repository"
	"pesantren_backend/internals/helpers/apperror"
)

const qryTimeoutLogin = 2 * time.Second

// AuthService: cek username + hash password. Tokens nil = tidak menerbitkan JWT
// (client cukup menyimpan objek user).
type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenIssuer
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

// ========================== LOGIN ==========================
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	qctx, cancel := context.WithTimeout(ctx, qryTimeoutLogin)
	defer cancel()

	user, err := authRepo.FindUserByUsername(qctx, s.DB, username)
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			logrus.WithField("username", username).Info("🔒 login gagal: user tidak ditemukan")
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.StoreError(err)
	}

	if !CheckPasswordHash(user.Password, req.Password) {
		logrus.WithField("username", username).Info("🔒 login gagal: password salah")
		return nil, apperror.InvalidCredentials()
	}

	resp := &dto.LoginResponse{LoginUser: dto.LoginUser{
		Username: user.Username,
		Role:     user.Role,
	}}
	if user.Fullname != nil {
		resp.Fullname = *user.Fullname
	}

	if s.Tokens != nil {
		token, exp, err := s.Tokens.Issue(resp.LoginUser)
		if err != nil {
			return nil, err
		}
		resp.Token = token
		resp.ExpiresAt = exp.Unix()
	}

	logrus.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("✅ login berhasil")
	return resp, nil
}
