// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	authModel "pesantren_backend/internals/features/users/auth/model"
)

var ErrUserNotFound = errors.New("user not found")

/* ====================== USER ====================== */

func FindUserByUsername(ctx context.Context, db *gorm.DB, username string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	err := db.WithContext(ctx).
		Select("id", "username", "password", "role", "fullname").
		Where("username = ?", username).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
