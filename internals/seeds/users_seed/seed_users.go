package users_seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pesantren_backend/internals/constants"
	"pesantren_backend/internals/features/records/registry"
	"pesantren_backend/internals/features/records/repository"
	authService "pesantren_backend/internals/features/users/auth/service"
)

type UserSeed struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Fullname string `json:"fullname"`
	NoHP     string `json:"no_hp"`
}

// SeedUsersFromJSON: user yang username-nya sudah ada dilewati.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, raw []byte) (int, error) {
	var inputs []UserSeed
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return 0, fmt.Errorf("decode users seed: %w", err)
	}

	repo := repository.NewRecordRepository(db)
	created := 0
	for _, data := range inputs {
		if !constants.IsKnownRole(data.Role) {
			return created, fmt.Errorf("seed user %s: %s", data.Username, constants.RoleError(data.Role))
		}
		var exists int64
		if err := db.WithContext(ctx).Table("users").Where("username = ?", data.Username).Count(&exists).Error; err != nil {
			return created, err
		}
		if exists > 0 {
			logrus.Infof("ℹ️ User '%s' sudah ada, dilewati.", data.Username)
			continue
		}

		// 🔐 hash password sebelum disimpan
		if _, err := repo.Save(ctx, registry.EntityUsers, repository.Record{
			"username": data.Username,
			"password": authService.HashPassword(data.Password),
			"role":     constants.NormalizeRole(data.Role),
			"fullname": data.Fullname,
			"no_hp":    data.NoHP,
		}); err != nil {
			return created, fmt.Errorf("seed user %s: %w", data.Username, err)
		}
		created++
	}
	logrus.Infof("✅ Seed users selesai: %d user baru", created)
	return created, nil
}
