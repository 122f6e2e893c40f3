package model

import "time"

// UserModel memetakan tabel users untuk kebutuhan login saja.
// CRUD users lewat executor generik (entity "users").
type UserModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Username      string    `gorm:"column:username"`
	Password      string    `gorm:"column:password"`
	PasswordPlain *string   `gorm:"column:password_plain"`
	Role          string    `gorm:"column:role"`
	Fullname      *string   `gorm:"column:fullname"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (UserModel) TableName() string {
	return "users"
}
