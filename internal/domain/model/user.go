package model

import "time"

type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	//表示名
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//全端末ログアウト用。ログアウトで+1され、古いトークンを無効化する。
	TokenVersion int  `gorm:"not null;default:0" json:"-"`
	IsActive     bool `gorm:"not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
