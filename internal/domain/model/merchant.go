package model

import (
	"time"

	"gorm.io/gorm"
)

// Merchantはテナント。全カタログデータはマーチャント単位にスコープされる。
type Merchant struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//作成したユーザー（オーナー）
	OwnerUserID string `gorm:"type:uuid;not null;index" json:"owner_user_id"`

	Phone    string `gorm:"type:varchar(30)" json:"phone"`
	Address  string `gorm:"type:varchar(500)" json:"address"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
