package model

import "time"

// マーチャントごとの設定。オンボーディング時にデフォルト値で作られる。
type MerchantSettings struct {
	MerchantID string `gorm:"type:uuid;primaryKey" json:"merchant_id"`

	//通貨コード（ISO 4217）
	Currency string `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`

	//商品側で閾値未設定のときに使う最低在庫
	DefaultMinStock int64 `gorm:"not null;default:5" json:"default_min_stock"`

	//「もうすぐ期限切れ」と警告する日数
	ExpiryWarnDays int `gorm:"not null;default:30" json:"expiry_warn_days"`

	//請求書番号のプレフィックスと連番
	InvoicePrefix string `gorm:"type:varchar(10);not null;default:'INV'" json:"invoice_prefix"`
	InvoiceSeq    int64  `gorm:"not null;default:0" json:"invoice_seq"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
