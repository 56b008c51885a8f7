package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	MerchantID string `gorm:"type:uuid;not null;index" json:"merchant_id"`

	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Category string `gorm:"type:varchar(100)" json:"category"`
	Brand    string `gorm:"type:varchar(100)" json:"brand"`
	Barcode  string `gorm:"type:varchar(64)" json:"barcode"`
	Unit     string `gorm:"type:varchar(20)" json:"unit"`

	//価格は最小通貨単位の整数（円ならそのまま、ドルならセント）
	Price int64 `gorm:"not null" json:"price"`
	Stock int64 `gorm:"not null" json:"stock"`

	//最低在庫の閾値。nilならマーチャント設定のデフォルトが適用される。
	MinStock *int64 `gorm:"column:min_stock" json:"min_stock"`

	//消費期限。期限管理しない商品はnil。
	ExpiryDate *time.Time `gorm:"index" json:"expiry_date"`

	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 検索・サジェスト対象になるフィールド名
var ProductSearchFields = []string{"name", "category", "brand", "barcode"}

// ---- listview.Record / Stockable / Expirable ----

func (p Product) RecordID() string           { return p.ID }
func (p Product) RecordTenantID() string     { return p.MerchantID }
func (p Product) RecordUpdatedAt() time.Time { return p.UpdatedAt }
func (p Product) RecordActive() bool         { return p.IsActive }

func (p Product) Field(name string) string {
	switch name {
	case "name":
		return p.Name
	case "category":
		return p.Category
	case "brand":
		return p.Brand
	case "barcode":
		return p.Barcode
	default:
		return ""
	}
}

func (p Product) StockQuantity() int64 { return p.Stock }

func (p Product) MinStockThreshold() (int64, bool) {
	if p.MinStock == nil {
		return 0, false
	}
	return *p.MinStock, true
}

func (p Product) ExpiresAt() (time.Time, bool) {
	if p.ExpiryDate == nil {
		return time.Time{}, false
	}
	return *p.ExpiryDate, true
}
