package model

import (
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
	InvoiceStatusVoid   InvoiceStatus = "VOID"
)

type Invoice struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	MerchantID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoice_merchant_number" json:"merchant_id"`
	CustomerID string `gorm:"type:uuid;not null;index" json:"customer_id"`

	//マーチャント設定の連番から振られる（例: INV-0042）。
	//連番はマーチャントごとなので一意性もマーチャント単位。
	Number string `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoice_merchant_number" json:"number"`

	Status InvoiceStatus `gorm:"type:varchar(20);not null;default:'ISSUED'" json:"status"`
	Total  int64         `gorm:"not null" json:"total"`

	IssuedAt  time.Time      `gorm:"not null" json:"issued_at"`
	PaidAt    *time.Time     `json:"paid_at"`
	VoidedAt  *time.Time     `json:"voided_at"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines"`
}

// 明細は発行時点の商品情報のスナップショットを持つ。
// 後から商品名や価格が変わっても請求書は変わらない。
type InvoiceLine struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID string `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID string `gorm:"type:uuid;not null;index" json:"product_id"`

	ProductName string `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice   int64  `gorm:"not null" json:"unit_price"`
	Quantity    int64  `gorm:"not null" json:"quantity"`
	LineTotal   int64  `gorm:"not null" json:"line_total"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
