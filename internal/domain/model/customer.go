package model

import (
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	MerchantID string `gorm:"type:uuid;not null;index" json:"merchant_id"`

	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Address string `gorm:"type:varchar(500)" json:"address"`
	Note    string `gorm:"type:text" json:"note"`

	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

var CustomerSearchFields = []string{"name", "phone", "email"}

// ---- listview.Record ----

func (c Customer) RecordID() string           { return c.ID }
func (c Customer) RecordTenantID() string     { return c.MerchantID }
func (c Customer) RecordUpdatedAt() time.Time { return c.UpdatedAt }
func (c Customer) RecordActive() bool         { return c.IsActive }

func (c Customer) Field(name string) string {
	switch name {
	case "name":
		return c.Name
	case "phone":
		return c.Phone
	case "email":
		return c.Email
	default:
		return ""
	}
}
