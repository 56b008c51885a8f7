package listview

import (
	"time"
)

// =====================
// テスト用レコード
// =====================

// 在庫・期限を持たないレコード（Customer相当）
type custRec struct {
	id        string
	tenant    string
	updatedAt time.Time
	active    bool
	fields    map[string]string
}

func (r custRec) RecordID() string           { return r.id }
func (r custRec) RecordTenantID() string     { return r.tenant }
func (r custRec) RecordUpdatedAt() time.Time { return r.updatedAt }
func (r custRec) RecordActive() bool         { return r.active }
func (r custRec) Field(name string) string   { return r.fields[name] }

// 在庫・期限を持つレコード（Product相当）
type prodRec struct {
	id        string
	tenant    string
	updatedAt time.Time
	active    bool
	name      string
	stock     int64
	minStock  *int64
	expiry    *time.Time
}

func (r prodRec) RecordID() string           { return r.id }
func (r prodRec) RecordTenantID() string     { return r.tenant }
func (r prodRec) RecordUpdatedAt() time.Time { return r.updatedAt }
func (r prodRec) RecordActive() bool         { return r.active }

func (r prodRec) Field(name string) string {
	if name == "name" {
		return r.name
	}
	return ""
}

func (r prodRec) StockQuantity() int64 { return r.stock }

func (r prodRec) MinStockThreshold() (int64, bool) {
	if r.minStock == nil {
		return 0, false
	}
	return *r.minStock, true
}

func (r prodRec) ExpiresAt() (time.Time, bool) {
	if r.expiry == nil {
		return time.Time{}, false
	}
	return *r.expiry, true
}

func i64(v int64) *int64 { return &v }

func tp(t time.Time) *time.Time { return &t }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
