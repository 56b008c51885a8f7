package listview

import "time"

// 一覧エンジンが扱うレコードの最小契約。
// ProductやCustomerなど、テナントに属するエンティティが実装する。
type Record interface {
	// 一意のID（UUID文字列）
	RecordID() string
	// 所属テナント（マーチャント）のID
	RecordTenantID() string
	// 最終更新日時。ゼロ値は「最も古い」として扱う。
	RecordUpdatedAt() time.Time
	// 有効フラグ
	RecordActive() bool
	// 名前付きフィールドの参照。未定義のフィールドは "" を返す。
	Field(name string) string
}

// 在庫を持つレコード（Productなど）
type Stockable interface {
	StockQuantity() int64
	// 閾値が未設定なら ok=false（デフォルト値が適用される）
	MinStockThreshold() (threshold int64, ok bool)
}

// 期限を持つレコード（Productなど）
type Expirable interface {
	// 期限が未設定なら ok=false
	ExpiresAt() (at time.Time, ok bool)
}
