package listview

import (
	"strings"
	"time"
)

// 閾値未設定の商品に適用するデフォルトの最低在庫
const DefaultMinStock = 5

// Predicateはレコードに対する純粋な真偽テスト。
// 日付系の判定が評価時刻に依存するため、nowは必ず引数で受け取る
// （グローバルな時計を読まない。テストで固定時刻を注入できるように）。
type Predicate[T Record] func(rec T, now time.Time) bool

// TextSearchは指定フィールドのいずれかが、大文字小文字を無視して
// queryを部分文字列として含むとき真。空クエリは常に真（絞り込みなし）。
func TextSearch[T Record](query string, fields []string) Predicate[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(rec T, _ time.Time) bool {
		if q == "" {
			return true
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(rec.Field(f)), q) {
				return true
			}
		}
		return false
	}
}

// BelowMinStockは在庫が閾値以下のとき真。
// レコード側に閾値がなければdefaultThresholdを使う（0以下なら定数デフォルト）。
// 在庫情報を持たないレコードは一致しない（エラーにしない）。
func BelowMinStock[T Record](defaultThreshold int64) Predicate[T] {
	if defaultThreshold <= 0 {
		defaultThreshold = DefaultMinStock
	}
	return func(rec T, _ time.Time) bool {
		s, ok := any(rec).(Stockable)
		if !ok {
			return false
		}
		threshold, set := s.MinStockThreshold()
		if !set {
			threshold = defaultThreshold
		}
		return s.StockQuantity() <= threshold
	}
}

// ExpiringWithinは期限が設定済みで、nowより後かつnow+days以内のとき真。
// 期限切れ（now以前）は「もうすぐ切れる」には含めない。
func ExpiringWithin[T Record](days int) Predicate[T] {
	return func(rec T, now time.Time) bool {
		e, ok := any(rec).(Expirable)
		if !ok {
			return false
		}
		at, set := e.ExpiresAt()
		if !set {
			return false
		}
		limit := now.AddDate(0, 0, days)
		return at.After(now) && !at.After(limit)
	}
}

// Expiredは期限が設定済みでnow以前のとき真。
func Expired[T Record]() Predicate[T] {
	return func(rec T, now time.Time) bool {
		e, ok := any(rec).(Expirable)
		if !ok {
			return false
		}
		at, set := e.ExpiresAt()
		if !set {
			return false
		}
		return !at.After(now)
	}
}

// Inactiveは無効化済みレコードのとき真。
func Inactive[T Record]() Predicate[T] {
	return func(rec T, _ time.Time) bool {
		return !rec.RecordActive()
	}
}

// Categoryは一覧画面のクイックフィルタ。同時に1つだけ有効（排他）。
type Category string

const (
	CategoryAll      Category = "all"
	CategoryLowStock Category = "lowStock"
	CategoryExpiring Category = "expiring"
	CategoryExpired  Category = "expired"
	CategoryInactive Category = "inactive"
)

func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryAll, CategoryLowStock, CategoryExpiring, CategoryExpired, CategoryInactive:
		return Category(s), true
	case "":
		return CategoryAll, true
	default:
		return "", false
	}
}

// categoryPredicateはカテゴリに対応する述語を返す。allはok=false（絞り込みなし）。
func categoryPredicate[T Record](c Category, expiryWarnDays int, defaultMinStock int64) (Predicate[T], bool) {
	switch c {
	case CategoryLowStock:
		return BelowMinStock[T](defaultMinStock), true
	case CategoryExpiring:
		return ExpiringWithin[T](expiryWarnDays), true
	case CategoryExpired:
		return Expired[T](), true
	case CategoryInactive:
		return Inactive[T](), true
	default:
		return nil, false
	}
}
