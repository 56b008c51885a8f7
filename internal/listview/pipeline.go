package listview

import (
	"sort"
	"strings"
	"time"
)

// Filterに渡す条件一式
type FilterParams struct {
	Query  string
	Fields []string

	Category Category

	//expiringカテゴリの判定日数
	ExpiryWarnDays int
	//lowStockカテゴリで閾値未設定の商品に使うデフォルト
	DefaultMinStock int64

	//評価時刻（日付述語用）
	Now time.Time
}

// Filterはストアの全件から絞り込み済みリストを導出する。
// ルール:
//   - カテゴリがinactive以外なら有効レコードのみ残す
//     （inactiveカテゴリだけが、常時かかるactiveフィルタを外す。仕様どおりの挙動）
//   - クエリが空でなければテキスト検索を適用
//   - all以外のカテゴリ述語を適用
//   - updatedAt降順、同値はID昇順で並べる（決定的な順序にするため）
//
// 差分更新はせず毎回全量を計算し直す。1テナントのカタログ件数なら十分速い。
func Filter[T Record](records []T, p FilterParams) []T {
	text := TextSearch[T](p.Query, p.Fields)
	catPred, hasCat := categoryPredicate[T](p.Category, p.ExpiryWarnDays, p.DefaultMinStock)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if p.Category != CategoryInactive && !rec.RecordActive() {
			continue
		}
		if !text(rec, p.Now) {
			continue
		}
		if hasCat && !catPred(rec, p.Now) {
			continue
		}
		out = append(out, rec)
	}

	sortByRecency(out)
	return out
}

// updatedAt降順、同値はID昇順。updatedAtゼロ値は最古として末尾に回る。
func sortByRecency[T Record](records []T) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := records[i].RecordUpdatedAt(), records[j].RecordUpdatedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return records[i].RecordID() < records[j].RecordID()
	})
}

// Suggestは検索入力中のオートコンプリート用。
// 現在のフィルタ状態とは無関係に、有効レコード全件からストア順で
// 先頭limit件の部分一致を返す。空・空白クエリは空を返す。
func Suggest[T Record](records []T, query string, fields []string, limit int) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	var out []T
	for _, rec := range records {
		if !rec.RecordActive() {
			continue
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(rec.Field(f)), q) {
				out = append(out, rec)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out
}
