package listview

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedNow() time.Time { return date(2024, 6, 1) }

func newTestEngine() *Engine[prodRec] {
	return NewEngine[prodRec](Options{
		SearchFields: []string{"name"},
		PageSize:     20,
		Now:          fixedNow,
	})
}

func nProducts(n int) []prodRec {
	out := make([]prodRec, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, prodRec{
			id:        fmt.Sprintf("p%03d", i),
			tenant:    "m1",
			name:      fmt.Sprintf("item %d", i),
			stock:     100,
			active:    true,
			updatedAt: date(2024, 1, 1).AddDate(0, 0, i),
		})
	}
	return out
}

func TestEngine_VisibleIsPrefixOfFiltered(t *testing.T) {
	e := newTestEngine()
	assert.NoError(t, e.Load(nProducts(55)))

	assert.Equal(t, 55, e.FilteredLen())
	assert.Len(t, e.Visible(), 20)
	assert.True(t, e.HasMore())

	// 可視スライスは絞り込み済みリストの先頭と一致する
	full := Filter(e.store.All(), FilterParams{Query: "", Fields: []string{"name"}, Category: CategoryAll, ExpiryWarnDays: DefaultExpiryWarnDays, Now: fixedNow()})
	assert.Equal(t, ids(full[:20]), ids(e.Visible()))
}

func TestEngine_GrowThenFilterChangeResetsWindow(t *testing.T) {
	e := newTestEngine()
	assert.NoError(t, e.Load(nProducts(55)))

	assert.True(t, e.Grow())
	assert.Len(t, e.Visible(), 40)

	// クエリ変更でウィンドウは初期サイズへ戻る
	e.SetQuery("item 1")
	assert.LessOrEqual(t, len(e.Visible()), 20)

	// 同じクエリをもう一度設定してもリセットされない
	assert.True(t, e.Grow() || !e.HasMore())
	before := len(e.Visible())
	e.SetQuery("item 1")
	assert.Equal(t, before, len(e.Visible()))
}

func TestEngine_LoadFailureKeepsState(t *testing.T) {
	e := newTestEngine()
	assert.NoError(t, e.Load(nProducts(3)))

	err := e.Load([]prodRec{
		{id: "x", tenant: "m1", active: true},
		{id: "y", tenant: "m2", active: true},
	})
	assert.ErrorIs(t, err, ErrTenantMismatch)
	assert.Equal(t, 3, e.FilteredLen())
}

// 変更成功後のUpsert/Removeで再フェッチせずに一覧へ反映される
func TestEngine_MutationReconciliation(t *testing.T) {
	e := newTestEngine()
	assert.NoError(t, e.Load(nProducts(3)))

	e.Upsert(prodRec{
		id: "p999", tenant: "m1", name: "fresh", stock: 1, active: true,
		updatedAt: date(2024, 5, 1),
	})
	assert.Equal(t, 4, e.FilteredLen())
	// 一番新しいので先頭に来る
	assert.Equal(t, "p999", e.Visible()[0].RecordID())

	e.Remove("p999")
	assert.Equal(t, 3, e.FilteredLen())

	// 存在しないIDの削除は無害
	e.Remove("ghost")
	assert.Equal(t, 3, e.FilteredLen())
}

func TestEngine_CategorySwitching(t *testing.T) {
	e := newTestEngine()
	records := []prodRec{
		{id: "1", tenant: "m1", name: "low", stock: 2, minStock: i64(5), active: true},
		{id: "2", tenant: "m1", name: "ok", stock: 10, minStock: i64(5), active: true},
		{id: "3", tenant: "m1", name: "off", stock: 1, minStock: i64(5), active: false},
	}
	assert.NoError(t, e.Load(records))

	e.SetCategory(CategoryLowStock)
	assert.Equal(t, []string{"1"}, ids(e.Visible()))

	e.SetCategory(CategoryInactive)
	assert.Equal(t, []string{"3"}, ids(e.Visible()))

	e.SetCategory(CategoryAll)
	assert.Equal(t, 2, e.FilteredLen())
}

// サジェストはフィルタ・ページ状態から独立して全有効レコードを見る
func TestEngine_SuggestIgnoresFilters(t *testing.T) {
	e := newTestEngine()
	records := []prodRec{
		{id: "1", tenant: "m1", name: "espresso", stock: 2, active: true},
		{id: "2", tenant: "m1", name: "espresso cup", stock: 50, active: true},
	}
	assert.NoError(t, e.Load(records))

	e.SetQuery("cup")
	e.SetCategory(CategoryLowStock)
	assert.Equal(t, 0, e.FilteredLen())

	got := e.Suggest("espresso")
	assert.Len(t, got, 2)
}
