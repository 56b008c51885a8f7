package listview

import "time"

const (
	DefaultPageSize       = 20
	DefaultSuggestLimit   = 5
	DefaultExpiryWarnDays = 30
)

// Optionsはエンジン1台分の設定。ゼロ値はデフォルトに落ちる。
type Options struct {
	// 検索・サジェスト対象のフィールド名（例: name, phone）
	SearchFields []string
	PageSize     int
	SuggestLimit int
	// 「もうすぐ期限切れ」と判定する日数
	ExpiryWarnDays int
	// lowStockカテゴリで閾値未設定の商品に使うデフォルト
	DefaultMinStock int64
	// 評価時刻。テストで固定時刻を注入する。nilならtime.Now。
	Now func() time.Time
}

// Engineは一覧画面1つ分の状態を持つ:
// ストア + 現在のクエリ/カテゴリ + 導出済みリスト + ページウィンドウ。
// filter→sort→page の導出はすべて同期・純粋計算で、内部ロックは持たない。
// 複数ゴルーチンから触るならホスト側で直列化すること。
type Engine[T Record] struct {
	store    *Store[T]
	opts     Options
	query    string
	category Category
	filtered []T
	window   *Window
	loaded   bool
}

func NewEngine[T Record](opts Options) *Engine[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = DefaultSuggestLimit
	}
	if opts.ExpiryWarnDays <= 0 {
		opts.ExpiryWarnDays = DefaultExpiryWarnDays
	}
	if opts.DefaultMinStock <= 0 {
		opts.DefaultMinStock = DefaultMinStock
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine[T]{
		store:    NewStore[T](),
		opts:     opts,
		category: CategoryAll,
		window:   NewWindow(opts.PageSize),
	}
}

// Loadはフェッチ結果でストアを総入れ替えし、リストを再導出してウィンドウを戻す。
func (e *Engine[T]) Load(records []T) error {
	if err := e.store.Load(records); err != nil {
		return err
	}
	e.loaded = true
	e.refresh()
	return nil
}

// Loadedは一度でもLoadに成功していればtrue。
func (e *Engine[T]) Loaded() bool {
	return e.loaded
}

// Upsertは作成/更新の成功後に1件だけローカルへ反映する（再フェッチ不要）。
func (e *Engine[T]) Upsert(rec T) {
	e.store.Upsert(rec)
	e.refresh()
}

// Removeは削除の成功後に1件だけローカルから除く。
func (e *Engine[T]) Remove(id string) {
	e.store.Remove(id)
	e.refresh()
}

// SetQueryは検索文字列を変更する。同じ値なら再計算しない
// （ウィンドウを無駄にリセットしないため）。
func (e *Engine[T]) SetQuery(q string) {
	if q == e.query {
		return
	}
	e.query = q
	e.refresh()
}

// SetCategoryはクイックフィルタを切り替える。同じ値なら再計算しない。
func (e *Engine[T]) SetCategory(c Category) {
	if c == e.category {
		return
	}
	e.category = c
	e.refresh()
}

func (e *Engine[T]) Query() string      { return e.query }
func (e *Engine[T]) Category() Category { return e.category }

// Visibleは現在見えているスライス（絞り込み済みリストの先頭部分）を返す。
func (e *Engine[T]) Visible() []T {
	n := e.window.Visible(len(e.filtered))
	return e.filtered[:n]
}

// HasMoreはまだ表示していない残りがあるかどうか。
func (e *Engine[T]) HasMore() bool {
	return e.window.HasMore(len(e.filtered))
}

// FilteredLenは絞り込み後の総件数。
func (e *Engine[T]) FilteredLen() int {
	return len(e.filtered)
}

// Growはウィンドウを1ページ分進め、進んだかどうかを返す。
func (e *Engine[T]) Grow() bool {
	return e.window.Grow(len(e.filtered))
}

// Suggestは全有効レコードからオートコンプリート候補を返す。
// 現在のクエリ・カテゴリ・ページ状態には一切影響されない。
func (e *Engine[T]) Suggest(query string) []T {
	return Suggest(e.store.All(), query, e.opts.SearchFields, e.opts.SuggestLimit)
}

// ストア・クエリ・カテゴリのどれかが変わったら全量を導出し直し、
// ウィンドウを初期サイズへ戻す。
func (e *Engine[T]) refresh() {
	e.filtered = Filter(e.store.All(), FilterParams{
		Query:           e.query,
		Fields:          e.opts.SearchFields,
		Category:        e.category,
		ExpiryWarnDays:  e.opts.ExpiryWarnDays,
		DefaultMinStock: e.opts.DefaultMinStock,
		Now:             e.opts.Now(),
	})
	e.window.Reset()
}
