package listview

// Windowは絞り込み済みリストの「見えている先頭部分」を管理する。
// 無限スクロール的に1ページずつ伸び、リストの識別が変わるたびにリセットされる。
type Window struct {
	pageSize int
	visible  int
	growing  bool // 多重Growガード。コミット後にだけ解除する。
}

func NewWindow(pageSize int) *Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Window{pageSize: pageSize, visible: pageSize}
}

// Resetは可視件数をページサイズに戻す。
// フィルタ・検索・ストア再ロードでリストが変わったときに呼ぶ。
func (w *Window) Reset() {
	w.visible = w.pageSize
	w.growing = false
}

// Growは可視件数を1ページ分進める（total件を上限にキャップ）。
// これ以上伸ばせないとき、またはGrowが進行中のときは何もせずfalseを返す。
// 「リスト末尾に近い」イベントが連打されても結果が同じになるように。
func (w *Window) Grow(total int) bool {
	if w.growing || !w.HasMore(total) {
		return false
	}
	w.growing = true
	next := w.visible + w.pageSize
	if next > total {
		next = total
	}
	w.visible = next
	w.growing = false
	return true
}

// Visibleは現在見えてよい件数を返す（リスト長を超えない）。
func (w *Window) Visible(total int) int {
	if w.visible > total {
		return total
	}
	return w.visible
}

func (w *Window) HasMore(total int) bool {
	return w.visible < total
}
