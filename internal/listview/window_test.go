package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 55件のリストに対して 20 → 40 → 55（キャップ）→ 55（変化なし）
func TestWindow_GrowSequenceWithCap(t *testing.T) {
	w := NewWindow(20)
	total := 55

	assert.Equal(t, 20, w.Visible(total))
	assert.True(t, w.HasMore(total))

	assert.True(t, w.Grow(total))
	assert.Equal(t, 40, w.Visible(total))

	assert.True(t, w.Grow(total))
	assert.Equal(t, 55, w.Visible(total))
	assert.False(t, w.HasMore(total))

	// もう伸びない
	assert.False(t, w.Grow(total))
	assert.Equal(t, 55, w.Visible(total))
}

func TestWindow_ResetRestoresPageSize(t *testing.T) {
	w := NewWindow(20)
	_ = w.Grow(100)
	_ = w.Grow(100)
	assert.Equal(t, 60, w.Visible(100))

	w.Reset()
	assert.Equal(t, 20, w.Visible(100))
}

// リストが可視件数より短ければそこまでしか見えない
func TestWindow_VisibleCappedByTotal(t *testing.T) {
	w := NewWindow(20)
	assert.Equal(t, 3, w.Visible(3))
	assert.False(t, w.HasMore(3))
	assert.False(t, w.Grow(3))
}

func TestWindow_DefaultPageSize(t *testing.T) {
	w := NewWindow(0)
	assert.Equal(t, DefaultPageSize, w.Visible(1000))
}
