package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Board scrolls the page widget. It is the editor's scroll position, so the
// hand tool pans the same container the scroll bars move.
type Board struct {
	*container.Scroll
	page *PageWidget
}

func NewBoard(page *PageWidget) *Board {
	b := &Board{page: page}
	b.Scroll = container.NewScroll(page)
	return b
}

func (b *Board) ScrollOffset() (float64, float64) {
	return float64(b.Scroll.Offset.X), float64(b.Scroll.Offset.Y)
}

// ScrollTo moves the view, keeping the page inside it.
func (b *Board) ScrollTo(x, y float64) {
	content := b.page.MinSize()
	view := b.Scroll.Size()
	maxX := max(0, float64(content.Width-view.Width))
	maxY := max(0, float64(content.Height-view.Height))
	b.Scroll.Offset = fyne.NewPos(float32(min(max(0, x), maxX)), float32(min(max(0, y), maxY)))
	b.Scroll.Refresh()
}

// Reset scrolls back to the top-left corner, as after loading a document.
func (b *Board) Reset() {
	b.Scroll.Offset = fyne.NewPos(0, 0)
	b.Scroll.Refresh()
}
