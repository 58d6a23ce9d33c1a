package tui

// pageStep is the row distance of a page movement.
const pageStep = 10

// navigator tracks the cursor, the vertical scroll offset, and the first
// visible column, clamped to the active sheet's dimensions. Scroll follows
// the cursor via updateScroll, which must be re-evaluated every render
// because the viewport height changes with the terminal.
type navigator struct {
	row, col  int
	scroll    int
	colScroll int
	height    int // body rows of the active sheet
	width     int // columns of the active sheet
}

// setSheet resets the navigator for a newly activated sheet.
func (n *navigator) setSheet(height, width int) {
	n.row, n.col = 0, 0
	n.scroll, n.colScroll = 0, 0
	n.height, n.width = height, width
}

func (n *navigator) moveUp() {
	if n.row > 0 {
		n.row--
	}
}

func (n *navigator) moveDown() {
	if n.row < n.height-1 {
		n.row++
	}
}

func (n *navigator) moveLeft() {
	if n.col > 0 {
		n.col--
	}
}

func (n *navigator) moveRight() {
	if n.col < n.width-1 {
		n.col++
	}
}

func (n *navigator) pageUp() {
	n.row = max(0, n.row-pageStep)
}

func (n *navigator) pageDown() {
	if n.height > 0 {
		n.row = min(n.row+pageStep, n.height-1)
	}
}

func (n *navigator) rowStart() {
	n.col = 0
}

func (n *navigator) rowEnd() {
	if n.width > 0 {
		n.col = n.width - 1
	}
}

func (n *navigator) top() {
	n.row = 0
}

func (n *navigator) bottom() {
	if n.height > 0 {
		n.row = n.height - 1
	}
}

// jumpTo relocates the cursor directly. Callers validate bounds first.
func (n *navigator) jumpTo(row, col int) {
	n.row = row
	n.col = col
}

// updateScroll keeps the cursor row inside [scroll, scroll+viewportHeight).
// Idempotent for a fixed viewport height.
func (n *navigator) updateScroll(viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	if n.row >= n.scroll+viewportHeight {
		n.scroll = n.row - viewportHeight + 1
	}
	if n.row < n.scroll {
		n.scroll = n.row
	}
}

// updateColScroll is the horizontal counterpart, over visible column count.
func (n *navigator) updateColScroll(visibleCols int) {
	if visibleCols <= 0 {
		return
	}
	if n.col >= n.colScroll+visibleCols {
		n.colScroll = n.col - visibleCols + 1
	}
	if n.col < n.colScroll {
		n.colScroll = n.col
	}
}
