package main

import "math"

// NarrowWidth is the terminal width below which the split view is replaced by tabs.
const NarrowWidth = 80

// LayoutMode is chosen once per viewport measurement.
type LayoutMode int

const (
	LayoutSplit LayoutMode = iota
	LayoutTabbed
)

func (m LayoutMode) String() string {
	if m == LayoutTabbed {
		return "tabbed"
	}
	return "split"
}

// Layout tracks the editor/output split and the divider drag gesture.
// Layout отслеживает разделение редактор/вывод и перетаскивание разделителя.
type Layout struct {
	mode     LayoutMode
	left     int
	width    int
	top      int
	height   int
	ratio    float64
	dragging bool
	tab      Tab
}

// NewLayout creates a split layout with the given committed ratio.
func NewLayout(ratio float64) *Layout {
	if !ratioInRange(ratio) {
		ratio = DefaultEditorWidth
	}
	return &Layout{ratio: ratio, tab: TabCode}
}

// Measure records the main area geometry and picks the layout mode.
// Any drag in progress is dropped when the viewport changes.
func (l *Layout) Measure(left, top, width, height int) {
	l.left, l.top = left, top
	l.width, l.height = width, height
	if width < NarrowWidth {
		l.mode = LayoutTabbed
	} else {
		l.mode = LayoutSplit
	}
	l.dragging = false
}

// Mode returns the current layout mode.
func (l *Layout) Mode() LayoutMode { return l.mode }

// Ratio returns the committed editor width in percent.
func (l *Layout) Ratio() float64 { return l.ratio }

// SetRatio commits ratio if it is inside the allowed range.
func (l *Layout) SetRatio(ratio float64) bool {
	if !ratioInRange(ratio) {
		return false
	}
	l.ratio = ratio
	return true
}

// Dragging reports whether a divider drag is in progress.
func (l *Layout) Dragging() bool { return l.dragging }

// Tab returns the active pane for tabbed mode.
func (l *Layout) Tab() Tab { return l.tab }

// SetTab selects the active pane.
func (l *Layout) SetTab(t Tab) { l.tab = t }

// ToggleTab switches between code and output.
func (l *Layout) ToggleTab() Tab {
	if l.tab == TabCode {
		l.tab = TabOutput
	} else {
		l.tab = TabCode
	}
	return l.tab
}

// EditorColumns is the width of the editor pane in split mode.
func (l *Layout) EditorColumns() int {
	if l.mode == LayoutTabbed {
		return l.width
	}
	return int(math.Round(float64(l.width) * l.ratio / 100))
}

// DividerColumn is the absolute column of the divider in split mode, or -1.
func (l *Layout) DividerColumn() int {
	if l.mode == LayoutTabbed {
		return -1
	}
	return l.left + l.EditorColumns()
}

// OutputColumns is the width of the output pane in split mode.
func (l *Layout) OutputColumns() int {
	if l.mode == LayoutTabbed {
		return l.width
	}
	w := l.width - l.EditorColumns() - 1
	if w < 0 {
		return 0
	}
	return w
}

// PointerDown starts a drag when the press lands on the divider.
func (l *Layout) PointerDown(x, y int) bool {
	if l.mode != LayoutSplit || l.width <= 0 {
		return false
	}
	if y < l.top || y >= l.top+l.height {
		return false
	}
	if x != l.DividerColumn() {
		return false
	}
	l.dragging = true
	return true
}

// PointerMove updates the ratio while dragging. Positions outside (30, 80)
// leave the previous ratio in place. It reports whether the ratio changed.
func (l *Layout) PointerMove(x int) bool {
	if !l.dragging || l.mode != LayoutSplit || l.width <= 0 {
		return false
	}
	ratio := float64(x-l.left) / float64(l.width) * 100
	if !ratioInRange(ratio) || ratio == l.ratio {
		return false
	}
	l.ratio = ratio
	return true
}

// PointerUp ends any drag.
func (l *Layout) PointerUp() {
	l.dragging = false
}
