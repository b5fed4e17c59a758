package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func splitLayout() *Layout {
	l := NewLayout(DefaultEditorWidth)
	l.Measure(0, 1, 100, 20)
	return l
}

func TestLayoutMeasureMode(t *testing.T) {
	l := NewLayout(DefaultEditorWidth)
	l.Measure(0, 1, 120, 30)
	assert.Equal(t, LayoutSplit, l.Mode())

	l.Measure(0, 2, 79, 30)
	assert.Equal(t, LayoutTabbed, l.Mode())
	assert.Equal(t, -1, l.DividerColumn())
	assert.Equal(t, 79, l.EditorColumns())
	assert.Equal(t, 79, l.OutputColumns())
}

func TestLayoutNewLayoutClampsRatio(t *testing.T) {
	assert.Equal(t, DefaultEditorWidth, NewLayout(10).Ratio())
	assert.Equal(t, DefaultEditorWidth, NewLayout(80).Ratio())
	assert.Equal(t, 50.0, NewLayout(50).Ratio())
}

func TestLayoutGeometry(t *testing.T) {
	l := splitLayout()
	assert.Equal(t, 65, l.EditorColumns())
	assert.Equal(t, 65, l.DividerColumn())
	assert.Equal(t, 34, l.OutputColumns())
}

func TestLayoutDrag(t *testing.T) {
	l := splitLayout()
	assert.False(t, l.PointerDown(10, 5), "press off the divider")
	assert.False(t, l.Dragging())

	assert.True(t, l.PointerDown(65, 5))
	assert.True(t, l.Dragging())

	assert.True(t, l.PointerMove(50))
	assert.Equal(t, 50.0, l.Ratio())
	assert.False(t, l.PointerMove(50), "same position")

	l.PointerUp()
	assert.False(t, l.Dragging())
	assert.False(t, l.PointerMove(40), "not dragging")
	assert.Equal(t, 50.0, l.Ratio())
}

func TestLayoutDragRejectsOutOfRange(t *testing.T) {
	l := splitLayout()
	assert.True(t, l.PointerDown(65, 5))

	assert.True(t, l.PointerMove(45))
	for _, x := range []int{10, 30, 80, 95} {
		assert.False(t, l.PointerMove(x), x)
		assert.Equal(t, 45.0, l.Ratio(), x)
	}
	assert.True(t, l.PointerMove(31))
	assert.Equal(t, 31.0, l.Ratio())
}

func TestLayoutPressOutsideMainArea(t *testing.T) {
	l := splitLayout()
	assert.False(t, l.PointerDown(65, 0))
	assert.False(t, l.PointerDown(65, 21))
}

func TestLayoutTabbedIgnoresDrag(t *testing.T) {
	l := NewLayout(DefaultEditorWidth)
	l.Measure(0, 2, 60, 20)
	assert.False(t, l.PointerDown(39, 5))
	assert.False(t, l.PointerMove(20))
	assert.Equal(t, DefaultEditorWidth, l.Ratio())
}

func TestLayoutMeasureCancelsDrag(t *testing.T) {
	l := splitLayout()
	assert.True(t, l.PointerDown(65, 5))
	l.Measure(0, 2, 60, 20)
	assert.False(t, l.Dragging())
}

func TestLayoutTabs(t *testing.T) {
	l := NewLayout(DefaultEditorWidth)
	assert.Equal(t, TabCode, l.Tab())
	assert.Equal(t, TabOutput, l.ToggleTab())
	assert.Equal(t, TabCode, l.ToggleTab())
	l.SetTab(TabOutput)
	assert.Equal(t, "output", l.Tab().String())
}

func TestLayoutSetRatio(t *testing.T) {
	l := splitLayout()
	assert.False(t, l.SetRatio(85))
	assert.True(t, l.SetRatio(70))
	assert.Equal(t, 70.0, l.Ratio())
}

func TestLayoutDividerFollowsDrop(t *testing.T) {
	for _, x := range []int{57, 58, 31, 79} {
		l := splitLayout()
		assert.True(t, l.PointerDown(65, 5))
		assert.True(t, l.PointerMove(x), x)
		l.PointerUp()

		assert.Equal(t, x, l.DividerColumn(), x)
		assert.Equal(t, x, l.EditorColumns(), x)
		assert.True(t, l.PointerDown(x, 5), "grab again at %d", x)
		l.PointerUp()
	}
}
