package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cursor(b *Buffer) [2]int {
	x, y := b.Cursor()
	return [2]int{x, y}
}

func TestBufferSetText(t *testing.T) {
	b := NewBuffer("a\r\nb\nc")
	assert.Equal(t, []string{"a", "b", "c"}, b.Lines())
	assert.Equal(t, "a\nb\nc", b.Text())
	assert.Equal(t, [2]int{0, 0}, cursor(b))
	assert.False(t, b.Dirty())
}

func TestBufferInsertAndBackspace(t *testing.T) {
	b := NewBuffer("")
	for _, r := range "héllo" {
		b.InsertRune(r)
	}
	assert.Equal(t, "héllo", b.Text())
	assert.Equal(t, [2]int{5, 0}, cursor(b))
	assert.True(t, b.Dirty())

	b.Backspace()
	b.Backspace()
	assert.Equal(t, "hél", b.Text())

	b.MarkClean()
	assert.False(t, b.Dirty())
}

func TestBufferNewlineKeepsIndent(t *testing.T) {
	b := NewBuffer("    if x:")
	b.End()
	b.Newline()
	assert.Equal(t, []string{"    if x:", "    "}, b.Lines())
	assert.Equal(t, [2]int{4, 1}, cursor(b))
}

func TestBufferBackspaceJoinsLines(t *testing.T) {
	b := NewBuffer("ab\ncd")
	b.SetCursor(0, 1)
	b.Backspace()
	assert.Equal(t, "abcd", b.Text())
	assert.Equal(t, [2]int{2, 0}, cursor(b))

	b.SetCursor(0, 0)
	b.Backspace()
	assert.Equal(t, "abcd", b.Text())
}

func TestBufferDelete(t *testing.T) {
	b := NewBuffer("ab\ncd")
	b.Delete()
	assert.Equal(t, "b\ncd", b.Text())

	b.End()
	b.Delete()
	assert.Equal(t, "bcd", b.Text())

	b.End()
	b.Delete()
	assert.Equal(t, "bcd", b.Text())
}

func TestBufferInsertText(t *testing.T) {
	b := NewBuffer("start end")
	b.SetCursor(6, 0)
	b.InsertText("one\ntwo\nthree ")
	assert.Equal(t, "start one\ntwo\nthree end", b.Text())
	assert.Equal(t, [2]int{6, 2}, cursor(b))

	b.InsertText("")
	assert.Equal(t, "start one\ntwo\nthree end", b.Text())

	b.InsertText("X")
	assert.Equal(t, "three Xend", b.Lines()[2])
}

func TestBufferMovement(t *testing.T) {
	b := NewBuffer("abc\nde\nfghi")
	b.MoveRight()
	b.MoveRight()
	b.MoveRight()
	assert.Equal(t, [2]int{3, 0}, cursor(b))
	b.MoveRight()
	assert.Equal(t, [2]int{0, 1}, cursor(b))
	b.MoveLeft()
	assert.Equal(t, [2]int{3, 0}, cursor(b))

	b.MoveDown(1)
	assert.Equal(t, [2]int{2, 1}, cursor(b), "clamped to shorter line")
	b.MoveDown(10)
	assert.Equal(t, [2]int{2, 2}, cursor(b))
	b.End()
	assert.Equal(t, [2]int{4, 2}, cursor(b))
	b.MoveUp(10)
	assert.Equal(t, [2]int{3, 0}, cursor(b))
	b.Home()
	assert.Equal(t, [2]int{0, 0}, cursor(b))
	b.MoveLeft()
	assert.Equal(t, [2]int{0, 0}, cursor(b))
}

func TestBufferSetCursorClamps(t *testing.T) {
	b := NewBuffer("ab\ncd")
	b.SetCursor(99, 99)
	assert.Equal(t, [2]int{2, 1}, cursor(b))
	b.SetCursor(-5, -5)
	assert.Equal(t, [2]int{0, 0}, cursor(b))
}

func TestBufferUndoRedo(t *testing.T) {
	b := NewBuffer("x")
	b.End()
	b.InsertRune('y')
	b.InsertRune('z')

	assert.True(t, b.Undo())
	assert.Equal(t, "xy", b.Text())
	assert.True(t, b.Undo())
	assert.Equal(t, "x", b.Text())
	assert.False(t, b.Undo())

	assert.True(t, b.Redo())
	assert.Equal(t, "xy", b.Text())
	assert.Equal(t, [2]int{2, 0}, cursor(b))

	b.InsertRune('!')
	assert.False(t, b.Redo(), "a new edit clears redo")
}

func TestBufferUndoLimit(t *testing.T) {
	b := NewBuffer("")
	for i := 0; i < maxUndo+20; i++ {
		b.InsertRune('a')
	}
	n := 0
	for b.Undo() {
		n++
	}
	assert.Equal(t, maxUndo, n)
}

func TestBufferEnsureVisible(t *testing.T) {
	b := NewBuffer("1\n2\n3\n4\n5\n6")
	b.SetCursor(0, 5)
	b.EnsureVisible(3, 10)
	x, y := b.Offset()
	assert.Equal(t, 0, x)
	assert.Equal(t, 3, y)

	b.SetCursor(0, 0)
	b.EnsureVisible(3, 10)
	_, y = b.Offset()
	assert.Equal(t, 0, y)

	b.SetText("0123456789abcdef")
	b.End()
	b.EnsureVisible(3, 10)
	x, _ = b.Offset()
	assert.Equal(t, 7, x)
}

func TestDisplayColumn(t *testing.T) {
	assert.Equal(t, 0, displayColumn("abc", 0))
	assert.Equal(t, 2, displayColumn("abc", 2))
	assert.Equal(t, 4, displayColumn("\tx", 1))
	assert.Equal(t, 5, displayColumn("\tx", 2))
	assert.Equal(t, 4, displayColumn("ab\tx", 3))
	assert.Equal(t, 2, displayColumn("日本", 1))
}

func TestRuneIndexAtColumn(t *testing.T) {
	assert.Equal(t, 0, runeIndexAtColumn("abc", 0))
	assert.Equal(t, 2, runeIndexAtColumn("abc", 2))
	assert.Equal(t, 3, runeIndexAtColumn("abc", 40))
	assert.Equal(t, 0, runeIndexAtColumn("\tx", 2))
	assert.Equal(t, 1, runeIndexAtColumn("\tx", 4))
	assert.Equal(t, 1, runeIndexAtColumn("日本", 2))
}
