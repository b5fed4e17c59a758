package main

import "strings"

// maxUndo bounds the undo history.
const maxUndo = 500

// EditorState представляет состояние буфера для undo/redo.
type EditorState struct {
	Lines []string
	Cx    int
	Cy    int
}

// Buffer holds the text being edited and the cursor.
// Buffer хранит редактируемый текст и курсор.
type Buffer struct {
	lines     []string
	cx, cy    int
	offsetY   int
	offsetX   int
	undoStack []EditorState
	redoStack []EditorState
	dirty     bool
}

// NewBuffer creates a buffer holding text.
func NewBuffer(text string) *Buffer {
	b := &Buffer{}
	b.SetText(text)
	return b
}

// SetText replaces the content and clears history.
func (b *Buffer) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	b.lines = strings.Split(text, "\n")
	b.cx, b.cy = 0, 0
	b.offsetX, b.offsetY = 0, 0
	b.undoStack = nil
	b.redoStack = nil
	b.dirty = false
}

// Text returns the content joined with newlines.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// Lines returns the lines of the buffer. Callers must not modify them.
func (b *Buffer) Lines() []string {
	return b.lines
}

// Cursor returns the cursor column (in runes) and line.
func (b *Buffer) Cursor() (int, int) {
	return b.cx, b.cy
}

// Dirty reports whether the buffer changed since the last MarkClean, i.e.
// since it was last exported.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// MarkClean clears the dirty flag.
func (b *Buffer) MarkClean() {
	b.dirty = false
}

func (b *Buffer) lineRunes() []rune {
	return []rune(b.lines[b.cy])
}

func (b *Buffer) clampX() {
	if n := len(b.lineRunes()); b.cx > n {
		b.cx = n
	}
	if b.cx < 0 {
		b.cx = 0
	}
}

// InsertRune inserts a rune at the current cursor position.
// InsertRune вставляет символ в текущую позицию курсора.
func (b *Buffer) InsertRune(r rune) {
	b.pushUndo()
	b.clampX()
	lineRunes := b.lineRunes()
	lineRunes = append(lineRunes[:b.cx], append([]rune{r}, lineRunes[b.cx:]...)...)
	b.lines[b.cy] = string(lineRunes)
	b.cx++
}

// InsertText inserts text at the cursor, handling multi-line text.
func (b *Buffer) InsertText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return
	}
	b.pushUndo()
	b.clampX()
	parts := strings.Split(text, "\n")
	lineRunes := b.lineRunes()
	left := string(lineRunes[:b.cx])
	right := string(lineRunes[b.cx:])

	if len(parts) == 1 {
		b.lines[b.cy] = left + parts[0] + right
		b.cx += len([]rune(parts[0]))
		return
	}

	inserted := make([]string, 0, len(parts))
	inserted = append(inserted, left+parts[0])
	inserted = append(inserted, parts[1:len(parts)-1]...)
	last := parts[len(parts)-1]
	inserted = append(inserted, last+right)

	rest := append([]string{}, b.lines[b.cy+1:]...)
	b.lines = append(append(b.lines[:b.cy], inserted...), rest...)
	b.cy += len(parts) - 1
	b.cx = len([]rune(last))
}

// Newline splits the current line at the cursor, keeping its indentation.
func (b *Buffer) Newline() {
	b.pushUndo()
	b.clampX()
	lineRunes := b.lineRunes()
	left := string(lineRunes[:b.cx])
	right := string(lineRunes[b.cx:])
	indent := leadingWhitespace(left)

	b.lines[b.cy] = left
	rest := append([]string{indent + right}, b.lines[b.cy+1:]...)
	b.lines = append(b.lines[:b.cy+1], rest...)
	b.cy++
	b.cx = len([]rune(indent))
}

func leadingWhitespace(s string) string {
	for i, r := range s {
		if r != ' ' && r != '\t' {
			return s[:i]
		}
	}
	return s
}

// Backspace deletes the character before the cursor.
// Backspace удаляет символ перед курсором.
func (b *Buffer) Backspace() {
	b.clampX()
	if b.cx > 0 {
		b.pushUndo()
		lineRunes := b.lineRunes()
		lineRunes = append(lineRunes[:b.cx-1], lineRunes[b.cx:]...)
		b.lines[b.cy] = string(lineRunes)
		b.cx--
		return
	}
	if b.cy == 0 {
		return
	}
	b.pushUndo()
	prev := b.lines[b.cy-1]
	b.lines[b.cy-1] = prev + b.lines[b.cy]
	b.lines = append(b.lines[:b.cy], b.lines[b.cy+1:]...)
	b.cy--
	b.cx = len([]rune(prev))
}

// Delete deletes the character under the cursor.
func (b *Buffer) Delete() {
	b.clampX()
	lineRunes := b.lineRunes()
	if b.cx < len(lineRunes) {
		b.pushUndo()
		lineRunes = append(lineRunes[:b.cx], lineRunes[b.cx+1:]...)
		b.lines[b.cy] = string(lineRunes)
		return
	}
	if b.cy >= len(b.lines)-1 {
		return
	}
	b.pushUndo()
	b.lines[b.cy] += b.lines[b.cy+1]
	b.lines = append(b.lines[:b.cy+1], b.lines[b.cy+2:]...)
}

// MoveLeft moves the cursor one rune left, wrapping to the previous line.
func (b *Buffer) MoveLeft() {
	b.clampX()
	if b.cx > 0 {
		b.cx--
	} else if b.cy > 0 {
		b.cy--
		b.cx = len(b.lineRunes())
	}
}

// MoveRight moves the cursor one rune right, wrapping to the next line.
func (b *Buffer) MoveRight() {
	b.clampX()
	if b.cx < len(b.lineRunes()) {
		b.cx++
	} else if b.cy < len(b.lines)-1 {
		b.cy++
		b.cx = 0
	}
}

// MoveUp moves the cursor n lines up.
func (b *Buffer) MoveUp(n int) {
	b.cy -= n
	if b.cy < 0 {
		b.cy = 0
	}
	b.clampX()
}

// MoveDown moves the cursor n lines down.
func (b *Buffer) MoveDown(n int) {
	b.cy += n
	if b.cy > len(b.lines)-1 {
		b.cy = len(b.lines) - 1
	}
	b.clampX()
}

// Home moves to the start of the line.
func (b *Buffer) Home() { b.cx = 0 }

// End moves to the end of the line.
func (b *Buffer) End() { b.cx = len(b.lineRunes()) }

// SetCursor places the cursor, clamped to the content.
func (b *Buffer) SetCursor(x, y int) {
	if y < 0 {
		y = 0
	}
	if y > len(b.lines)-1 {
		y = len(b.lines) - 1
	}
	b.cy = y
	b.cx = x
	b.clampX()
}

// EnsureVisible scrolls so the cursor is inside a rows x cols viewport.
func (b *Buffer) EnsureVisible(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if b.cy < b.offsetY {
		b.offsetY = b.cy
	} else if b.cy >= b.offsetY+rows {
		b.offsetY = b.cy - rows + 1
	}
	col := displayColumn(b.lines[b.cy], b.cx)
	if col < b.offsetX {
		b.offsetX = col
	} else if col >= b.offsetX+cols {
		b.offsetX = col - cols + 1
	}
}

// Offset returns the first visible line and column.
func (b *Buffer) Offset() (int, int) {
	return b.offsetX, b.offsetY
}

// pushUndo pushes the current state onto the undo stack.
// pushUndo помещает текущее состояние в стек отмены.
func (b *Buffer) pushUndo() {
	b.undoStack = append(b.undoStack, b.snapshot())
	if len(b.undoStack) > maxUndo {
		b.undoStack = b.undoStack[len(b.undoStack)-maxUndo:]
	}
	b.redoStack = nil
	b.dirty = true
}

func (b *Buffer) snapshot() EditorState {
	state := EditorState{
		Lines: make([]string, len(b.lines)),
		Cx:    b.cx,
		Cy:    b.cy,
	}
	copy(state.Lines, b.lines)
	return state
}

// Undo reverts the last change. It reports whether anything changed.
// Undo отменяет последнее изменение.
func (b *Buffer) Undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}
	b.redoStack = append(b.redoStack, b.snapshot())
	last := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.lines, b.cx, b.cy = last.Lines, last.Cx, last.Cy
	b.dirty = true
	return true
}

// Redo reapplies the last undone change.
// Redo повторно применяет последнее отменённое изменение.
func (b *Buffer) Redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}
	b.undoStack = append(b.undoStack, b.snapshot())
	next := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.lines, b.cx, b.cy = next.Lines, next.Cx, next.Cy
	b.dirty = true
	return true
}
