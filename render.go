package main

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const tabWidth = 4

const (
	tabCodeLabel   = " Code "
	tabOutputLabel = " Output "
	tabOutputX     = len(tabCodeLabel) + 1
)

const shortcutsHint = "^R Run | ^S Save | ^N Reset | ^L Lang | ^O Tab | ^P Live | F1 Help | ^Q Quit"

// displayColumn returns the screen column of rune index cx in line.
func displayColumn(line string, cx int) int {
	col := 0
	for i, r := range []rune(line) {
		if i >= cx {
			break
		}
		col += cellWidth(r, col)
	}
	return col
}

// runeIndexAtColumn is the inverse of displayColumn.
func runeIndexAtColumn(line string, target int) int {
	col := 0
	runes := []rune(line)
	for i, r := range runes {
		w := cellWidth(r, col)
		if col+w > target {
			return i
		}
		col += w
	}
	return len(runes)
}

func cellWidth(r rune, col int) int {
	if r == '\t' {
		return tabWidth - col%tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

func gutterWidth(lines int) int {
	return len(strconv.Itoa(lines)) + 2
}

// wrapOutput splits text into rows no wider than width, breaking between
// grapheme clusters.
func wrapOutput(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		var sb strings.Builder
		cur := 0
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			w := g.Width()
			if cur+w > width && cur > 0 {
				rows = append(rows, sb.String())
				sb.Reset()
				cur = 0
			}
			sb.WriteString(g.Str())
			cur += w
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// drawText draws s from (x, y), clipped to maxW columns. It returns the
// number of columns used.
func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) int {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if col+w > maxW {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		for i := 1; i < w; i++ {
			s.SetContent(x+col+i, y, ' ', nil, style)
		}
		col += w
	}
	return col
}

func fillRow(s tcell.Screen, x, y, w int, style tcell.Style) {
	for i := 0; i < w; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}

// render renders the whole UI to the screen.
// render отображает интерфейс на экране.
func (a *App) render() {
	s := a.screen
	s.Clear()
	if a.width <= 0 || a.height < 3 {
		s.Show()
		return
	}
	s.HideCursor()

	a.drawTopBar()
	top, height := a.layout.top, a.layout.height
	if a.layout.Mode() == LayoutSplit {
		editorW := a.layout.EditorColumns()
		a.drawEditor(0, top, editorW, height)
		div := a.layout.DividerColumn()
		style := a.theme.Divider
		if a.layout.Dragging() {
			style = a.theme.Dragging
		}
		for y := top; y < top+height; y++ {
			s.SetContent(div, y, '│', nil, style)
		}
		a.drawOutput(div+1, top, a.layout.OutputColumns(), height)
	} else {
		a.drawTabs(top - 1)
		if a.layout.Tab() == TabCode {
			a.drawEditor(0, top, a.width, height)
		} else {
			a.drawOutput(0, top, a.width, height)
		}
	}
	a.drawStatusBar(a.height - 1)
	s.Show()
}

func (a *App) drawTopBar() {
	style := a.theme.TabIdle
	fillRow(a.screen, 0, 0, a.width, style)
	drawText(a.screen, 0, 0, a.width, a.title(), style)
	action := " F5 " + a.actionLabel() + " "
	w := runewidth.StringWidth(action)
	if w < a.width {
		drawText(a.screen, a.width-w, 0, w, action, a.theme.Status)
	}
}

func (a *App) drawTabs(y int) {
	fillRow(a.screen, 0, y, a.width, a.theme.TabIdle)
	codeStyle, outStyle := a.theme.TabIdle, a.theme.TabIdle
	if a.layout.Tab() == TabCode {
		codeStyle = a.theme.TabActive
	} else {
		outStyle = a.theme.TabActive
	}
	drawText(a.screen, 0, y, a.width, tabCodeLabel, codeStyle)
	drawText(a.screen, tabOutputX, y, a.width-tabOutputX, tabOutputLabel, outStyle)
}

// drawEditor draws the highlighted buffer with line numbers and places the cursor.
func (a *App) drawEditor(x, y, w, h int) {
	lines := a.buf.Lines()
	gutter := gutterWidth(len(lines))
	textW := w - gutter
	if textW <= 0 || h <= 0 {
		return
	}
	a.buf.EnsureVisible(h, textW)
	offX, offY := a.buf.Offset()
	tokens := a.theme.Highlight(a.ws.Language, a.buf.Text())
	match := a.buf.MatchBracket()
	cx, cy := a.buf.Cursor()

	for row := 0; row < h; row++ {
		fillRow(a.screen, x, y+row, w, a.theme.Default)
		lineIdx := offY + row
		if lineIdx >= len(lines) {
			continue
		}
		num := strconv.Itoa(lineIdx + 1)
		drawText(a.screen, x+gutter-2-len(num), y+row, len(num), num, a.theme.Gutter)

		col := 0
		runeIdx := 0
		for _, tok := range tokens[lineIdx] {
			for _, r := range tok.Text {
				cw := cellWidth(r, col)
				style := tok.Style
				if match != nil && ((lineIdx == match.OpenLine && runeIdx == match.OpenCol) ||
					(lineIdx == match.CloseLine && runeIdx == match.CloseCol)) {
					style = a.theme.Bracket
				}
				ch := r
				if r == '\t' {
					ch = ' '
				}
				for i := 0; i < cw; i++ {
					screenCol := col + i - offX
					if screenCol >= 0 && screenCol < textW {
						drawCh := ch
						if i > 0 {
							drawCh = ' '
						}
						a.screen.SetContent(x+gutter+screenCol, y+row, drawCh, nil, style)
					}
				}
				col += cw
				runeIdx++
			}
		}
	}

	if a.prompt == nil && a.codeVisible() && cy >= offY && cy < offY+h {
		col := displayColumn(lines[cy], cx) - offX
		if col >= 0 && col < textW {
			a.screen.ShowCursor(x+gutter+col, y+cy-offY)
		}
	}
}

func (a *App) drawOutput(x, y, w, h int) {
	for row := 0; row < h; row++ {
		fillRow(a.screen, x, y+row, w, a.theme.Output)
	}
	rows := wrapOutput(a.output, w-1)
	if max := len(rows) - h; a.outputScroll > max {
		a.outputScroll = max
	}
	if a.outputScroll < 0 {
		a.outputScroll = 0
	}

	errMode := a.outputIsErr && !strings.Contains(a.output, outputErrorBanner)
	for i, line := range rows {
		if line == outputErrorBanner {
			errMode = true
		}
		row := i - a.outputScroll
		if row < 0 || row >= h {
			continue
		}
		style := a.theme.Output
		if errMode {
			style = a.theme.OutputErr
		}
		drawText(a.screen, x+1, y+row, w-1, line, style)
	}
}

func (a *App) drawStatusBar(y int) {
	style := a.theme.Status
	if a.running {
		style = a.theme.Running
	}
	fillRow(a.screen, 0, y, a.width, style)

	if a.prompt != nil {
		fillRow(a.screen, 0, y, a.width, a.theme.Prompt)
		text := a.prompt.Label + ": " + a.prompt.Value
		used := drawText(a.screen, 0, y, a.width, text, a.theme.Prompt)
		if used < a.width {
			a.screen.ShowCursor(used, y)
		}
		return
	}

	left := " " + a.stateLabel() + " • " + string(a.ws.Language) + " "
	used := drawText(a.screen, 0, y, a.width, left, style)

	if msg, isErr := a.currentStatus(); msg != "" {
		msgStyle := style
		if isErr {
			msgStyle = a.theme.Error
		}
		drawText(a.screen, used+1, y, a.width-used-1, msg, msgStyle)
		return
	}

	hint := shortcutsHint + " "
	hw := runewidth.StringWidth(hint)
	if used+hw <= a.width {
		drawText(a.screen, a.width-hw, y, hw, hint, style)
	}
}
