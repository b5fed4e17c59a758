package main

// BracketPair представляет пару совпадающих скобок и их позиций.
// BracketPair represents a pair of matching brackets and their positions.
type BracketPair struct {
	OpenLine  int
	OpenCol   int
	CloseLine int
	CloseCol  int
}

var (
	openBrackets  = map[rune]rune{'(': ')', '[': ']', '{': '}'}
	closeBrackets = map[rune]rune{')': '(', ']': '[', '}': '{'}
)

// MatchBracket finds the bracket matching the one at the cursor, or just
// before it. It returns nil when there is nothing to match.
func (b *Buffer) MatchBracket() *BracketPair {
	if p := b.matchAt(b.cy, b.cx); p != nil {
		return p
	}
	if b.cx > 0 {
		return b.matchAt(b.cy, b.cx-1)
	}
	return nil
}

func (b *Buffer) matchAt(lineIdx, colIdx int) *BracketPair {
	if lineIdx < 0 || lineIdx >= len(b.lines) {
		return nil
	}
	runes := []rune(b.lines[lineIdx])
	if colIdx < 0 || colIdx >= len(runes) {
		return nil
	}
	ch := runes[colIdx]
	if closing, ok := openBrackets[ch]; ok {
		return b.findClosingBracket(lineIdx, colIdx, ch, closing)
	}
	if opening, ok := closeBrackets[ch]; ok {
		return b.findOpeningBracket(lineIdx, colIdx, opening, ch)
	}
	return nil
}

// findClosingBracket scans forward for the closing bracket, tracking nesting.
func (b *Buffer) findClosingBracket(startLine, startCol int, opening, closing rune) *BracketPair {
	depth := 0
	for line := startLine; line < len(b.lines); line++ {
		runes := []rune(b.lines[line])
		col := 0
		if line == startLine {
			col = startCol
		}
		for ; col < len(runes); col++ {
			switch runes[col] {
			case opening:
				depth++
			case closing:
				depth--
				if depth == 0 {
					return &BracketPair{OpenLine: startLine, OpenCol: startCol, CloseLine: line, CloseCol: col}
				}
			}
		}
	}
	return nil
}

// findOpeningBracket scans backward for the opening bracket, tracking nesting.
func (b *Buffer) findOpeningBracket(startLine, startCol int, opening, closing rune) *BracketPair {
	depth := 0
	for line := startLine; line >= 0; line-- {
		runes := []rune(b.lines[line])
		col := len(runes) - 1
		if line == startLine {
			col = startCol
		}
		for ; col >= 0; col-- {
			switch runes[col] {
			case closing:
				depth++
			case opening:
				depth--
				if depth == 0 {
					return &BracketPair{OpenLine: line, OpenCol: col, CloseLine: startLine, CloseCol: startCol}
				}
			}
		}
	}
	return nil
}
