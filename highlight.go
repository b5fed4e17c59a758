package main

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HighlightedToken represents a token with its style.
// HighlightedToken представляет токен с его стилем.
type HighlightedToken struct {
	Text  string
	Style tcell.Style
}

// Theme holds the styles used to draw the UI.
type Theme struct {
	Default   tcell.Style
	Keyword   tcell.Style
	String    tcell.Style
	Comment   tcell.Style
	Number    tcell.Style
	Function  tcell.Style
	Type      tcell.Style
	Preproc   tcell.Style
	Tag       tcell.Style
	Attribute tcell.Style
	Bracket   tcell.Style
	Gutter    tcell.Style
	Divider   tcell.Style
	Dragging  tcell.Style
	Status    tcell.Style
	Running   tcell.Style
	Output    tcell.Style
	OutputErr tcell.Style
	TabActive tcell.Style
	TabIdle   tcell.Style
	Prompt    tcell.Style
	Error     tcell.Style
}

// hexColor parses "#rrggbb" into a tcell colour.
func hexColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func fg(bg tcell.Color, hex string) tcell.Style {
	return tcell.StyleDefault.Background(bg).Foreground(hexColor(hex))
}

// VSDarkTheme is the default editor theme.
func VSDarkTheme() Theme {
	editorBg := hexColor("#1e1e1e")
	outputBg := hexColor("#020617")
	return Theme{
		Default:   fg(editorBg, "#d4d4d4"),
		Keyword:   fg(editorBg, "#569cd6"),
		String:    fg(editorBg, "#ce9178"),
		Comment:   fg(editorBg, "#6a9955"),
		Number:    fg(editorBg, "#b5cea8"),
		Function:  fg(editorBg, "#dcdcaa"),
		Type:      fg(editorBg, "#4ec9b0"),
		Preproc:   fg(editorBg, "#c586c0"),
		Tag:       fg(editorBg, "#569cd6"),
		Attribute: fg(editorBg, "#9cdcfe"),
		Bracket:   fg(hexColor("#264f78"), "#ffffff"),
		Gutter:    fg(editorBg, "#858585"),
		Divider:   fg(hexColor("#3c3c3c"), "#3c3c3c"),
		Dragging:  fg(hexColor("#007acc"), "#007acc"),
		Status:    fg(hexColor("#007acc"), "#ffffff"),
		Running:   fg(hexColor("#cc6633"), "#ffffff"),
		Output:    fg(outputBg, "#e2e8f0"),
		OutputErr: fg(outputBg, "#f87171"),
		TabActive: fg(hexColor("#1e1e1e"), "#ffffff").Bold(true),
		TabIdle:   fg(hexColor("#2d2d2d"), "#969696"),
		Prompt:    fg(hexColor("#252526"), "#ffffff"),
		Error:     fg(hexColor("#a1260d"), "#ffffff"),
	}
}

func (t Theme) styleFor(tt chroma.TokenType) tcell.Style {
	switch {
	case tt.InSubCategory(chroma.CommentPreproc):
		return t.Preproc
	case tt.InCategory(chroma.Comment):
		return t.Comment
	case tt == chroma.KeywordType || tt == chroma.NameBuiltin || tt == chroma.NameClass:
		return t.Type
	case tt.InCategory(chroma.Keyword):
		return t.Keyword
	case tt.InSubCategory(chroma.LiteralString):
		return t.String
	case tt.InSubCategory(chroma.LiteralNumber):
		return t.Number
	case tt == chroma.NameFunction:
		return t.Function
	case tt == chroma.NameTag:
		return t.Tag
	case tt == chroma.NameAttribute:
		return t.Attribute
	default:
		return t.Default
	}
}

// Highlight splits text into lines of styled tokens using the chroma lexer
// registered for lang. It always returns one entry per line of text.
// Highlight разбивает текст на строки со стилизованными токенами.
func (t Theme) Highlight(lang Language, text string) [][]HighlightedToken {
	lineCount := strings.Count(text, "\n") + 1
	plain := func() [][]HighlightedToken {
		out := make([][]HighlightedToken, 0, lineCount)
		for _, line := range strings.Split(text, "\n") {
			out = append(out, []HighlightedToken{{Text: line, Style: t.Default}})
		}
		return out
	}

	tmpl, ok := LookupTemplate(lang)
	if !ok {
		return plain()
	}
	lexer := lexers.Get(tmpl.Lexer)
	if lexer == nil {
		return plain()
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return plain()
	}

	out := make([][]HighlightedToken, 1, lineCount)
	for tok := it(); tok != chroma.EOF; tok = it() {
		style := t.styleFor(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, nil)
			}
			if part != "" {
				last := len(out) - 1
				out[last] = append(out[last], HighlightedToken{Text: part, Style: style})
			}
		}
	}
	for len(out) < lineCount {
		out = append(out, nil)
	}
	return out[:lineCount]
}
