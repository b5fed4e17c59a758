package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinTokens(line []HighlightedToken) string {
	var sb strings.Builder
	for _, tok := range line {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

func TestHighlightKeepsText(t *testing.T) {
	theme := VSDarkTheme()
	for _, lang := range Languages() {
		tmpl, _ := LookupTemplate(lang)
		lines := theme.Highlight(lang, tmpl.Source)
		src := strings.Split(tmpl.Source, "\n")
		require.Len(t, lines, len(src), lang)
		for i := range src {
			assert.Equal(t, src[i], joinTokens(lines[i]), "%s line %d", lang, i)
		}
	}
}

func TestHighlightStyles(t *testing.T) {
	theme := VSDarkTheme()
	lines := theme.Highlight(LangPython, "# note\nprint(\"hi\")")
	require.Len(t, lines, 2)

	require.NotEmpty(t, lines[0])
	assert.Equal(t, theme.Comment, lines[0][0].Style)

	var sawString bool
	for _, tok := range lines[1] {
		if strings.Contains(tok.Text, "hi") && tok.Style == theme.String {
			sawString = true
		}
	}
	assert.True(t, sawString)
}

func TestHighlightUnknownLanguage(t *testing.T) {
	theme := VSDarkTheme()
	lines := theme.Highlight(LangUnknown, "a\nb")
	require.Len(t, lines, 2)
	assert.Equal(t, []HighlightedToken{{Text: "a", Style: theme.Default}}, lines[0])
}

func TestHighlightTrailingNewline(t *testing.T) {
	lines := VSDarkTheme().Highlight(LangGo, "package main\n")
	assert.Len(t, lines, 2)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, tcell.NewRGBColor(0x1e, 0x1e, 0x1e), hexColor("#1e1e1e"))
	assert.Equal(t, tcell.ColorDefault, hexColor("nope"))
}
