package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesCoverEveryLanguage(t *testing.T) {
	for _, lang := range Languages() {
		tmpl, ok := LookupTemplate(lang)
		require.True(t, ok, lang)
		assert.Equal(t, lang, tmpl.Language)
		assert.NotEmpty(t, tmpl.Source, lang)
		assert.Equal(t, "main."+tmpl.Ext, tmpl.FileName())
		if tmpl.Strategy == RemoteExecute {
			assert.NotEmpty(t, tmpl.RemoteName, lang)
		}
	}
}

func TestTemplateStrategies(t *testing.T) {
	local := map[Language]bool{LangHTML: true, LangCSS: true}
	for _, lang := range Languages() {
		tmpl, _ := LookupTemplate(lang)
		if local[lang] {
			assert.Equal(t, LocalRender, tmpl.Strategy, lang)
		} else {
			assert.Equal(t, RemoteExecute, tmpl.Strategy, lang)
		}
	}
}

func TestTemplateStarterSources(t *testing.T) {
	py, _ := LookupTemplate(LangPython)
	assert.Equal(t, "# Python example\nprint(\"Hello from Python\")", py.Source)

	cpp, _ := LookupTemplate(LangCpp)
	assert.Equal(t, "c++", cpp.RemoteName)
	assert.Equal(t, "main.cpp", cpp.FileName())
}

func TestLookupTemplateUnknown(t *testing.T) {
	_, ok := LookupTemplate(Language("cobol"))
	assert.False(t, ok)
}

func TestLanguagesReturnsCopy(t *testing.T) {
	langs := Languages()
	langs[0] = LangUnknown
	assert.Equal(t, LangPython, Languages()[0])
}

func TestNextLanguageWraps(t *testing.T) {
	assert.Equal(t, LangJavaScript, NextLanguage(LangPython))
	assert.Equal(t, LangPython, NextLanguage(LangCSS))
	assert.Equal(t, DefaultLanguage, NextLanguage(LangUnknown))
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"python", LangPython},
		{"PY", LangPython},
		{".js", LangJavaScript},
		{"node", LangJavaScript},
		{"C++", LangCpp},
		{"cxx", LangCpp},
		{"c", LangC},
		{"Java", LangJava},
		{" go ", LangGo},
		{"rb", LangRuby},
		{"htm", LangHTML},
		{"css", LangCSS},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLanguageErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "cobol", "unknown"} {
		_, err := ParseLanguage(in)
		assert.ErrorIs(t, err, ErrUnknownLanguage, in)
	}
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LangPython, DetectLanguage("/tmp/main.py"))
	assert.Equal(t, LangCpp, DetectLanguage("a.cc"))
	assert.Equal(t, LangHTML, DetectLanguage("index.HTML"))
	assert.Equal(t, LangUnknown, DetectLanguage("Makefile"))
	assert.Equal(t, LangUnknown, DetectLanguage("notes.txt"))
}
