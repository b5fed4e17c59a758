package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSystemLanguage(t *testing.T) {
	tests := []struct {
		name   string
		lcAll  string
		lang   string
		expect string
	}{
		{"russian posix locale", "", "ru_RU.UTF-8", "ru"},
		{"english", "", "en_US.UTF-8", "en"},
		{"lc_all wins", "ru_RU.UTF-8", "en_US.UTF-8", "ru"},
		{"unsupported falls back", "", "de_DE.UTF-8", "en"},
		{"C locale", "", "C", "en"},
		{"nothing set", "", "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MESSAGES", "")
			t.Setenv("LANG", tt.lang)
			t.Setenv("LANGUAGE", "")
			assert.Equal(t, tt.expect, detectSystemLanguage())
		})
	}
}

func TestLocaleTag(t *testing.T) {
	assert.Equal(t, "ru-RU", localeTag("ru_RU.UTF-8"))
	assert.Equal(t, "en", localeTag("en:ru"))
	assert.Equal(t, "sr-RS", localeTag("sr_RS@latin"))
	assert.Empty(t, localeTag("POSIX"))
}

func TestKeysHelp(t *testing.T) {
	assert.Contains(t, keysHelp("en"), "Ctrl-R, F5")
	assert.Contains(t, keysHelp("ru"), "Выход")
	assert.Equal(t, keysHelp("en"), keysHelp("fr"))
	assert.Contains(t, usageLong("ru"), keysHelpRU)
	assert.Contains(t, usageLong("en"), "Piston API")
}
