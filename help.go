package main

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

var helpMatcher = language.NewMatcher([]language.Tag{language.English, language.Russian})

// detectSystemLanguage detects the language of the OS locale ("en" or "ru").
// detectSystemLanguage определяет язык локали ОС.
func detectSystemLanguage() string {
	candidates := []string{
		os.Getenv("LC_ALL"),
		os.Getenv("LC_MESSAGES"),
		os.Getenv("LANG"),
		os.Getenv("LANGUAGE"),
	}
	for _, v := range candidates {
		tag := localeTag(v)
		if tag == "" {
			continue
		}
		_, idx := language.MatchStrings(helpMatcher, tag)
		if idx == 1 {
			return "ru"
		}
		return "en"
	}
	return "en"
}

// localeTag turns a POSIX locale such as "ru_RU.UTF-8" into a BCP 47 tag.
func localeTag(locale string) string {
	if i := strings.IndexByte(locale, ':'); i != -1 {
		locale = locale[:i]
	}
	if i := strings.IndexAny(locale, ".@"); i != -1 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

// keysHelp returns the keyboard reference shown by F1.
func keysHelp(lang string) string {
	if lang == "ru" {
		return keysHelpRU
	}
	return keysHelpEN
}

const keysHelpEN = `CodeDeck - keyboard

  Ctrl-R, F5   Run the code (HTML/CSS: open preview in browser)
  Ctrl-S       Save the file into the export directory
  Ctrl-N       Reset the workspace to defaults
  Ctrl-L       Choose language
  F2           Next language
  Ctrl-O, F6   Switch Code/Output tab (narrow terminal)
  Ctrl-P       Open live preview in browser
  Ctrl-V       Paste clipboard
  Ctrl-Y       Copy output to clipboard
  Ctrl-Z       Undo
  Ctrl-E       Redo
  F1           This help
  Ctrl-Q       Quit

Mouse:
  Drag the divider to resize the panes.
  Click a tab header to switch tabs.

Navigation:
  Arrows, Home/End, PgUp/PgDn - navigation in text`

const keysHelpRU = `CodeDeck - клавиши

  Ctrl-R, F5   Запустить код (HTML/CSS: предпросмотр в браузере)
  Ctrl-S       Сохранить файл в каталог экспорта
  Ctrl-N       Сбросить рабочее пространство
  Ctrl-L       Выбрать язык
  F2           Следующий язык
  Ctrl-O, F6   Переключить вкладку Код/Вывод (узкий терминал)
  Ctrl-P       Открыть живой предпросмотр в браузере
  Ctrl-V       Вставить из буфера обмена
  Ctrl-Y       Копировать вывод в буфер обмена
  Ctrl-Z       Отменить
  Ctrl-E       Вернуть отменённое
  F1           Эта справка
  Ctrl-Q       Выход

Мышь:
  Перетащите разделитель, чтобы изменить ширину панелей.
  Щелчок по заголовку вкладки переключает вкладку.

Навигация:
  Стрелки, Home/End, PgUp/PgDn - навигация по тексту`

// usageLong returns the long description of the root command.
func usageLong(lang string) string {
	if lang == "ru" {
		return `CodeDeck - многоязычная песочница для кода в терминале.

Python, JavaScript, C++, C, Java, Go и Ruby выполняются удалённым сервисом
(Piston API). HTML и CSS открываются в браузере. Рабочее пространство
сохраняется между запусками.

` + keysHelpRU
	}
	return `CodeDeck - a multi-language code playground in the terminal.

Python, JavaScript, C++, C, Java, Go and Ruby run on a remote execution
service (Piston API). HTML and CSS open in the browser. The workspace is
kept between sessions.

` + keysHelpEN
}
