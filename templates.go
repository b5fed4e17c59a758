package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language represents the programming language of the workspace file.
// Language представляет язык программирования файла рабочего пространства.
type Language string

// Supported languages.
// Поддерживаемые языки.
const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangCpp        Language = "cpp"
	LangC          Language = "c"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangRuby       Language = "ruby"
	LangHTML       Language = "html"
	LangCSS        Language = "css"
	LangUnknown    Language = "unknown"
)

// DefaultLanguage is selected on first start and after a reset.
const DefaultLanguage = LangPython

// Strategy says how a language is run.
type Strategy int

const (
	// RemoteExecute sends the source to the execution service.
	RemoteExecute Strategy = iota
	// LocalRender builds a document and opens it in the browser.
	LocalRender
)

func (s Strategy) String() string {
	switch s {
	case RemoteExecute:
		return "remote-execute"
	case LocalRender:
		return "local-render"
	default:
		return "unknown"
	}
}

// Template is the starter file for a language.
// Template описывает стартовый файл для языка.
type Template struct {
	Language Language
	// Name is the human readable label shown in the status bar.
	Name   string
	Ext    string
	Source string
	// Strategy selects the dispatcher path.
	Strategy Strategy
	// RemoteName is the language identifier in the execution service vocabulary.
	RemoteName string
	// Lexer is the chroma lexer name.
	Lexer string
}

// FileName returns "main.<ext>".
func (t Template) FileName() string {
	return "main." + t.Ext
}

var languageOrder = []Language{
	LangPython, LangJavaScript, LangCpp, LangC, LangJava, LangGo, LangRuby, LangHTML, LangCSS,
}

var templates = map[Language]Template{
	LangPython: {
		Language:   LangPython,
		Name:       "Python",
		Ext:        "py",
		Strategy:   RemoteExecute,
		RemoteName: "python",
		Lexer:      "python",
		Source: `# Python example
print("Hello from Python")`,
	},
	LangJavaScript: {
		Language:   LangJavaScript,
		Name:       "JavaScript",
		Ext:        "js",
		Strategy:   RemoteExecute,
		RemoteName: "javascript",
		Lexer:      "javascript",
		Source: `// JavaScript example
console.log("Hello from JavaScript");`,
	},
	LangCpp: {
		Language:   LangCpp,
		Name:       "C++",
		Ext:        "cpp",
		Strategy:   RemoteExecute,
		RemoteName: "c++",
		Lexer:      "cpp",
		Source: `#include <iostream>
using namespace std;

int main() {
  cout << "Hello from C++";
  return 0;
}`,
	},
	LangC: {
		Language:   LangC,
		Name:       "C",
		Ext:        "c",
		Strategy:   RemoteExecute,
		RemoteName: "c",
		Lexer:      "c",
		Source: `#include <stdio.h>

int main() {
  printf("Hello from C");
  return 0;
}`,
	},
	LangJava: {
		Language:   LangJava,
		Name:       "Java",
		Ext:        "java",
		Strategy:   RemoteExecute,
		RemoteName: "java",
		Lexer:      "java",
		Source: `class Main {
  public static void main(String[] args) {
    System.out.println("Hello from Java");
  }
}`,
	},
	LangGo: {
		Language:   LangGo,
		Name:       "Go",
		Ext:        "go",
		Strategy:   RemoteExecute,
		RemoteName: "go",
		Lexer:      "go",
		Source: `package main

import "fmt"

func main() {
	fmt.Println("Hello from Go")
}`,
	},
	LangRuby: {
		Language:   LangRuby,
		Name:       "Ruby",
		Ext:        "rb",
		Strategy:   RemoteExecute,
		RemoteName: "ruby",
		Lexer:      "ruby",
		Source: `# Ruby example
puts "Hello from Ruby"`,
	},
	LangHTML: {
		Language: LangHTML,
		Name:     "HTML",
		Ext:      "html",
		Strategy: LocalRender,
		Lexer:    "html",
		Source: `<!DOCTYPE html>
<html>
<head>
  <title>Cloud Editor</title>
</head>
<body>
  <h1>Hello HTML 👋</h1>
  <p>Live preview opened in new tab</p>
</body>
</html>`,
	},
	LangCSS: {
		Language: LangCSS,
		Name:     "CSS",
		Ext:      "css",
		Strategy: LocalRender,
		Lexer:    "css",
		Source: `body {
  background: #020617;
  color: white;
  font-family: Arial;
}`,
	},
}

// LookupTemplate returns the template registered for lang.
func LookupTemplate(lang Language) (Template, bool) {
	t, ok := templates[lang]
	return t, ok
}

// Languages returns the supported languages in menu order.
func Languages() []Language {
	out := make([]Language, len(languageOrder))
	copy(out, languageOrder)
	return out
}

// NextLanguage returns the language after lang in menu order, wrapping around.
func NextLanguage(lang Language) Language {
	for i, l := range languageOrder {
		if l == lang {
			return languageOrder[(i+1)%len(languageOrder)]
		}
	}
	return DefaultLanguage
}

// ParseLanguage accepts a language id, a file extension or a display name.
// ParseLanguage принимает идентификатор языка, расширение файла или отображаемое имя.
func ParseLanguage(s string) (Language, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if key == "" {
		return LangUnknown, fmt.Errorf("%w: empty name", ErrUnknownLanguage)
	}
	for _, lang := range languageOrder {
		t := templates[lang]
		if key == string(lang) || key == t.Ext || key == strings.ToLower(t.Name) {
			return lang, nil
		}
	}
	switch key {
	case "c++", "cc", "cxx":
		return LangCpp, nil
	case "js", "node":
		return LangJavaScript, nil
	case "htm":
		return LangHTML, nil
	}
	return LangUnknown, fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// DetectLanguage detects the language based on the file extension.
// DetectLanguage определяет язык на основе расширения файла.
func DetectLanguage(filename string) Language {
	ext := filepath.Ext(filename)
	if ext == "" {
		return LangUnknown
	}
	lang, err := ParseLanguage(ext)
	if err != nil {
		return LangUnknown
	}
	return lang
}
