package ocr

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a target language code accepted by the translate workflow
type Language string

const (
	Spanish    Language = "es"
	English    Language = "en"
	French     Language = "fr"
	German     Language = "de"
	Italian    Language = "it"
	Portuguese Language = "pt"
)

// DefaultLanguage is preselected in the form
const DefaultLanguage = Spanish

var supportedLanguages = []Language{Spanish, English, French, German, Italian, Portuguese}

// Languages returns the supported target languages in display order
func Languages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ParseLanguage validates a language code
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		codes := make([]string, 0, len(supportedLanguages))
		for _, sl := range supportedLanguages {
			codes = append(codes, string(sl))
		}
		return "", fmt.Errorf("unsupported language: %q (must be one of: %s)", s, strings.Join(codes, ", "))
	}
	return l, nil
}

// Valid reports whether l is one of the supported codes
func (l Language) Valid() bool {
	for _, sl := range supportedLanguages {
		if l == sl {
			return true
		}
	}
	return false
}

// Name returns the English name of the language, e.g. "French"
func (l Language) Name() string {
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return string(l)
}

// SelfName returns the language's name in itself, e.g. "français"
func (l Language) SelfName() string {
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return string(l)
}

// Index returns the position of l in Languages(), or -1
func (l Language) Index() int {
	for i, sl := range supportedLanguages {
		if l == sl {
			return i
		}
	}
	return -1
}
