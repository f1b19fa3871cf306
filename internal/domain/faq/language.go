package faq

import (
	"fmt"
	"strings"
)

// Language selects which question/answer columns of a record are used.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageHindi    Language = "hindi"
	LanguageMarathi  Language = "marathi"
	LanguageBengali  Language = "bengali"
	LanguageTamil    Language = "tamil"
	LanguageTelugu   Language = "telugu"
	LanguageAssamese Language = "assamese"
)

var languageCodes = map[Language]string{
	LanguageEnglish:  "en",
	LanguageHindi:    "hi",
	LanguageMarathi:  "mr",
	LanguageBengali:  "bn",
	LanguageTamil:    "ta",
	LanguageTelugu:   "te",
	LanguageAssamese: "as",
}

// SupportedLanguages lists the closed language set in display order.
func SupportedLanguages() []Language {
	return []Language{
		LanguageEnglish,
		LanguageHindi,
		LanguageMarathi,
		LanguageBengali,
		LanguageTamil,
		LanguageTelugu,
		LanguageAssamese,
	}
}

// ParseLanguage accepts a language name ("Hindi") or ISO 639-1 code ("hi").
func ParseLanguage(raw string) (Language, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("language cannot be empty")
	}
	for lang, code := range languageCodes {
		if value == string(lang) || value == code {
			return lang, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", raw)
}

// Code returns the ISO 639-1 code used by the speech services.
func (l Language) Code() string {
	return languageCodes[l]
}

// Title is the display name, e.g. "Hindi".
func (l Language) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Valid reports whether l belongs to the supported set.
func (l Language) Valid() bool {
	_, ok := languageCodes[l]
	return ok
}
