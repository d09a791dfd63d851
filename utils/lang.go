package utils

import (
	"golang.org/x/text/language"
)

// Supported interface languages; the first one is the fallback.
var SupportedLangs = []string{"uz", "ru", "en"}

var langMatcher = language.NewMatcher([]language.Tag{
	language.Uzbek,
	language.Russian,
	language.English,
})

// NegotiateLang picks the best supported language for an Accept-Language
// header value. A missing, unparsable or unmatched header yields fallback
// (or the first supported language if fallback is unsupported too).
func NegotiateLang(acceptLanguage, fallback string) string {
	fallback = NormalizeLang(fallback, SupportedLangs[0])
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return SupportedLangs[idx]
}

// NormalizeLang returns lang if supported, otherwise fallback.
func NormalizeLang(lang, fallback string) string {
	if IsSupportedLang(lang) {
		return lang
	}
	if IsSupportedLang(fallback) {
		return fallback
	}
	return SupportedLangs[0]
}

func IsSupportedLang(lang string) bool {
	for _, l := range SupportedLangs {
		if l == lang {
			return true
		}
	}
	return false
}
