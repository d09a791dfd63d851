package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+998\d{9}$`)

// NormalizePhone strips spaces and dashes users type into phone fields.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

// ValidPhone reports whether phone is an Uzbek number in +998XXXXXXXXX form.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
