package validator

import (
	"strings"
	"unicode/utf8"
)

const specialChars = "!/$%?&*()-_+<>[]^{}"

// IsStrongPassword reports whether a credential meets the strength policy:
// at least 8 characters, at least one lowercase ASCII letter, at least one
// uppercase ASCII letter, and at least one character from the special set.
// All four conditions must hold.
func IsStrongPassword(credential string) bool {
	if utf8.RuneCountInString(credential) < 8 {
		return false
	}

	var hasLower, hasUpper, hasSpecial bool
	for _, c := range credential {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case strings.ContainsRune(specialChars, c):
			hasSpecial = true
		}
	}

	return hasLower && hasUpper && hasSpecial
}

// IsBlank reports whether a required field is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
