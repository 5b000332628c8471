package handle

import (
	"strconv"
	"strings"
	"unicode"
)

// Generate derives a unique login handle from name fields. The base
// candidate is the lowercased first rune of the given name followed by the
// lowercased surname, with all whitespace removed. On collision an
// ascending integer suffix is appended starting at 1 until a free handle
// is found. The existing set is never mutated.
//
// Callers must reject blank given names before calling; an empty given
// name is undefined input.
func Generate(givenName, surname string, existing map[string]struct{}) string {
	base := strings.ToLower(string([]rune(givenName)[0]) + surname)
	base = stripWhitespace(base)

	if _, taken := existing[base]; !taken {
		return base
	}

	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
