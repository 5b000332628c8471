package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		name       string
		credential string
		want       bool
	}{
		{"meets all rules", "Abcdefg!", true},
		{"no uppercase", "abcdefgh", false},
		{"no special char", "ABCDEFGH1", false},
		{"digit is not special", "Abcdefg1", false},
		{"too short", "Ab1", false},
		{"too short with special", "Ab!", false},
		{"empty", "", false},
		{"underscore counts as special", "Abcdef_g", true},
		{"braces count as special", "Abcdef{}", true},
		{"no lowercase", "ABCDEFG!", false},
		{"seven chars with multibyte letter", "ÀAbcde!", false},
		{"eight chars with multibyte letter", "ÀAbcdef!", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsStrongPassword(tc.credential))
		})
	}
}

func TestIsStrongPasswordShortInputs(t *testing.T) {
	// Everything under 8 characters fails regardless of content.
	for _, s := range []string{"", "a", "Ab!", "Abcdef!", "ABCdef?"} {
		assert.False(t, IsStrongPassword(s), "expected %q to be rejected", s)
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\t\n"))
	assert.False(t, IsBlank("Dupont"))
	assert.False(t, IsBlank("  x  "))
}
