package earley

import (
	"strings"
	"unicode/utf8"
)

// SplitRunes makes each character of `s` an input symbol. A byte not forming valid UTF-8 becomes an
// input symbol by itself, so it matches a terminal consisting of the same byte.
func SplitRunes(s string) []string {
	input := make([]string, 0, len(s))
	for len(s) > 0 {
		_, size := utf8.DecodeRuneInString(s)
		input = append(input, s[:size])
		s = s[size:]
	}
	return input
}

// SplitFields makes each whitespace-separated word of `s` an input symbol.
func SplitFields(s string) []string {
	return strings.Fields(s)
}
