package analysis

import (
	"strings"
	"unicode"
)

// isBoundary reports whether r separates words: whitespace, the Indic danda
// and double danda, sentence punctuation, brackets, '&' and '='.
func isBoundary(r rune) bool {
	if unicode.IsSpace(r) || r == '\uFEFF' {
		return true
	}
	switch r {
	case '\u0964', '\u0965', '!', ',', '.', '(', ')', '{', '}', '[', ']', '&', '=':
		return true
	}
	return false
}

// Tokenize splits input into candidate words. Runs of boundary characters
// never produce empty words.
func Tokenize(input string) []string {
	return strings.FieldsFunc(input, isBoundary)
}
