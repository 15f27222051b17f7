package plagiarism

import (
	"strings"
	"unicode"
)

// Document is the token sequence of one source file.
type Document struct {
	Path   string
	Tokens []string
}

// Tokenize strips every rune that is neither a word character (letter, number,
// underscore) nor whitespace, lower-cases the rest and splits on whitespace runs.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case isSpace(r):
			return r
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			return unicode.ToLower(r)
		default:
			return -1
		}
	}, text)

	return strings.FieldsFunc(cleaned, isSpace)
}

// isSpace also counts the information separators U+001C..U+001F as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}
