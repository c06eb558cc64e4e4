package display

import (
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return WrapWidth(text, DefaultWidth)
}

// WrapWidth word-wraps text to width. Words longer than a line are broken.
func WrapWidth(text string, width int) string {
	return wrap.String(wordwrap.String(text, width), width)
}

var (
	upper = cases.Upper(language.English)
	title = cases.Title(language.English, cases.NoLower)
)

// Capitalize returns s with its first letter uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return upper.String(s[:size]) + s[size:]
}

// Title uppercases the first letter of every word in s.
func Title(s string) string {
	return title.String(s)
}
