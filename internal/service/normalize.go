package service

import (
	"strings"
	"unicode"
)

// MatchKey canonicalizes a title so the same game matches across sources:
// lowercase, non-alphanumerics stripped, whitespace collapsed. Pure
// function of the title; "Game: Special Edition!" and "game special
// edition" yield the same key.
func MatchKey(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
