package config

import "strings"

// Tokenize splits driver config text into whitespace-separated tokens.
// A '#' starts a comment that runs to the end of the line.
func Tokenize(data []byte) []string {
	return strings.Fields(stripComments(data))
}

// stripComments blanks everything from '#' up to the next line break.
// Spaces and tabs inside a comment do not end it.
func stripComments(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))

	inComment := false
	for _, c := range data {
		switch {
		case c == '#':
			inComment = true
		case inComment && isLineBreak(c):
			inComment = false
		}
		if inComment {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isLineBreak(c byte) bool {
	return c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
