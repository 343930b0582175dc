package spice

import "strings"

// Fields splits a logical line on whitespace, treating any text between
// single quotes as part of the token it started in. Quotes are kept in the
// token, so w='1u + 2u' survives as one token with its quotes intact. An
// unterminated quote swallows the rest of the line into the current token.
func Fields(text string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	for _, r := range text {
		switch {
		case r == '\'':
			inQuote = !inQuote
			cur.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// hasUnterminatedQuote reports whether the line carries an odd number of
// single quotes, which means Fields folded the tail into one token.
func hasUnterminatedQuote(text string) bool {
	return strings.Count(text, "'")%2 == 1
}
