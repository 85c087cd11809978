// Package formula turns free text typed into the formula bar into tokens,
// finds the tag name being typed at the tail, substitutes accepted
// suggestions and evaluates the result against a tag catalog.
package formula

import (
	"strings"

	"tagcalc/internal/tag"
)

// IsOperator reports whether b is one of + - / * ^.
func IsOperator(b byte) bool {
	switch b {
	case '+', '-', '/', '*', '^':
		return true
	}
	return false
}

// StripSpaces removes every whitespace rune from s. Tag names are
// normalized the same way, so a token matches a tag key.
func StripSpaces(s string) string {
	return tag.Normalize(s)
}

// Tokenize splits raw into operands and single-character operators, in
// order. Whitespace is dropped first; empty operands are never emitted.
//
//	Tokenize("=2 + 3")    -> ["=2", "+", "3"]
//	Tokenize("-rev*-2")   -> ["-", "rev", "*", "-", "2"]
func Tokenize(raw string) []string {
	s := StripSpaces(raw)
	if s == "" {
		return nil
	}
	tokens := make([]string, 0, 4)
	start := 0
	for i := 0; i < len(s); i++ {
		if !IsOperator(s[i]) {
			continue
		}
		if i > start {
			tokens = append(tokens, s[start:i])
		}
		tokens = append(tokens, s[i:i+1])
		start = i + 1
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// Join concatenates tokens back into formula text.
func Join(tokens []string) string {
	return strings.Join(tokens, "")
}

// IsBlank reports whether raw has no visible characters. A blank input
// clears the formula rather than producing an empty token list to evaluate.
func IsBlank(raw string) bool {
	return StripSpaces(raw) == ""
}
