package net

import (
	"math/rand/v2"
	"strings"
)

// CodeAlphabet leaves out 0/O and 1/I.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of characters in a match code.
const CodeLength = 6

// NewCode returns a random match code.
func NewCode() string {
	var b strings.Builder
	for range CodeLength {
		b.WriteByte(CodeAlphabet[rand.IntN(len(CodeAlphabet))])
	}
	return b.String()
}

// NormalizeCode upper-cases a user-typed code and drops separators.
func NormalizeCode(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(s)))
}
