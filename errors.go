package adoc

import (
	"fmt"
	"strconv"
)

// UnexpectedCharError reports a byte that does not continue a fixed
// delimiter such as `<<<`, `'''` or `//`.
type UnexpectedCharError struct {
	Actual   byte
	Expected []byte
	Pos      Pos
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("lexer: %s: unexpected character %s, expected %s",
		e.Pos, quoteByte(e.Actual), quoteBytes(e.Expected))
}

// InvariantError reports that word classification could not consume the
// byte at Pos. It points at a mismatch between the classifier and the word
// delimiter set and is never expected for well-formed input.
type InvariantError struct {
	Char byte
	Pos  Pos
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("lexer: %s: bug in the lexer, next character %s is not part of a word token",
		e.Pos, quoteByte(e.Char))
}

func quoteByte(b byte) string {
	return strconv.QuoteRune(rune(b))
}

func quoteBytes(bs []byte) string {
	switch len(bs) {
	case 0:
		return "nothing"
	case 1:
		return quoteByte(bs[0])
	}
	out := ""
	for i, b := range bs {
		if i > 0 {
			out += " or "
		}
		out += quoteByte(b)
	}
	return out
}
