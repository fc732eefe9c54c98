package adoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
)

const (
	lexerBufferSize          = 4096
	maxConsecutiveEmptyReads = 100
)

var commentDelimiter = []byte("////")

var wordDelimiters = func() [256]bool {
	var set [256]bool
	for _, b := range []byte(" *_`#[^~:\n\r\t") {
		set[b] = true
	}
	return set
}()

// byteText holds every byte value at its own index so single byte tokens can
// share their text.
var byteText = func() [256]byte {
	var text [256]byte
	for i := range text {
		text[i] = byte(i)
	}
	return text
}()

var errNilReader = errors.New("lexer: reader is nil")

// Lexer splits a byte stream into tokens.
//
// The lexer reads through a fixed buffer and only blocks on the source when
// the buffer is drained. Tokens are pulled one at a time with Next; there is
// no rewind. Pos reports the cursor, which advances once per consumed byte.
type Lexer struct {
	r      io.Reader
	err    error
	idx    int
	size   int
	line   int
	column int
	start  Pos
	buf    [lexerBufferSize]byte
}

// NewLexer returns a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	l := &Lexer{}
	l.Reset(r)
	return l
}

// Reset discards all state and starts reading from r at 1:1.
func (l *Lexer) Reset(r io.Reader) {
	l.r = r
	l.err = nil
	l.idx = 0
	l.size = 0
	l.line = 1
	l.column = 1
	l.start = Pos{Line: 1, Column: 1}
}

// Pos returns the position of the next byte to be read.
func (l *Lexer) Pos() Pos {
	return Pos{Line: l.line, Column: l.column}
}

// Start returns the position where the most recently returned token began.
func (l *Lexer) Start() Pos {
	return l.start
}

// Next returns the next token. It returns io.EOF once the source is
// exhausted, which ends iteration normally. Comments and carriage returns
// produce no tokens. Word delimiters without a rule of their own come back
// one at a time as symbols.
func (l *Lexer) Next() (Token, error) {
	for {
		c, err := l.current()
		if err != nil {
			return Token{}, err
		}
		l.start = l.Pos()
		switch c {
		case '/':
			if err := l.comment(); err != nil {
				return Token{}, err
			}
		case '<':
			return l.triple('<', TokenTripleLt)
		case '\'':
			return l.triple('\'', TokenTripleApos)
		case '\n':
			l.advance(c)
			return Token{Kind: TokenNewLine}, nil
		case '\r':
			l.advance(c)
		case '#':
			l.advance(c)
			return Token{Kind: TokenNumberSign}, nil
		case ' ':
			l.advance(c)
			return Token{Kind: TokenSpace}, nil
		case '*', '_', '`', '[', '^', '~', ':', '\t':
			l.advance(c)
			return Token{Kind: TokenSymbol, Text: byteText[int(c) : int(c)+1]}, nil
		default:
			return l.word()
		}
	}
}

// Tokens iterates over the remaining tokens. Iteration stops silently at the
// end of the source; any other error is yielded once and ends iteration.
func (l *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// advance consumes one buffered byte. Every consumption goes through here.
func (l *Lexer) advance(c byte) {
	l.idx++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) fill() error {
	if l.idx < l.size {
		return nil
	}
	l.idx, l.size = 0, 0
	if l.err != nil {
		return l.err
	}
	if l.r == nil {
		l.err = errNilReader
		return l.err
	}
	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		n, err := l.r.Read(l.buf[:])
		l.size = n
		if err != nil {
			l.err = wrapReadError(err)
		}
		if n > 0 {
			return nil
		}
		if err != nil {
			return l.err
		}
	}
	l.err = io.ErrNoProgress
	return l.err
}

// peek returns up to n buffered bytes starting at the cursor without
// consuming them. Fewer than n bytes are returned only when the source ends
// or fails first. The buffer is compacted so the window always lies inside
// the filled region.
func (l *Lexer) peek(n int) []byte {
	empty := 0
	for l.size-l.idx < n && l.err == nil && l.r != nil {
		if l.idx > 0 {
			l.size = copy(l.buf[:], l.buf[l.idx:l.size])
			l.idx = 0
		}
		m, err := l.r.Read(l.buf[l.size:])
		l.size += m
		if err != nil {
			l.err = wrapReadError(err)
			break
		}
		if m > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxConsecutiveEmptyReads {
			l.err = io.ErrNoProgress
		}
	}
	end := min(l.idx+n, l.size)
	return l.buf[l.idx:end]
}

func (l *Lexer) current() (byte, error) {
	if err := l.fill(); err != nil {
		return 0, err
	}
	return l.buf[l.idx], nil
}

func (l *Lexer) eat(expected byte) error {
	c, err := l.current()
	if err != nil {
		return err
	}
	if c != expected {
		return &UnexpectedCharError{Actual: c, Expected: []byte{expected}, Pos: l.Pos()}
	}
	l.advance(c)
	return nil
}

// eatRest is eat for bytes after the first of a fixed delimiter, where the
// end of the source means the delimiter was cut short.
func (l *Lexer) eatRest(expected byte) error {
	err := l.eat(expected)
	if err == io.EOF {
		return fmt.Errorf("lexer: %s: expected %s: %w", l.Pos(), quoteByte(expected), io.ErrUnexpectedEOF)
	}
	return err
}

func (l *Lexer) triple(c byte, kind TokenKind) (Token, error) {
	if err := l.eat(c); err != nil {
		return Token{}, err
	}
	if err := l.eatRest(c); err != nil {
		return Token{}, err
	}
	if err := l.eatRest(c); err != nil {
		return Token{}, err
	}
	return Token{Kind: kind}, nil
}

// comment skips a `//` line comment or a `///` block comment. A block
// comment runs until a line holding exactly `////`. The newline ending the
// comment is left for the caller.
func (l *Lexer) comment() error {
	if err := l.eat('/'); err != nil {
		return err
	}
	if err := l.eatRest('/'); err != nil {
		return err
	}
	c, err := l.current()
	if err != nil {
		return err
	}
	if err := l.skipLine(); err != nil {
		return err
	}
	if c != '/' {
		return nil
	}
	for {
		if err := l.eat('\n'); err != nil {
			return err
		}
		if l.atCommentDelimiter() {
			for _, b := range commentDelimiter {
				l.advance(b)
			}
			return nil
		}
		if err := l.skipLine(); err != nil {
			return err
		}
	}
}

func (l *Lexer) atCommentDelimiter() bool {
	n := len(commentDelimiter)
	window := l.peek(n + 1)
	if len(window) < n || !bytes.Equal(window[:n], commentDelimiter) {
		return false
	}
	return len(window) == n || window[n] == '\n' || window[n] == '\r'
}

// skipLine advances up to, not past, the next newline.
func (l *Lexer) skipLine() error {
	for {
		if err := l.fill(); err != nil {
			return err
		}
		for l.idx < l.size {
			c := l.buf[l.idx]
			if c == '\n' {
				return nil
			}
			l.advance(c)
		}
	}
}

func (l *Lexer) word() (Token, error) {
	var text []byte
	for {
		if err := l.fill(); err != nil {
			if err == io.EOF && len(text) > 0 {
				break
			}
			return Token{}, err
		}
		start := l.idx
		for l.idx < l.size && !wordDelimiters[l.buf[l.idx]] {
			l.advance(l.buf[l.idx])
		}
		text = append(text, l.buf[start:l.idx]...)
		if l.idx < l.size {
			break
		}
	}
	if len(text) == 0 {
		return Token{}, &InvariantError{Char: l.buf[l.idx], Pos: l.Pos()}
	}
	return Token{Kind: TokenWord, Text: text}, nil
}

func wrapReadError(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	return fmt.Errorf("lexer: read: %w", err)
}
