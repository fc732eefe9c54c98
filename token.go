package adoc

import "strconv"

// Token is a single lexical unit read from the source. Only words and
// symbols carry text.
type Token struct {
	Kind TokenKind
	Text []byte
}

// TokenKind classifies a Token.
type TokenKind uint8

const (
	// TokenNewLine is a line feed.
	TokenNewLine TokenKind = iota
	// TokenSpace is a single space.
	TokenSpace
	// TokenNumberSign is a `#`.
	TokenNumberSign
	// TokenTripleApos is `'''`.
	TokenTripleApos
	// TokenTripleLt is `<<<`.
	TokenTripleLt
	// TokenWord is a run of bytes outside the delimiter set.
	TokenWord
	// TokenSymbol is a single delimiter byte that starts no construct,
	// such as `:` or a tab.
	TokenSymbol
)

var tokenKindNames = [...]string{
	TokenNewLine:    "NewLine",
	TokenSpace:      "Space",
	TokenNumberSign: "NumberSign",
	TokenTripleApos: "TripleApos",
	TokenTripleLt:   "TripleLt",
	TokenWord:       "Word",
	TokenSymbol:     "Symbol",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Bytes returns the source bytes the token stands for. The returned slice
// must not be modified.
func (t Token) Bytes() []byte {
	switch t.Kind {
	case TokenNewLine:
		return newlineBytes
	case TokenSpace:
		return spaceBytes
	case TokenNumberSign:
		return numberSignBytes
	case TokenTripleApos:
		return tripleAposBytes
	case TokenTripleLt:
		return tripleLtBytes
	default:
		return t.Text
	}
}

func (t Token) String() string {
	if t.Kind == TokenWord || t.Kind == TokenSymbol {
		return t.Kind.String() + "(" + strconv.Quote(string(t.Text)) + ")"
	}
	return t.Kind.String()
}

var (
	newlineBytes    = []byte("\n")
	spaceBytes      = []byte(" ")
	numberSignBytes = []byte("#")
	tripleAposBytes = []byte("'''")
	tripleLtBytes   = []byte("<<<")
)

// Pos is a 1-based line and column in the source. Columns count bytes.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
