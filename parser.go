package adoc

import (
	"io"
	"iter"
	"slices"

	"pkt.systems/adoc/node"
)

// Parser builds document nodes from a token stream.
//
// It understands the block rules `'''` (horizontal rule) and `<<<` (page
// break) on a line of their own, and paragraphs separated by blank lines.
// Inside a paragraph a line break becomes a space and `#text#` becomes a
// mark. A `#` that is never closed is kept as a literal word, and so is
// every symbol token.
type Parser struct {
	lex    *Lexer
	tok    Token
	err    error
	peeked bool
}

// NewParser returns a parser reading tokens from lex.
func NewParser(lex *Lexer) *Parser {
	return &Parser{lex: lex}
}

// Next returns the next block. It returns io.EOF when the tokens run out.
func (p *Parser) Next() (node.Node, error) {
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenNewLine {
			break
		}
		p.skip()
	}
	tok, _ := p.peek()
	if tok.Kind != TokenTripleApos && tok.Kind != TokenTripleLt {
		return p.paragraph(nil)
	}
	p.skip()
	end, err := p.peek()
	switch {
	case err == io.EOF:
	case err != nil:
		return nil, err
	case end.Kind == TokenNewLine:
		p.skip()
	default:
		return p.paragraph([]node.Item{node.Word(tok.Bytes())})
	}
	if tok.Kind == TokenTripleApos {
		return node.HorizontalRule{}, nil
	}
	return node.PageBreak{}, nil
}

// All iterates over the remaining blocks. Iteration stops silently at the
// end of input; any other error is yielded once and ends iteration.
func (p *Parser) All() iter.Seq2[node.Node, error] {
	return func(yield func(node.Node, error) bool) {
		for {
			n, err := p.Next()
			if err == io.EOF {
				return
			}
			if !yield(n, err) || err != nil {
				return
			}
		}
	}
}

func (p *Parser) paragraph(items []node.Item) (node.Node, error) {
	inMark := false
	markStart := 0
	for {
		tok, err := p.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p.skip()
		if tok.Kind == TokenNewLine {
			next, err := p.peek()
			if err == io.EOF || (err == nil && next.Kind == TokenNewLine) {
				break
			}
			if err != nil {
				return nil, err
			}
			items = append(items, node.Space{})
			continue
		}
		switch tok.Kind {
		case TokenNumberSign:
			if !inMark {
				inMark = true
				markStart = len(items)
				continue
			}
			inner := slices.Clone(items[markStart:])
			items = append(items[:markStart], node.Mark{Text: node.NewText(inner...)})
			inMark = false
		case TokenSpace:
			items = append(items, node.Space{})
		default:
			items = append(items, node.Word(tok.Bytes()))
		}
	}
	if inMark {
		items = slices.Insert(items, markStart, node.Item(node.Word("#")))
	}
	return node.Paragraph{Text: node.NewText(items...)}, nil
}

func (p *Parser) peek() (Token, error) {
	if !p.peeked {
		p.tok, p.err = p.lex.Next()
		p.peeked = true
	}
	return p.tok, p.err
}

func (p *Parser) skip() {
	p.peeked = false
}
