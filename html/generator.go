package html

import (
	"io"

	"pkt.systems/adoc/node"
)

const (
	pageBreakAttributes = `style="page-break-after: always;"`
	paragraphAttributes = `class="paragraph"`
)

// Generator builds HTML trees from document nodes, with one method per node
// and item kind. Node, Text and Item dispatch to the more specific methods.
type Generator interface {
	Node(n node.Node) Node
	HorizontalRule() Node
	PageBreak() Node
	Paragraph(text node.Text) Node
	Text(text node.Text) Node
	Item(item node.Item) Node
	Word(word node.Word) Node
	Space() Node
	Mark(text node.Text, attrs []node.Attribute) Node
	Tagged(tag node.Tag, text node.Text, attrs []node.Attribute) Node
}

// Base is the default Generator.
//
// Custom backends embed Base, override the methods they need and point Self
// at the outer value. Base routes every nested call through Self, so an
// override applies at any depth while the remaining kinds keep the default
// behavior:
//
//	type strict struct{ html.Base }
//
//	func (s *strict) Space() html.Node { return html.Text("&#32;") }
//
//	g := &strict{}
//	g.Self = g
type Base struct {
	// Self receives nested calls. A nil Self means the Base itself.
	Self Generator
}

// New returns the default generator.
func New() Generator {
	return &Base{}
}

// Render generates the tree for n with g and writes it to w.
func Render(w io.Writer, g Generator, n node.Node) error {
	return Write(w, g.Node(n))
}

func (b *Base) self() Generator {
	if b.Self != nil {
		return b.Self
	}
	return b
}

// Node dispatches on the block kind. Unknown kinds produce Empty.
func (b *Base) Node(n node.Node) Node {
	g := b.self()
	switch n := n.(type) {
	case node.HorizontalRule:
		return g.HorizontalRule()
	case node.PageBreak:
		return g.PageBreak()
	case node.Paragraph:
		return g.Paragraph(n.Text)
	}
	return Empty{}
}

func (b *Base) HorizontalRule() Node {
	return Hr{}
}

func (b *Base) PageBreak() Node {
	return Div{Attributes: pageBreakAttributes, Child: Empty{}}
}

func (b *Base) Paragraph(text node.Text) Node {
	return Div{
		Attributes: paragraphAttributes,
		Child:      P{Child: b.self().Text(text)},
	}
}

// Text renders every item, preserving order.
func (b *Base) Text(text node.Text) Node {
	g := b.self()
	run := make(TextRun, 0, len(text.Items))
	for _, item := range text.Items {
		run = append(run, g.Item(item))
	}
	return run
}

// Item dispatches on the inline kind. Unknown kinds produce Empty.
func (b *Base) Item(item node.Item) Node {
	g := b.self()
	switch it := item.(type) {
	case node.Word:
		return g.Word(it)
	case node.Space:
		return g.Space()
	case node.Mark:
		return g.Mark(it.Text, it.Attributes)
	case node.Tagged:
		return g.Tagged(it.Tag, it.Text, it.Attributes)
	}
	return Empty{}
}

func (b *Base) Word(word node.Word) Node {
	return Text(word)
}

func (b *Base) Space() Node {
	return Text(" ")
}

// Mark renders a mark element, or a span carrying the attributes when there
// are any. Each ID becomes an anchor in front of the element.
func (b *Base) Mark(text node.Text, attrs []node.Attribute) Node {
	child := b.self().Text(text)
	if len(attrs) == 0 {
		return Mark{Child: child}
	}
	ids, rest := SplitIDs(attrs)
	return Anchored(Span{Attributes: Attributes(rest), Child: child}, ids...)
}

// Tagged renders the element named by tag. Each ID becomes an anchor in
// front of the element.
func (b *Base) Tagged(tag node.Tag, text node.Text, attrs []node.Attribute) Node {
	ids, rest := SplitIDs(attrs)
	return Anchored(Tag{
		Name:       tag.String(),
		Attributes: Attributes(rest),
		Child:      b.self().Text(text),
	}, ids...)
}

// Anchored places one anchor per id, in order, right before el. Without ids
// it returns el unchanged.
func Anchored(el Node, ids ...node.ID) Node {
	for i := len(ids) - 1; i >= 0; i-- {
		el = Seq{First: A{ID: string(ids[i])}, Second: el}
	}
	return el
}
