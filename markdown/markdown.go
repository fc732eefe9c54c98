// Package markdown imports Markdown documents into the document model so
// they can be rendered by the html generators.
//
// Headings become paragraphs holding a strong element with the heading id,
// code blocks become code elements and links become marks with the "link"
// role. Lists and block quotes are flattened into their blocks.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"pkt.systems/adoc/node"
)

// LinkRole is the role given to marks created from links and images.
const LinkRole node.Role = "link"

var md = goldmark.New(
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	),
)

// Import parses src and returns its blocks in document order.
func Import(src []byte) []node.Node {
	doc := md.Parser().Parse(text.NewReader(src))
	b := builder{src: src}
	b.blocks(doc)
	return b.nodes
}

type builder struct {
	src   []byte
	nodes []node.Node
}

func (b *builder) blocks(parent ast.Node) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			b.nodes = append(b.nodes, node.Paragraph{Text: b.inline(n)})
		case *ast.ThematicBreak:
			b.nodes = append(b.nodes, node.HorizontalRule{})
		case *ast.Heading:
			b.nodes = append(b.nodes, node.Paragraph{Text: node.NewText(node.Tagged{
				Tag:        node.Strong,
				Text:       b.inline(n),
				Attributes: headingAttributes(n),
			})})
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			b.nodes = append(b.nodes, node.Paragraph{Text: node.NewText(node.Tagged{
				Tag:  node.Code,
				Text: b.lines(n),
			})})
		default:
			b.blocks(c)
		}
	}
}

func headingAttributes(n *ast.Heading) []node.Attribute {
	var attrs []node.Attribute
	if v, ok := n.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok && len(id) > 0 {
			attrs = append(attrs, node.ID(id))
		}
	}
	if v, ok := n.AttributeString("class"); ok {
		if class, ok := v.([]byte); ok && len(class) > 0 {
			attrs = append(attrs, node.Role(class))
		}
	}
	return attrs
}

func (b *builder) lines(n ast.Node) node.Text {
	var items []node.Item
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		items = appendWords(items, seg.Value(b.src))
	}
	return node.NewText(trimSpaces(items)...)
}

func (b *builder) inline(parent ast.Node) node.Text {
	return node.NewText(trimSpaces(b.appendInline(nil, parent))...)
}

func (b *builder) appendInline(items []node.Item, parent ast.Node) []node.Item {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Text:
			items = appendWords(items, n.Segment.Value(b.src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				items = appendSpace(items)
			}
		case *ast.String:
			items = appendWords(items, n.Value)
		case *ast.CodeSpan:
			items = append(items, node.Tagged{Tag: node.Code, Text: b.inline(n)})
		case *ast.Emphasis:
			tag := node.Emphasis
			if n.Level >= 2 {
				tag = node.Strong
			}
			items = append(items, node.Tagged{Tag: tag, Text: b.inline(n)})
		case *ast.Link, *ast.Image:
			items = append(items, node.Mark{
				Text:       b.inline(n),
				Attributes: []node.Attribute{LinkRole},
			})
		case *ast.AutoLink:
			items = append(items, node.Mark{
				Text:       node.NewText(appendWords(nil, n.Label(b.src))...),
				Attributes: []node.Attribute{LinkRole},
			})
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				items = appendWords(items, seg.Value(b.src))
			}
		default:
			items = b.appendInline(items, c)
		}
	}
	return items
}

// appendWords splits data into words, collapsing every whitespace run into a
// single space.
func appendWords(items []node.Item, data []byte) []node.Item {
	start := -1
	for i, c := range data {
		if isSpace(c) {
			if start >= 0 {
				items = append(items, node.Word(data[start:i]))
				start = -1
			}
			items = appendSpace(items)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		items = append(items, node.Word(data[start:]))
	}
	return items
}

func appendSpace(items []node.Item) []node.Item {
	if len(items) > 0 {
		if _, ok := items[len(items)-1].(node.Space); ok {
			return items
		}
	}
	return append(items, node.Space{})
}

func trimSpaces(items []node.Item) []node.Item {
	for len(items) > 0 {
		if _, ok := items[0].(node.Space); !ok {
			break
		}
		items = items[1:]
	}
	for len(items) > 0 {
		if _, ok := items[len(items)-1].(node.Space); !ok {
			break
		}
		items = items[:len(items)-1]
	}
	return items
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
