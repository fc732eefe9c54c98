// Package xhtml is a stricter HTML backend.
//
// It reuses the default traversal from the html package and changes three
// node kinds: words are escaped so the output is well-formed XML, attribute
// values of marks and tagged text are escaped as well, and marks keep their
// mark element when attributes are present instead of falling back to a
// span.
package xhtml

import (
	stdhtml "html"

	"pkt.systems/adoc/html"
	"pkt.systems/adoc/node"
)

// Generator is the XHTML generator.
type Generator struct {
	html.Base
}

// New returns an XHTML generator.
func New() *Generator {
	g := &Generator{}
	g.Self = g
	return g
}

func (g *Generator) Word(word node.Word) html.Node {
	return html.Text(stdhtml.EscapeString(string(word)))
}

func (g *Generator) Mark(text node.Text, attrs []node.Attribute) html.Node {
	return g.element("mark", text, attrs)
}

func (g *Generator) Tagged(tag node.Tag, text node.Text, attrs []node.Attribute) html.Node {
	return g.element(tag.String(), text, attrs)
}

func (g *Generator) element(name string, text node.Text, attrs []node.Attribute) html.Node {
	ids, rest := html.SplitIDs(escapeAttributes(attrs))
	return html.Anchored(html.Tag{
		Name:       name,
		Attributes: html.Attributes(rest),
		Child:      g.Text(text),
	}, ids...)
}

// escapeAttributes returns attrs with every value escaped for use inside a
// double quoted attribute.
func escapeAttributes(attrs []node.Attribute) []node.Attribute {
	if len(attrs) == 0 {
		return attrs
	}
	out := make([]node.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		switch a := attr.(type) {
		case node.ID:
			out = append(out, node.ID(stdhtml.EscapeString(string(a))))
		case node.Role:
			out = append(out, node.Role(stdhtml.EscapeString(string(a))))
		default:
			out = append(out, attr)
		}
	}
	return out
}
