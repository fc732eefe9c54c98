// Package html builds and writes HTML fragments for documents.
//
// Generation happens in two steps. A Generator turns a document node into a
// tree of Node values without doing any I/O, then Write serializes that tree
// depth-first to an io.Writer. Trees are immutable once built and may be
// written any number of times with identical output.
//
// Example:
//
//	doc := node.Paragraph{Text: node.NewText(node.Word("hi"))}
//	if err := html.Render(os.Stdout, html.New(), doc); err != nil {
//		log.Fatal(err)
//	}
//	// <div class="paragraph"><p>hi</p></div>
package html

import (
	"io"
	"strings"
)

// Node is an element of the intermediate HTML tree.
type Node interface {
	write(w io.Writer) error
}

// Empty writes nothing.
type Empty struct{}

// Hr is a self-closing horizontal rule.
type Hr struct{}

// A is an empty anchor used as a link target.
type A struct {
	ID string
}

// Div is a div element. Attributes is a preformatted attribute string.
type Div struct {
	Attributes string
	Child      Node
}

// P is a paragraph element.
type P struct {
	Child Node
}

// Mark is a mark element.
type Mark struct {
	Child Node
}

// Span is a span element.
type Span struct {
	Attributes string
	Child      Node
}

// Tag is an arbitrary element.
type Tag struct {
	Name       string
	Attributes string
	Child      Node
}

// Seq writes First then Second.
type Seq struct {
	First  Node
	Second Node
}

// Text is literal text, written unmodified.
type Text string

// TextRun writes its children in order.
type TextRun []Node

// Write serializes n to w. It stops at the first write error.
func Write(w io.Writer, n Node) error {
	if n == nil {
		return nil
	}
	return n.write(w)
}

// String returns the serialized form of n.
func String(n Node) string {
	var b strings.Builder
	_ = Write(&b, n)
	return b.String()
}

func (Empty) write(io.Writer) error {
	return nil
}

func (Hr) write(w io.Writer) error {
	return writeText(w, "<hr/>")
}

func (a A) write(w io.Writer) error {
	return element(w, "a", attribute("id", a.ID), nil)
}

func (d Div) write(w io.Writer) error {
	return element(w, "div", d.Attributes, d.Child)
}

func (p P) write(w io.Writer) error {
	return element(w, "p", "", p.Child)
}

func (m Mark) write(w io.Writer) error {
	return element(w, "mark", "", m.Child)
}

func (s Span) write(w io.Writer) error {
	return element(w, "span", s.Attributes, s.Child)
}

func (t Tag) write(w io.Writer) error {
	return element(w, t.Name, t.Attributes, t.Child)
}

func (s Seq) write(w io.Writer) error {
	if err := Write(w, s.First); err != nil {
		return err
	}
	return Write(w, s.Second)
}

func (t Text) write(w io.Writer) error {
	return writeText(w, string(t))
}

func (r TextRun) write(w io.Writer) error {
	for _, child := range r {
		if err := Write(w, child); err != nil {
			return err
		}
	}
	return nil
}

func element(w io.Writer, name, attributes string, child Node) error {
	if err := openTag(w, name, attributes); err != nil {
		return err
	}
	if err := Write(w, child); err != nil {
		return err
	}
	return closeTag(w, name)
}

func openTag(w io.Writer, name, attributes string) error {
	if err := writeText(w, "<"+name); err != nil {
		return err
	}
	if attributes != "" {
		if err := writeText(w, " "+attributes); err != nil {
			return err
		}
	}
	return writeText(w, ">")
}

func closeTag(w io.Writer, name string) error {
	return writeText(w, "</"+name+">")
}

func writeText(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s)
	return err
}
