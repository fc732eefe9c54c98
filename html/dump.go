package html

import (
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
)

const dumpIndent = 2

// Dump writes a human readable outline of the tree, one node per line with
// children indented below their parent.
func Dump(w io.Writer, n Node) error {
	_, err := io.WriteString(w, dump(n))
	return err
}

func dump(n Node) string {
	label, children := describe(n)
	var b strings.Builder
	b.WriteString(label)
	b.WriteByte('\n')
	for _, child := range children {
		b.WriteString(indent.String(dump(child), dumpIndent))
	}
	return b.String()
}

func describe(n Node) (string, []Node) {
	switch n := n.(type) {
	case nil:
		return "<nil>", nil
	case Empty:
		return "Empty", nil
	case Hr:
		return "Hr", nil
	case A:
		return "A id=" + strconv.Quote(n.ID), nil
	case Div:
		return withAttributes("Div", n.Attributes), []Node{n.Child}
	case P:
		return "P", []Node{n.Child}
	case Mark:
		return "Mark", []Node{n.Child}
	case Span:
		return withAttributes("Span", n.Attributes), []Node{n.Child}
	case Tag:
		return withAttributes("Tag "+n.Name, n.Attributes), []Node{n.Child}
	case Seq:
		return "Seq", []Node{n.First, n.Second}
	case Text:
		return "Text " + strconv.Quote(string(n)), nil
	case TextRun:
		return "TextRun", n
	}
	return "?", nil
}

func withAttributes(label, attributes string) string {
	if attributes == "" {
		return label
	}
	return label + " " + attributes
}
