package adoc

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"pkt.systems/adoc/node"
)

func parseAll(t *testing.T, src string) []node.Node {
	t.Helper()
	var out []node.Node
	for n, err := range NewParser(NewLexer(strings.NewReader(src))).All() {
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		out = append(out, n)
	}
	return out
}

func para(items ...node.Item) node.Paragraph {
	return node.Paragraph{Text: node.NewText(items...)}
}

func mark(items ...node.Item) node.Mark {
	return node.Mark{Text: node.NewText(items...)}
}

func TestParserBlocks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want []node.Node
	}{
		{
			name: "horizontal rule",
			src:  "'''\n",
			want: []node.Node{node.HorizontalRule{}},
		},
		{
			name: "page break at end of input",
			src:  "<<<",
			want: []node.Node{node.PageBreak{}},
		},
		{
			name: "paragraphs split by blank lines",
			src:  "one two\nthree\n\n\nfour\n",
			want: []node.Node{
				para(node.Word("one"), node.Space{}, node.Word("two"), node.Space{}, node.Word("three")),
				para(node.Word("four")),
			},
		},
		{
			name: "rule between paragraphs",
			src:  "a\n\n'''\n<<<\nb",
			want: []node.Node{
				para(node.Word("a")),
				node.HorizontalRule{},
				node.PageBreak{},
				para(node.Word("b")),
			},
		},
		{
			name: "rule followed by text is a paragraph",
			src:  "''' x",
			want: []node.Node{
				para(node.Word("'''"), node.Space{}, node.Word("x")),
			},
		},
		{
			name: "mark",
			src:  "a #b c# d",
			want: []node.Node{
				para(
					node.Word("a"), node.Space{},
					mark(node.Word("b"), node.Space{}, node.Word("c")),
					node.Space{}, node.Word("d"),
				),
			},
		},
		{
			name: "mark across lines",
			src:  "#a\nb#",
			want: []node.Node{
				para(mark(node.Word("a"), node.Space{}, node.Word("b"))),
			},
		},
		{
			name: "unclosed mark is literal",
			src:  "a #b",
			want: []node.Node{
				para(node.Word("a"), node.Space{}, node.Word("#"), node.Word("b")),
			},
		},
		{
			name: "comments are invisible",
			src:  "// note\nvisible\n////\nhidden\n////\n",
			want: []node.Node{para(node.Word("visible"))},
		},
		{
			name: "blank input",
			src:  "\n\n\n",
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := parseAll(t, tc.src)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected nodes\nwant: %#v\n got: %#v", tc.want, got)
			}
		})
	}
}

func TestParserStopsOnLexerError(t *testing.T) {
	p := NewParser(NewLexer(strings.NewReader("ok\n\nbad <<x\n\nlater")))
	n, err := p.Next()
	if err != nil || !reflect.DeepEqual(n, para(node.Word("ok"))) {
		t.Fatalf("unexpected first block %#v, %v", n, err)
	}
	_, err = p.Next()
	var uerr *UnexpectedCharError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnexpectedCharError, got %v", err)
	}
	if _, err := p.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected the error to persist, got %v", err)
	}
}

func TestParserAllYieldsErrorOnce(t *testing.T) {
	var errs int
	var blocks int
	for _, err := range NewParser(NewLexer(strings.NewReader("a\n\n<<x"))).All() {
		if err != nil {
			errs++
			continue
		}
		blocks++
	}
	if blocks != 1 || errs != 1 {
		t.Fatalf("expected one block and one error, got %d and %d", blocks, errs)
	}
}
