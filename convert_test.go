package adoc

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"

	"pkt.systems/adoc/html"
	"pkt.systems/adoc/node"
	"pkt.systems/adoc/xhtml"
)

func convertString(t *testing.T, src string, opts ...ConvertOption) string {
	t.Helper()
	var out bytes.Buffer
	if err := Convert(ConvertRequest{
		Reader:  strings.NewReader(src),
		Writer:  &out,
		Options: opts,
	}); err != nil {
		t.Fatalf("convert %q: %v", src, err)
	}
	return out.String()
}

func TestConvertFragments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "paragraph",
			src:  "Hello world",
			want: `<div class="paragraph"><p>Hello world</p></div>` + "\n",
		},
		{
			name: "mark",
			src:  "a #b# c\n",
			want: `<div class="paragraph"><p>a <mark>b</mark> c</p></div>` + "\n",
		},
		{
			name: "rule and page break",
			src:  "'''\n<<<\n",
			want: "<hr/>\n" + `<div style="page-break-after: always;"></div>` + "\n",
		},
		{
			name: "text passes through unescaped",
			src:  "a<b & c",
			want: `<div class="paragraph"><p>a<b & c</p></div>` + "\n",
		},
		{
			name: "prose with symbols",
			src:  "Note: snake_case, 2 * 3, [1], x^2, ~y, `z` and\ttab\n",
			want: `<div class="paragraph"><p>Note: snake_case, 2 * 3, [1], x^2, ~y, ` + "`z` and\ttab</p></div>\n",
		},
		{
			name: "empty",
			src:  "",
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := convertString(t, tc.src); got != tc.want {
				t.Fatalf("unexpected output\nwant: %q\n got: %q", tc.want, got)
			}
		})
	}
}

func TestConvertStandalone(t *testing.T) {
	src := "---\ntitle: From <front> matter\n---\nbody\n"
	got := convertString(t, src, WithStandalone(true))
	want := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n" +
		"<title>From &lt;front&gt; matter</title>\n</head>\n<body>\n" +
		`<div class="paragraph"><p>body</p></div>` + "\n" +
		"</body>\n</html>\n"
	if got != want {
		t.Fatalf("unexpected output\n---want---\n%s---got---\n%s", want, got)
	}

	got = convertString(t, src, WithStandalone(true), WithTitle("Override"), WithXHTML(true))
	if !strings.HasPrefix(got, "<?xml") || !strings.Contains(got, "<title>Override</title>") {
		t.Fatalf("unexpected xhtml header:\n%s", got)
	}
}

func TestConvertFrontMatterDisabled(t *testing.T) {
	got := convertString(t, "---\ntitle: x\n---\n", WithFrontMatter(false))
	if !strings.Contains(got, "title") {
		t.Fatalf("front matter should have been kept: %q", got)
	}
}

func TestConvertBrokenFrontMatterIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	got := convertString(t, "---\ntitle: [unclosed\n---\nbody\n", WithLogger(logger))
	if got != `<div class="paragraph"><p>body</p></div>`+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if !strings.Contains(logs.String(), "ignoring front matter") {
		t.Fatalf("expected a warning, got logs:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "converted") {
		t.Fatalf("expected debug output, got logs:\n%s", logs.String())
	}
}

func TestConvertStrictInput(t *testing.T) {
	var out bytes.Buffer
	err := Convert(ConvertRequest{
		Reader:  strings.NewReader("ok\xff"),
		Writer:  &out,
		Options: []ConvertOption{WithStrictInput(true)},
	})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}

	if got := convertString(t, "ok\xff"); got != "<div class=\"paragraph\"><p>ok\xff</p></div>\n" {
		t.Fatalf("lenient mode should pass bytes through, got %q", got)
	}
}

func TestOpenSource(t *testing.T) {
	src := "---\ntitle: \xff\n---\nok\n"
	_, _, err := OpenSource(strings.NewReader(src), WithStrictInput(true))
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("front matter should be validated, got %v", err)
	}

	rest, meta, err := OpenSource(strings.NewReader("---\ntitle: Doc\n---\nbody\n"))
	if err != nil {
		t.Fatalf("open source: %v", err)
	}
	body, _ := io.ReadAll(rest)
	if meta.Title != "Doc" || string(body) != "body\n" {
		t.Fatalf("unexpected result %+v %q", meta, body)
	}
	if _, _, err := OpenSource(nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}

func TestConvertErrors(t *testing.T) {
	if err := Convert(ConvertRequest{Writer: &bytes.Buffer{}}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := Convert(ConvertRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for nil writer")
	}

	var out bytes.Buffer
	err := Convert(ConvertRequest{Reader: strings.NewReader("fine\n\nbad <<x"), Writer: &out, Options: []ConvertOption{WithFrontMatter(false)}})
	var uerr *UnexpectedCharError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnexpectedCharError, got %v", err)
	}

	boom := errors.New("boom")
	err = Convert(ConvertRequest{Reader: iotest.ErrReader(boom), Writer: &out})
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}

	err = Convert(ConvertRequest{Reader: strings.NewReader("x"), Writer: &failingWriter{}})
	if err == nil {
		t.Fatalf("expected write error")
	}
}

type failingWriter struct{}

func (*failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestConvertWithGenerator(t *testing.T) {
	var out bytes.Buffer
	err := Convert(ConvertRequest{
		Reader:    strings.NewReader("a<b #c#"),
		Writer:    &out,
		Generator: xhtml.New(),
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := `<div class="paragraph"><p>a&lt;b <mark>c</mark></p></div>` + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, out.String())
	}
}

func TestConvertNodes(t *testing.T) {
	nodes := []node.Node{
		node.Paragraph{Text: node.NewText(
			node.Tagged{Tag: node.Strong, Text: node.NewText(node.Word("hi")), Attributes: []node.Attribute{node.ID("top"), node.Role("big")}},
		)},
		node.PageBreak{},
	}
	var out bytes.Buffer
	if err := ConvertNodes(&out, html.New(), nodes); err != nil {
		t.Fatalf("convert nodes: %v", err)
	}
	want := `<div class="paragraph"><p><a id="top"></a><strong class="big">hi</strong></p></div>` + "\n" +
		`<div style="page-break-after: always;"></div>` + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, out.String())
	}
	if err := ConvertNodes(nil, nil, nodes); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestTokenize(t *testing.T) {
	var got []string
	var starts []Pos
	err := Tokenize(TokenizeRequest{
		Reader: strings.NewReader("+++\ntitle = \"x\"\n+++\na #b#\n"),
		Fn: func(tok Token, pos Pos) error {
			got = append(got, tok.String())
			starts = append(starts, pos)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []string{`Word("a")`, "Space", "NumberSign", `Word("b")`, "NumberSign", "NewLine"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected tokens\nwant: %v\n got: %v", want, got)
	}
	if starts[2] != (Pos{Line: 1, Column: 3}) {
		t.Fatalf("unexpected start %v", starts[2])
	}

	stop := errors.New("stop")
	calls := 0
	err = Tokenize(TokenizeRequest{
		Reader: strings.NewReader("a b c"),
		Fn: func(Token, Pos) error {
			calls++
			return stop
		},
	})
	if err != stop || calls != 1 {
		t.Fatalf("expected callback error after one call, got %v after %d", err, calls)
	}
	if err := Tokenize(TokenizeRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for nil fn")
	}
}

func TestParse(t *testing.T) {
	nodes, meta, err := Parse(strings.NewReader("---\nauthor: Ann\n---\none\n\n'''\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if meta.Author != "Ann" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(nodes))
	}
	if _, ok := nodes[1].(node.HorizontalRule); !ok {
		t.Fatalf("expected horizontal rule, got %T", nodes[1])
	}

	nodes, _, err = Parse(strings.NewReader("fine\n\n<<x"))
	if err == nil || len(nodes) != 1 {
		t.Fatalf("expected one block before the error, got %d, %v", len(nodes), err)
	}
	if _, _, err := Parse(nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}
