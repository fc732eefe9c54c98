package adoc

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func readFrontMatter(t *testing.T, r io.Reader) (string, Metadata, error) {
	t.Helper()
	rest, meta, ferr := ReadFrontMatter(r)
	if rest == nil {
		t.Fatalf("nil reader, error %v", ferr)
	}
	body, err := io.ReadAll(rest)
	if err != nil {
		t.Fatalf("read rest: %v", err)
	}
	return string(body), meta, ferr
}

func TestReadFrontMatterStripsBlockAtStart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		src   string
		body  string
		title string
	}{
		{
			name:  "yaml",
			src:   "---\ntitle: Post\ndate: \"2026-02-09\"\n---\n\nBody.\n",
			body:  "\nBody.\n",
			title: "Post",
		},
		{
			name:  "toml",
			src:   "+++\ntitle = \"Post\"\nauthor = \"Ann\"\n+++\nBody.\n",
			body:  "Body.\n",
			title: "Post",
		},
		{
			name:  "json",
			src:   ";;;\n{\"title\": \"Post\"}\n;;;\nBody.\n",
			body:  "Body.\n",
			title: "Post",
		},
		{
			name:  "crlf",
			src:   "---\r\ntitle: Post\r\n---\r\nBody.\r\n",
			body:  "Body.\r\n",
			title: "Post",
		},
		{
			name:  "closing delimiter at end of input",
			src:   "---\ntitle: Post\n---",
			body:  "",
			title: "Post",
		},
	}
	for _, tc := range tests {
		for rname, open := range readers(tc.src) {
			t.Run(tc.name+"/"+rname, func(t *testing.T) {
				t.Parallel()
				body, meta, err := readFrontMatter(t, open())
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if body != tc.body {
					t.Fatalf("unexpected body\nwant: %q\n got: %q", tc.body, body)
				}
				if meta.Title != tc.title {
					t.Fatalf("unexpected title %q", meta.Title)
				}
			})
		}
	}
}

func TestReadFrontMatterKeepsInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{name: "not at start", src: "Intro\n\n+++\ntitle = \"Keep me\"\n+++\n\nTail\n"},
		{name: "unclosed", src: "---\ntitle: Post\n\nHello\n"},
		{name: "delimiter without metadata", src: "---\nKeep\n---\n\nTail\n"},
		{name: "only a delimiter", src: "---"},
		{name: "plain", src: "just text"},
		{name: "empty", src: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			body, meta, err := readFrontMatter(t, strings.NewReader(tc.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if body != tc.src {
				t.Fatalf("input changed\nwant: %q\n got: %q", tc.src, body)
			}
			if meta != (Metadata{}) {
				t.Fatalf("unexpected metadata %+v", meta)
			}
		})
	}
}

func TestReadFrontMatterOnlyStripsFirstBlock(t *testing.T) {
	src := "---\ntitle: Skip\n---\n\nBody\n\n---\nkeep: yes\n---\n"
	body, _, err := readFrontMatter(t, strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "\nBody\n\n---\nkeep: yes\n---\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestReadFrontMatterLargeBody(t *testing.T) {
	tail := strings.Repeat("line of text\n", 2000)
	body, meta, err := readFrontMatter(t, strings.NewReader("---\nauthor: Bo\n---\n"+tail))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != tail || meta.Author != "Bo" {
		t.Fatalf("unexpected result: %d bytes, %+v", len(body), meta)
	}
}

func TestReadFrontMatterDecodeError(t *testing.T) {
	body, meta, err := readFrontMatter(t, strings.NewReader("+++\ntitle = = x\n+++\nBody\n"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if body != "Body\n" || meta != (Metadata{}) {
		t.Fatalf("unexpected result %q %+v", body, meta)
	}
}

func TestReadFrontMatterReadError(t *testing.T) {
	rest, _, err := ReadFrontMatter(iotest.TimeoutReader(strings.NewReader("---\ntitle: x\n")))
	if err == nil || rest != nil {
		t.Fatalf("expected read error, got %v", err)
	}
}
