package adoc

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestConvertAllocations(t *testing.T) {
	src, err := os.ReadFile("testdata/sample.adoc")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	allocs := testing.AllocsPerRun(100, func() {
		_ = Convert(ConvertRequest{
			Reader: bytes.NewReader(src),
			Writer: io.Discard,
		})
	})
	if allocs > 2000 {
		t.Fatalf("too many allocations per Convert: got %.2f", allocs)
	}
}

func TestLexerReuseAllocations(t *testing.T) {
	src := bytes.Repeat([]byte("alpha beta\n"), 100)
	reader := bytes.NewReader(src)
	lex := NewLexer(reader)
	allocs := testing.AllocsPerRun(100, func() {
		reader.Reset(src)
		lex.Reset(reader)
		for _, err := range lex.Tokens() {
			if err != nil {
				t.Fatalf("tokenize: %v", err)
			}
		}
	})
	// Each word is copied out of the buffer once.
	if allocs > 250 {
		t.Fatalf("too many allocations per pass: got %.2f", allocs)
	}
}
