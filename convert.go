package adoc

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"sync"

	"pkt.systems/adoc/html"
	"pkt.systems/adoc/node"
)

var lexerPool = sync.Pool{
	New: func() any {
		return NewLexer(nil)
	},
}

var writerPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(nil, 4096)
	},
}

var configPool = sync.Pool{
	New: func() any {
		return &convertConfig{}
	},
}

// ConvertRequest configures Convert.
type ConvertRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Generator builds the HTML for each block. Nil uses html.New().
	Generator html.Generator
	Options   []ConvertOption
}

// TokenizeRequest configures Tokenize.
type TokenizeRequest struct {
	Reader io.Reader
	// Fn receives every token with the position where it starts. Returning
	// an error stops tokenizing and Tokenize returns that error.
	Fn      func(tok Token, pos Pos) error
	Options []ConvertOption
}

// Convert reads markup from Reader and writes HTML to Writer, one fragment
// per block followed by a newline.
func Convert(req ConvertRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("convert: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("convert: writer is nil")
	}
	cfg := resolveConfig(req.Options)
	src, meta, err := openSource(req.Reader, cfg)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	lex := lexerPool.Get().(*Lexer)
	lex.Reset(src)
	err = writeDocument(req.Writer, req.Generator, cfg, meta, NewParser(lex).All())
	lex.Reset(nil)
	lexerPool.Put(lex)
	return err
}

// ConvertNodes writes HTML for blocks that were built elsewhere, such as by
// the markdown package. Front matter and input validation options do not
// apply.
func ConvertNodes(w io.Writer, g html.Generator, nodes []node.Node, opts ...ConvertOption) error {
	if w == nil {
		return fmt.Errorf("convert: writer is nil")
	}
	cfg := resolveConfig(opts)
	seq := func(yield func(node.Node, error) bool) {
		for _, n := range nodes {
			if !yield(n, nil) {
				return
			}
		}
	}
	return writeDocument(w, g, cfg, Metadata{}, seq)
}

// Parse reads all blocks from r along with its front matter. Only the front
// matter, strict input and logger options apply.
func Parse(r io.Reader, opts ...ConvertOption) ([]node.Node, Metadata, error) {
	if r == nil {
		return nil, Metadata{}, fmt.Errorf("parse: reader is nil")
	}
	cfg := resolveConfig(opts)
	src, meta, err := openSource(r, cfg)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("parse: %w", err)
	}
	var nodes []node.Node
	for n, err := range NewParser(NewLexer(src)).All() {
		if err != nil {
			return nodes, meta, fmt.Errorf("parse: %w", err)
		}
		nodes = append(nodes, n)
	}
	cfg.logger.Debug("parsed", "blocks", len(nodes))
	return nodes, meta, nil
}

// Tokenize reads markup from Reader and reports every token to Fn.
func Tokenize(req TokenizeRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("tokenize: reader is nil")
	}
	if req.Fn == nil {
		return fmt.Errorf("tokenize: fn is nil")
	}
	cfg := resolveConfig(req.Options)
	src, _, err := openSource(req.Reader, cfg)
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	lex := lexerPool.Get().(*Lexer)
	lex.Reset(src)
	defer func() {
		lex.Reset(nil)
		lexerPool.Put(lex)
	}()
	count := 0
	for tok, err := range lex.Tokens() {
		if err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}
		if err := req.Fn(tok, lex.Start()); err != nil {
			return err
		}
		count++
	}
	cfg.logger.Debug("tokenized", "tokens", count, "end", lex.Pos())
	return nil
}

// OpenSource prepares r the way Convert does before lexing: strict input
// validation wraps the raw bytes, then front matter is stripped. Only the
// front matter, strict input and logger options apply. Callers that feed
// another importer use it so front matter is validated too.
func OpenSource(r io.Reader, opts ...ConvertOption) (io.Reader, Metadata, error) {
	if r == nil {
		return nil, Metadata{}, fmt.Errorf("open source: reader is nil")
	}
	src, meta, err := openSource(r, resolveConfig(opts))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("open source: %w", err)
	}
	return src, meta, nil
}

func openSource(r io.Reader, cfg convertConfig) (io.Reader, Metadata, error) {
	if cfg.strict {
		r = newValidatingReader(r)
	}
	if cfg.noFrontMatter {
		return r, Metadata{}, nil
	}
	src, meta, err := ReadFrontMatter(r)
	if src == nil {
		return nil, Metadata{}, err
	}
	if err != nil {
		cfg.logger.Warn("ignoring front matter", "error", err)
	} else if meta != (Metadata{}) {
		cfg.logger.Debug("front matter", "title", meta.Title, "author", meta.Author, "date", meta.Date)
	}
	return src, meta, nil
}

func writeDocument(w io.Writer, g html.Generator, cfg convertConfig, meta Metadata, nodes iter.Seq2[node.Node, error]) error {
	if g == nil {
		g = html.New()
	}
	bw := writerPool.Get().(*bufio.Writer)
	bw.Reset(w)
	err := writeBlocks(bw, g, cfg, meta, nodes)
	if err == nil {
		if ferr := bw.Flush(); ferr != nil {
			err = fmt.Errorf("convert: write: %w", ferr)
		}
	}
	bw.Reset(nil)
	writerPool.Put(bw)
	return err
}

func writeBlocks(bw *bufio.Writer, g html.Generator, cfg convertConfig, meta Metadata, nodes iter.Seq2[node.Node, error]) error {
	page := html.Page{Title: cfg.title, XHTML: cfg.xhtml}
	if page.Title == "" {
		page.Title = meta.Title
	}
	if cfg.standalone {
		if err := page.WriteHeader(bw); err != nil {
			return fmt.Errorf("convert: write: %w", err)
		}
	}
	count := 0
	for n, err := range nodes {
		if err != nil {
			return fmt.Errorf("convert: %w", err)
		}
		if err := html.Render(bw, g, n); err != nil {
			return fmt.Errorf("convert: write: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("convert: write: %w", err)
		}
		count++
		cfg.logger.Debug("rendered block", "index", count, "kind", blockKind(n))
	}
	if cfg.standalone {
		if err := page.WriteFooter(bw); err != nil {
			return fmt.Errorf("convert: write: %w", err)
		}
	}
	cfg.logger.Debug("converted", "blocks", count)
	return nil
}

func blockKind(n node.Node) string {
	switch n.(type) {
	case node.HorizontalRule:
		return "horizontal-rule"
	case node.PageBreak:
		return "page-break"
	case node.Paragraph:
		return "paragraph"
	}
	return fmt.Sprintf("%T", n)
}
