package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/adoc"
	"pkt.systems/adoc/html"
	"pkt.systems/adoc/markdown"
	"pkt.systems/adoc/node"
	"pkt.systems/adoc/xhtml"
	"pkt.systems/version"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("pkt.systems/adoc")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	outPath       string
	from          string
	xhtml         bool
	standalone    bool
	title         string
	noFrontMatter bool
	strict        bool
	tokens        bool
	dumpTree      bool
	logLevel      string
	logJSON       string
	width         int
	showVersion   bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("adoc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.StringVarP(&opts.from, "from", "f", "adoc", "Input syntax: adoc|markdown")
	flags.BoolVar(&opts.xhtml, "xhtml", false, "Generate XHTML (escaped text, XML prolog)")
	flags.BoolVarP(&opts.standalone, "standalone", "s", false, "Wrap the output in a complete document")
	flags.StringVar(&opts.title, "title", "", "Document title (overrides front matter)")
	flags.BoolVar(&opts.noFrontMatter, "no-front-matter", false, "Keep front matter as document text")
	flags.BoolVar(&opts.strict, "strict", false, "Reject invalid UTF-8 and binary input")
	flags.BoolVar(&opts.tokens, "tokens", false, "Print tokens instead of HTML")
	flags.BoolVar(&opts.dumpTree, "dump-tree", false, "Print the HTML tree of every block instead of HTML")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	flags.StringVar(&opts.logJSON, "log-json", "", "Also write JSON logs to this file")
	flags.IntVarP(&opts.width, "width", "w", 0, "Width for --tokens (0 uses terminal width if available)")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: adoc [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, markup is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}

	switch opts.from {
	case "adoc", "markdown":
	default:
		fmt.Fprintf(stderr, "unknown --from %q: expected adoc|markdown\n", opts.from)
		return 2
	}
	if opts.tokens && opts.from != "adoc" {
		fmt.Fprintln(stderr, "--tokens only applies to adoc input")
		return 2
	}
	if opts.tokens && opts.dumpTree {
		fmt.Fprintln(stderr, "--tokens and --dump-tree are mutually exclusive")
		return 2
	}

	logger, closeLog, err := newLogger(stderr, opts.logLevel, opts.logJSON)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 2
	}
	if closeLog != nil {
		defer func() { _ = closeLog.Close() }()
	}

	reader, closer, err := openInputs(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	if err := convert(reader, writer, opts, logger); err != nil {
		logger.Error("conversion failed", "error", err)
		fmt.Fprintf(stderr, "adoc: %v\n", err)
		return 1
	}
	return 0
}

func convert(r io.Reader, w io.Writer, opts options, logger *slog.Logger) error {
	convertOpts := []adoc.ConvertOption{
		adoc.WithStandalone(opts.standalone),
		adoc.WithTitle(opts.title),
		adoc.WithXHTML(opts.xhtml),
		adoc.WithFrontMatter(!opts.noFrontMatter),
		adoc.WithStrictInput(opts.strict),
		adoc.WithLogger(logger),
	}
	g := html.New()
	if opts.xhtml {
		g = xhtml.New()
	}

	switch {
	case opts.tokens:
		width := resolveWidth(opts.width, w)
		return adoc.Tokenize(adoc.TokenizeRequest{
			Reader:  r,
			Options: convertOpts,
			Fn: func(tok adoc.Token, pos adoc.Pos) error {
				_, err := io.WriteString(w, formatToken(tok, pos, width)+"\n")
				return err
			},
		})
	case opts.from == "markdown":
		nodes, meta, err := importMarkdown(r, convertOpts)
		if err != nil {
			return err
		}
		if opts.dumpTree {
			return dumpTree(w, g, nodes)
		}
		if opts.title == "" && meta.Title != "" {
			convertOpts = append(convertOpts, adoc.WithTitle(meta.Title))
		}
		return adoc.ConvertNodes(w, g, nodes, convertOpts...)
	case opts.dumpTree:
		nodes, _, err := adoc.Parse(r, convertOpts...)
		if err != nil {
			return err
		}
		return dumpTree(w, g, nodes)
	}
	return adoc.Convert(adoc.ConvertRequest{
		Reader:    r,
		Writer:    w,
		Generator: g,
		Options:   convertOpts,
	})
}

func importMarkdown(r io.Reader, convertOpts []adoc.ConvertOption) ([]node.Node, adoc.Metadata, error) {
	rest, meta, err := adoc.OpenSource(r, convertOpts...)
	if err != nil {
		return nil, adoc.Metadata{}, err
	}
	src, err := io.ReadAll(rest)
	if err != nil {
		return nil, meta, fmt.Errorf("read markdown: %w", err)
	}
	return markdown.Import(src), meta, nil
}

func dumpTree(w io.Writer, g html.Generator, nodes []node.Node) error {
	for _, n := range nodes {
		if err := html.Dump(w, g.Node(n)); err != nil {
			return err
		}
	}
	return nil
}

func formatToken(tok adoc.Token, pos adoc.Pos, width int) string {
	line := fmt.Sprintf("%-9s %-10s", pos, tok.Kind)
	if len(tok.Text) == 0 {
		return strings.TrimRight(line, " ")
	}
	return line + " " + fitText(strconv.Quote(string(tok.Text)), width-ansi.PrintableRuneWidth(line)-1)
}

func fitText(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	return truncate.StringWithTail(text, uint(limit), "…")
}

func newLogger(stderr io.Writer, level, jsonPath string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q", level)
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}),
	}
	var closer io.Closer
	if jsonPath != "" {
		f, err := os.OpenFile(normalizePath(jsonPath), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closer = f
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	return terminalWidth(w, defaultWidth)
}

func terminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if width, err := strconv.Atoi(value); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	resp, err := adoc.Fetch(context.Background(), nil, raw)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
