package adoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/naoina/toml"
)

const maxFrontMatterHeadBytes = 64 * 1024

// Metadata is the document information found in front matter.
type Metadata struct {
	Title  string `yaml:"title" toml:"title"`
	Author string `yaml:"author" toml:"author"`
	Date   string `yaml:"date" toml:"date"`
}

// ReadFrontMatter strips a front matter block from the start of r.
//
// Blocks are delimited by `---` (YAML), `+++` (TOML) or `;;;` (JSON) lines
// and are only recognized when the line after the opening delimiter looks
// like metadata. Unclosed blocks are left in place. The returned reader
// yields the remaining document. A block that fails to decode is still
// stripped and the decode error is returned along with the reader.
func ReadFrontMatter(r io.Reader) (io.Reader, Metadata, error) {
	var f frontMatterFilter
	f.reset()
	var buf [4096]byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			out := f.process(buf[:n])
			if f.passthrough {
				meta, derr := f.metadata()
				return io.MultiReader(bytes.NewReader(out), r), meta, derr
			}
		}
		if err == io.EOF {
			out := f.finish()
			meta, derr := f.metadata()
			return bytes.NewReader(out), meta, derr
		}
		if err != nil {
			return nil, Metadata{}, fmt.Errorf("front matter: read: %w", err)
		}
	}
}

type frontMatterFilter struct {
	passthrough bool
	head        []byte
	delim       []byte
	raw         []byte
	headArr     [4096]byte
}

func (f *frontMatterFilter) reset() {
	f.passthrough = false
	f.head = f.headArr[:0]
	f.delim = nil
	f.raw = nil
}

func (f *frontMatterFilter) process(chunk []byte) []byte {
	if f.passthrough || len(chunk) == 0 {
		return chunk
	}
	f.head = append(f.head, chunk...)
	out, decided := f.decide(false)
	if !decided && len(f.head) > maxFrontMatterHeadBytes {
		out = f.head
		f.passthrough = true
		f.head = f.head[:0]
		decided = true
	}
	if decided {
		return out
	}
	return nil
}

func (f *frontMatterFilter) finish() []byte {
	if f.passthrough || len(f.head) == 0 {
		f.passthrough = true
		return nil
	}
	out, _ := f.decide(true)
	return out
}

func (f *frontMatterFilter) decide(eof bool) ([]byte, bool) {
	openLine, openNext, ok := nextLine(f.head, 0, eof)
	if !ok {
		return nil, false
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		return f.pass(), true
	}

	secondLine, _, ok := nextLine(f.head, openNext, eof)
	if !ok {
		return nil, false
	}
	if !frontMatterMetadataLikely(secondLine) {
		return f.pass(), true
	}

	closeStart, closeNext, found := findClosingFrontMatterDelimiter(f.head, openNext, delim, eof)
	if !found {
		if eof {
			return f.pass(), true
		}
		return nil, false
	}
	f.delim = delim
	f.raw = bytes.Clone(f.head[openNext:closeStart])
	out := f.head[closeNext:]
	f.passthrough = true
	f.head = f.head[:0]
	return out, true
}

func (f *frontMatterFilter) pass() []byte {
	out := f.head
	f.passthrough = true
	f.head = f.head[:0]
	return out
}

func (f *frontMatterFilter) metadata() (Metadata, error) {
	var meta Metadata
	if f.delim == nil {
		return meta, nil
	}
	var err error
	switch string(f.delim) {
	case "+++":
		err = toml.Unmarshal(f.raw, &meta)
	default:
		err = yaml.Unmarshal(f.raw, &meta)
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("front matter: decode %s block: %w", f.delim, err)
	}
	return meta, nil
}

func nextLine(src []byte, start int, eof bool) ([]byte, int, bool) {
	if start > len(src) {
		return nil, 0, false
	}
	if start == len(src) {
		if eof {
			return src[start:], start, true
		}
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		if !eof {
			return nil, 0, false
		}
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	for _, delim := range frontMatterDelimiters {
		if bytes.Equal(trimmed, delim) {
			return delim, true
		}
	}
	return nil, false
}

var frontMatterDelimiters = [][]byte{
	[]byte("---"),
	[]byte("+++"),
	[]byte(";;;"),
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	return bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("="))
}

// findClosingFrontMatterDelimiter returns where the closing delimiter line
// starts and where the line after it starts.
func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte, eof bool) (int, int, bool) {
	for idx := start; idx <= len(src); {
		line, next, ok := nextLine(src, idx, eof)
		if !ok {
			return 0, 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return idx, next, true
		}
		if next == idx {
			return 0, 0, false
		}
		idx = next
		if idx == len(src) && !eof {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
