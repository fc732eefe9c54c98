package adoc

import (
	"errors"
	"io"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var total, control int
	for _, b := range src {
		total++
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if total >= minBinarySample && control*100 >= total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

// validatingReader applies the ValidateInput rules incrementally while the
// lexer reads.
type validatingReader struct {
	r       io.Reader
	v       validator
	pending []byte
}

func newValidatingReader(r io.Reader) *validatingReader {
	return &validatingReader{r: r}
}

func (vr *validatingReader) Read(p []byte) (int, error) {
	n, err := vr.r.Read(p)
	if n > 0 {
		data := append(vr.pending, p[:n]...)
		rest, verr := vr.v.addBytes(data)
		if verr != nil {
			return 0, verr
		}
		vr.pending = append(vr.pending[:0], rest...)
	}
	if err == io.EOF && len(vr.pending) > 0 {
		return 0, ErrInvalidUTF8
	}
	return n, err
}

type validator struct {
	total   int
	control int
}

func (v *validator) addBytes(b []byte) ([]byte, error) {
	i := 0
	for i < len(b) {
		if !utf8.FullRune(b[i:]) {
			break
		}
		r, size := utf8.DecodeRune(b[i:])
		if err := v.addRune(r, size); err != nil {
			return nil, err
		}
		i += size
	}
	return b[i:], nil
}

func (v *validator) addRune(r rune, size int) error {
	if r == utf8.RuneError && size == 1 {
		return ErrInvalidUTF8
	}
	if r == 0 {
		return ErrBinaryInput
	}
	v.total += size
	if isControlRune(r) {
		v.control++
		if v.total >= minBinarySample && v.control*100 >= v.total*maxControlPct {
			return ErrBinaryInput
		}
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F
}
