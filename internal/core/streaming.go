package core

// streaming.go holds the reader chain applied to every input file before the
// CSV parser sees it:
//
//   - BOMSkippingReader drops a leading UTF-8 BOM written by Windows exporters
//   - UTF8Validator rejects input that is not valid UTF-8
//   - CountingReader tracks bytes read for the load statistics
//
// Use WrapInput to apply all three in the correct order.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{r: bufio.NewReader(r)}
}

// Read implements io.Reader. The first call discards the BOM.
func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := b.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}

// UTF8Validator wraps an io.Reader and passes bytes through while they form
// valid UTF-8. The first invalid or truncated sequence ends the stream with
// an error wrapping ErrInvalidUTF8; bytes before it are still delivered. A
// multi-byte sequence split across reads of the underlying reader is held
// until it is complete.
type UTF8Validator struct {
	r     io.Reader
	chunk []byte
	raw   []byte
	out   []byte
	off   int64
	err   error
}

// NewUTF8Validator creates a new streaming UTF-8 validator.
func NewUTF8Validator(r io.Reader) *UTF8Validator {
	return &UTF8Validator{r: r, chunk: make([]byte, 4096)}
}

// Read implements io.Reader.
func (v *UTF8Validator) Read(p []byte) (int, error) {
	for len(v.out) == 0 {
		if v.err != nil {
			return 0, v.err
		}
		v.fill()
	}
	n := copy(p, v.out)
	v.out = v.out[n:]
	return n, nil
}

func (v *UTF8Validator) fill() {
	n, err := v.r.Read(v.chunk)
	v.raw = append(v.raw, v.chunk[:n]...)
	if err != nil {
		v.err = err
	}

	keep := 0
	if v.err == nil {
		keep = partialRuneTail(v.raw)
	}
	ready := v.raw[:len(v.raw)-keep]

	valid := validPrefix(ready)
	v.out = append(v.out[:0], ready[:valid]...)
	v.off += int64(valid)
	if valid < len(ready) {
		v.err = fmt.Errorf("%w at offset %d", ErrInvalidUTF8, v.off)
		v.raw = v.raw[:0]
		return
	}
	v.raw = append(v.raw[:0], v.raw[len(ready):]...)
}

// validPrefix returns the length of the longest valid UTF-8 prefix of data.
func validPrefix(data []byte) int {
	if utf8.Valid(data) {
		return len(data)
	}
	i := 0
	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return i
}

// partialRuneTail returns how many trailing bytes of data start a multi-byte
// sequence that is not yet complete.
func partialRuneTail(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if utf8.RuneStart(b) {
			if b >= 0xC0 && runeLen(b) > i {
				return i
			}
			return 0
		}
	}
	return 0
}

// runeLen returns the expected length of a UTF-8 sequence starting with b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	r         io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// WrapInput counts raw bytes, then strips the BOM, then validates UTF-8.
func WrapInput(r io.Reader) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r)
	return NewUTF8Validator(NewBOMSkippingReader(counter)), counter
}
