// Package lines produces a lazy, forward-only sequence of (byte offset,
// text) records from a buffered byte source, the way
// original_source/src/lines.rs's Lines<B> iterator does. It is not
// restartable: once a Reader reaches EOF or an error, a new one must be
// created over a fresh seek position.
package lines

import (
	"bufio"
	"io"

	"github.com/cmsd2/kvs/pkg/errors"
)

// Line is one record: the byte offset of its first byte, and its text
// with the trailing "\n" (and any immediately preceding "\r") stripped.
type Line struct {
	Offset int64
	Text   string
}

// Reader reads Lines from an underlying io.Reader, tracking byte offsets
// rather than rune or line counts.
type Reader struct {
	buf *bufio.Reader
	pos int64
}

// NewReader wraps r for line-at-a-time reading starting at offset 0 in
// the underlying stream's current position.
func NewReader(r io.Reader) *Reader {
	return &Reader{buf: bufio.NewReader(r)}
}

// Next returns the next Line, or io.EOF once the underlying reader is
// exhausted. A read failure is returned wrapped as an I/O KvError.
func (r *Reader) Next() (Line, error) {
	start := r.pos

	text, err := r.buf.ReadString('\n')
	n := int64(len(text))
	r.pos += n

	if err != nil {
		if err == io.EOF {
			if n == 0 {
				return Line{}, io.EOF
			}
			// A final record with no trailing newline: still
			// emitted, matching a BufRead::read_line that
			// returns Ok(n) with no "\n" on the last partial
			// line. The caller is responsible for deciding
			// whether that's acceptable (see engine replay).
			return Line{Offset: start, Text: trimTerminator(text)}, nil
		}
		return Line{}, errors.NewIOError(err, "")
	}

	return Line{Offset: start, Text: trimTerminator(text)}, nil
}

// trimTerminator strips a trailing "\n" and an immediately preceding "\r"
// from text, leaving a bare newline-free payload.
func trimTerminator(text string) string {
	if n := len(text); n > 0 && text[n-1] == '\n' {
		text = text[:n-1]
	}
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return text
}
