package protocol

import (
	"bufio"
	"io"
	"strings"
)

// maxLineBytes bounds a single inbound line. Legitimate client messages are a
// few dozen bytes; anything near the cap is garbage and fails the scan.
const maxLineBytes = 4096

// LineScanner splits an inbound byte stream into trimmed protocol lines.
// It buffers partial reads internally, so callers only ever see whole lines.
type LineScanner struct {
	s *bufio.Scanner
}

// NewLineScanner wraps r in a LineScanner.
func NewLineScanner(r io.Reader) *LineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 256), maxLineBytes)
	return &LineScanner{s: s}
}

// Next blocks until a complete line is available and returns it with
// surrounding whitespace (including any trailing '\r') removed. It returns
// io.EOF when the peer closes the stream cleanly, or the underlying read
// error otherwise.
func (l *LineScanner) Next() (string, error) {
	if !l.s.Scan() {
		if err := l.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(l.s.Text()), nil
}

// Line terminates msg for the wire.
func Line(msg string) []byte {
	return []byte(msg + "\n")
}
