package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MaxLineSize is the longest single input line the reader accepts.
const MaxLineSize = 1 << 20

// LineReader splits terminal input into turns. A turn is one or more
// non-blank lines terminated by a blank line or by end of input.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &LineReader{scanner: scanner}
}

// ReadTurn returns the next turn with its lines joined by "\n" and the
// whole trimmed. Blank lines before any content are skipped. When input
// ends with nothing buffered ReadTurn returns io.EOF; buffered lines are
// returned first and io.EOF is reported by the following call.
func (r *LineReader) ReadTurn() (string, error) {
	var lines []string

	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, line)
	}

	if err := r.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	if len(lines) == 0 {
		return "", io.EOF
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
