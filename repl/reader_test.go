package repl_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/chat/repl"
)

func readAll(t *testing.T, input string) []string {
	t.Helper()

	r := repl.NewLineReader(strings.NewReader(input))
	var turns []string
	for {
		turn, err := r.ReadTurn()
		if errors.Is(err, io.EOF) {
			return turns
		}
		require.NoError(t, err)
		turns = append(turns, turn)
	}
}

func TestLineReader_ReadTurn(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single line", input: "hello\n\n", want: []string{"hello"}},
		{name: "leading blanks skipped", input: "\nhello\nworld\n\n", want: []string{"hello\nworld"}},
		{name: "empty input", input: "", want: nil},
		{name: "only blank lines", input: "\n  \n\t\n", want: nil},
		{name: "end of input flushes buffer", input: "hello\nworld", want: []string{"hello\nworld"}},
		{name: "whitespace line terminates", input: "one\n   \ntwo\n\n", want: []string{"one", "two"}},
		{name: "trimmed as a whole", input: "  indented\n  inner  \n\n", want: []string{"indented\n  inner"}},
		{name: "crlf line endings", input: "hi\r\n\r\nbye\r\n\r\n", want: []string{"hi", "bye"}},
		{name: "commands are turns", input: "/history\n\n/exit\n\n", want: []string{"/history", "/exit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestLineReader_EOFIsSticky(t *testing.T) {
	r := repl.NewLineReader(strings.NewReader("hello"))

	turn, err := r.ReadTurn()
	require.NoError(t, err)
	assert.Equal(t, "hello", turn)

	for range 2 {
		_, err = r.ReadTurn()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestLineReader_LongLine(t *testing.T) {
	long := strings.Repeat("x", 512*1024)

	turns := readAll(t, long+"\n\n")

	require.Len(t, turns, 1)
	assert.Len(t, turns[0], len(long))
}

func TestLineReader_LineTooLong(t *testing.T) {
	r := repl.NewLineReader(strings.NewReader(strings.Repeat("x", repl.MaxLineSize+1) + "\n"))

	_, err := r.ReadTurn()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestLineReader_ReadError(t *testing.T) {
	boom := errors.New("device unplugged")
	r := repl.NewLineReader(iotest.ErrReader(boom))

	_, err := r.ReadTurn()
	assert.ErrorIs(t, err, boom)
}
