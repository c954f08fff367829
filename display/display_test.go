package display_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/chat/display"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestWriteMessage_Types(t *testing.T) {
	tests := []struct {
		name  string
		write func(*bytes.Buffer)
		want  string
	}{
		{
			name:  "error",
			write: func(b *bytes.Buffer) { display.Errorf(b, "failed: %s", "boom") },
			want:  "✗ failed: boom\n",
		},
		{
			name:  "warning",
			write: func(b *bytes.Buffer) { display.Warningf(b, "careful") },
			want:  "⚠ careful\n",
		},
		{
			name:  "success",
			write: func(b *bytes.Buffer) { display.Successf(b, "done in %d steps", 3) },
			want:  "✔ done in 3 steps\n",
		},
		{
			name:  "info",
			write: func(b *bytes.Buffer) { display.Infof(b, "Conversation history cleared.") },
			want:  "ℹ Conversation history cleared.\n",
		},
		{
			name:  "plain",
			write: func(b *bytes.Buffer) { display.Plainf(b, "Goodbye!") },
			want:  "Goodbye!\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(&buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteMessage_MultilineIndent(t *testing.T) {
	var buf bytes.Buffer

	display.Errorf(&buf, "first\nsecond\n\nthird")

	assert.Equal(t, "✗ first\n  second\n\n  third\n", buf.String())
}

func TestWriteMessage_PercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer

	display.WriteMessage(display.Message{Type: display.PlainType, Content: "100% done", Writer: &buf})

	assert.Equal(t, "100% done\n", buf.String())
}

func TestRenderer_NonTerminalWidth(t *testing.T) {
	r := display.NewRenderer(&bytes.Buffer{}, display.Options{})

	got := r.FormatResponse(strings.Repeat("lorem ipsum ", 20))

	lines := strings.Split(got, "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), display.DefaultWidth-len("Assistant: "))
	}
}

func TestRenderer_WidthOverride(t *testing.T) {
	r := display.NewRenderer(&bytes.Buffer{}, display.Options{Width: 40})

	got := r.FormatResponse("one two three four five six seven eight nine ten")

	assert.Equal(t, "one two three four five six\nseven eight nine ten", got)
}

func TestRenderer_PromptAndResponse(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewRenderer(&buf, display.Options{})

	r.Prompt()
	r.Thinking()
	r.Response("Lima.")

	assert.Equal(t, "\nYou: Assistant: Thinking...\rAssistant: Lima.\n", buf.String())
}

func TestRenderer_ResponseWraps(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewRenderer(&buf, display.Options{Width: 31})

	r.Response("the quick brown fox jumps over the lazy dog")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines[1:] {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func TestRenderer_Failure(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewRenderer(&buf, display.Options{})

	r.Thinking()
	r.Failure("Error communicating with LLM", errors.New("timeout"), "Please try again or type /exit to quit.")

	want := "Assistant: Thinking...\n" +
		"✗ Error communicating with LLM: timeout\n" +
		"Please try again or type /exit to quit.\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderer_Banner(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewRenderer(&buf, display.Options{})

	r.Banner("LLM Chat CLI", "Model: gpt-4o-mini")

	out := buf.String()
	assert.Contains(t, out, "LLM Chat CLI")
	assert.Contains(t, out, "Model: gpt-4o-mini")
	assert.Contains(t, out, "╔")
	assert.Contains(t, out, "╝")
}

func TestRenderer_Markdown(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewRenderer(&buf, display.Options{Markdown: true})

	r.Response("# Title\n\nSome **bold** text.")

	out := buf.String()
	assert.Contains(t, out, "Assistant: ")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}
