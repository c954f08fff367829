package display

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

// DefaultWidth is the wrap width used when the output is not a terminal or
// its size can not be read.
const DefaultWidth = 80

const (
	userLabel      = "You: "
	assistantLabel = "Assistant: "
	thinking       = "Thinking..."
	clearLine      = "\x1b[K"
)

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	Padding(0, 2)

// Options configures a Renderer.
type Options struct {
	// Markdown renders assistant responses as terminal markdown.
	Markdown bool
	// Width overrides the detected terminal width when positive.
	Width int
}

// Renderer writes the conversation to a terminal or any other writer.
type Renderer struct {
	out      io.Writer
	width    int
	tty      bool
	markdown *glamour.TermRenderer
}

// NewRenderer creates a Renderer writing to out. When markdown rendering
// can not be initialized responses fall back to wrapped plain text.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	width, tty := terminalWidth(out)
	if opts.Width > 0 {
		width = opts.Width
	}

	r := &Renderer{out: out, width: width, tty: tty}

	if opts.Markdown {
		style := styles.NoTTYStyle
		if tty {
			style = styles.DarkStyle
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			r.markdown = md
		}
	}

	return r
}

// Writer returns the underlying output.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Banner writes title and details inside a double-line frame.
func (r *Renderer) Banner(title string, details ...string) {
	lines := append([]string{lipgloss.NewStyle().Bold(true).Render(title)}, details...)
	box := bannerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	r.write("\n" + box + "\n")
}

// Prompt writes the input prompt without a trailing newline.
func (r *Renderer) Prompt() {
	r.write("\n" + userLabel)
}

// Thinking shows the pending-response indicator on the current line.
func (r *Renderer) Thinking() {
	r.write(assistantLabel + thinking)
}

// Response replaces the indicator with the assistant's reply.
func (r *Renderer) Response(text string) {
	r.write(r.rewind() + assistantLabel + r.FormatResponse(text) + "\n")
}

// Failure ends the indicator line and writes err as an error notice
// followed by hint.
func (r *Renderer) Failure(message string, err error, hint string) {
	r.write("\n")
	Errorf(r.out, "%s: %v", message, err)
	Plainf(r.out, "%s", hint)
}

// FormatResponse renders text as markdown when enabled, otherwise wraps it
// to the renderer width.
func (r *Renderer) FormatResponse(text string) string {
	if r.markdown != nil {
		out, err := r.markdown.Render(text)
		if err == nil {
			return "\n" + strings.TrimRight(out, "\n")
		}
	}
	return wrap(text, r.width-len(assistantLabel))
}

func (r *Renderer) rewind() string {
	if r.tty {
		return "\r" + clearLine
	}
	return "\r"
}

func (r *Renderer) write(s string) {
	_, err := io.WriteString(r.out, s)
	reportWriteError(err)
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.WrapString(text, uint(width))
}

func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultWidth, false
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth, false
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultWidth, true
	}
	return width, true
}
