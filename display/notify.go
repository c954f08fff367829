// Package display writes everything the chat client shows on the terminal:
// symbol-prefixed notices, the welcome banner and assistant responses.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// MessageType selects the symbol and color of a notice.
type MessageType int

const (
	// ErrorType is red with a ✗ symbol.
	ErrorType MessageType = iota
	// WarningType is yellow with a ⚠ symbol.
	WarningType
	// SuccessType is green with a ✔ symbol.
	SuccessType
	// InfoType is blue with a ℹ symbol.
	InfoType
	// PlainType has no symbol and no color.
	PlainType
)

// Message is a notice to write.
type Message struct {
	Type    MessageType
	Content string
	Args    []any
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

// Errorf writes an error notice.
func Errorf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: w})
}

// Warningf writes a warning notice.
func Warningf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: w})
}

// Successf writes a success notice.
func Successf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: w})
}

// Infof writes an informational notice.
func Infof(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: w})
}

// Plainf writes an unstyled line.
func Plainf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: PlainType, Content: format, Args: args, Writer: w})
}

// WriteMessage writes msg followed by a newline. Continuation lines of
// multi-line content are indented to align with the first line's text.
func WriteMessage(msg Message) {
	if msg.Writer == nil {
		msg.Writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	style := styleFor(msg.Type)
	content = indentContinuation(content, style.symbol)
	_, err := style.color.Fprintf(msg.Writer, "%s%s\n", style.symbol, content)
	reportWriteError(err)
}

type messageStyle struct {
	symbol string
	color  *color.Color
}

func styleFor(t MessageType) messageStyle {
	switch t {
	case ErrorType:
		return messageStyle{symbol: "✗ ", color: color.New(color.FgRed)}
	case WarningType:
		return messageStyle{symbol: "⚠ ", color: color.New(color.FgYellow)}
	case SuccessType:
		return messageStyle{symbol: "✔ ", color: color.New(color.FgGreen)}
	case InfoType:
		return messageStyle{symbol: "ℹ ", color: color.New(color.FgBlue)}
	default:
		return messageStyle{color: color.New(color.Reset)}
	}
}

// reportWriteError sends write failures to stderr; a notice that can not be
// printed must not interrupt the session.
func reportWriteError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "display: failed to print message: %v\n", err)
	}
}

func indentContinuation(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	pad := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
