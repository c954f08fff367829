package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tailored-agentic-units/chat/conversation"
	"github.com/tailored-agentic-units/chat/display"
)

// ErrUnknownCommand is returned by Interpret for input that starts with "/"
// but names no command. The input is never forwarded to the backend.
var ErrUnknownCommand = errors.New("unknown command")

// Action tells the driver what to do after a turn was interpreted.
type Action int

const (
	// ActionNone means the turn was fully handled.
	ActionNone Action = iota
	// ActionChat means the turn is a chat message for the engine.
	ActionChat
	// ActionExit ends the session.
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionChat:
		return "chat"
	case ActionExit:
		return "exit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Engine is the conversation state the interpreter and driver operate on.
type Engine interface {
	Exchange(ctx context.Context, message string) (*conversation.Outcome, error)
	ClearHistory()
	RenderHistory(w io.Writer) error
}

type commandKind int

const (
	kindHelp commandKind = iota
	kindClear
	kindHistory
	kindExit
)

// Command is one interactive command.
type Command struct {
	Name        string
	Description string
	kind        commandKind
}

// Commands is the command table in help order.
var Commands = []Command{
	{Name: "/help", Description: "Show this help message", kind: kindHelp},
	{Name: "/clear", Description: "Clear conversation history", kind: kindClear},
	{Name: "/history", Description: "Show conversation history", kind: kindHistory},
	{Name: "/exit", Description: "Exit the application", kind: kindExit},
	{Name: "/quit", Description: "Exit the application", kind: kindExit},
}

// CommandNames returns the names of every command in table order.
func CommandNames() []string {
	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = c.Name
	}
	return names
}

// Interpreter classifies turns and executes commands.
type Interpreter struct {
	engine Engine
	out    io.Writer
}

// NewInterpreter creates an Interpreter that acts on engine and writes
// command output to out.
func NewInterpreter(engine Engine, out io.Writer) *Interpreter {
	return &Interpreter{engine: engine, out: out}
}

// Interpret handles input. Commands match exactly and take no arguments.
// Any other text is returned as ActionChat for the caller to send.
func (in *Interpreter) Interpret(ctx context.Context, input string) (Action, error) {
	if input == "" {
		return ActionNone, nil
	}
	if !strings.HasPrefix(input, "/") {
		return ActionChat, nil
	}

	for _, c := range Commands {
		if c.Name == input {
			return in.run(c.kind)
		}
	}
	return ActionNone, fmt.Errorf("%w: %s", ErrUnknownCommand, input)
}

func (in *Interpreter) run(kind commandKind) (Action, error) {
	switch kind {
	case kindHelp:
		display.Plainf(in.out, "%s", HelpText())
	case kindClear:
		in.engine.ClearHistory()
		display.Successf(in.out, "Conversation history cleared.")
	case kindHistory:
		if err := in.engine.RenderHistory(in.out); err != nil {
			return ActionNone, err
		}
	case kindExit:
		return ActionExit, nil
	}
	return ActionNone, nil
}

// HelpText renders the command table and the input protocol.
func HelpText() string {
	var b strings.Builder

	b.WriteString("\nAvailable Commands:\n")
	for _, c := range Commands {
		fmt.Fprintf(&b, "  %-11s %s\n", c.Name, c.Description)
	}

	b.WriteString("\nHow to use:\n")
	b.WriteString("  - Type your message (can be multiple lines)\n")
	b.WriteString("  - Press Enter twice (empty line) to send\n")
	b.WriteString("  - For single line, just press Enter twice")
	return b.String()
}
