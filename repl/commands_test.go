package repl_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/chat/conversation"
	"github.com/tailored-agentic-units/chat/repl"
)

// fakeEngine records calls without talking to a backend.
type fakeEngine struct {
	exchanges []string
	clears    int
	renderErr error
}

func (e *fakeEngine) Exchange(ctx context.Context, message string) (*conversation.Outcome, error) {
	e.exchanges = append(e.exchanges, message)
	return &conversation.Outcome{Response: "ok"}, nil
}

func (e *fakeEngine) ClearHistory() {
	e.clears++
}

func (e *fakeEngine) RenderHistory(w io.Writer) error {
	if e.renderErr != nil {
		return e.renderErr
	}
	_, err := io.WriteString(w, conversation.NoHistoryNotice+"\n")
	return err
}

func TestInterpret_Classification(t *testing.T) {
	tests := []struct {
		input string
		want  repl.Action
	}{
		{input: "", want: repl.ActionNone},
		{input: "/exit", want: repl.ActionExit},
		{input: "/quit", want: repl.ActionExit},
		{input: "/help", want: repl.ActionNone},
		{input: "/clear", want: repl.ActionNone},
		{input: "/history", want: repl.ActionNone},
		{input: "hello", want: repl.ActionChat},
		{input: "what does /exit do?", want: repl.ActionChat},
		{input: "line one\n/exit", want: repl.ActionChat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			engine := &fakeEngine{}
			in := repl.NewInterpreter(engine, io.Discard)

			got, err := in.Interpret(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, engine.exchanges)
		})
	}
}

func TestInterpret_UnknownCommand(t *testing.T) {
	for _, input := range []string{"/bogus", "/EXIT", "/exit now", "/"} {
		t.Run(input, func(t *testing.T) {
			var out bytes.Buffer
			engine := &fakeEngine{}
			in := repl.NewInterpreter(engine, &out)

			_, err := in.Interpret(context.Background(), input)
			assert.ErrorIs(t, err, repl.ErrUnknownCommand)
			assert.Contains(t, err.Error(), input)
			assert.Empty(t, engine.exchanges)
			assert.Empty(t, out.String())
		})
	}
}

func TestInterpret_Clear(t *testing.T) {
	var out bytes.Buffer
	engine := &fakeEngine{}
	in := repl.NewInterpreter(engine, &out)

	_, err := in.Interpret(context.Background(), "/clear")
	require.NoError(t, err)

	assert.Equal(t, 1, engine.clears)
	assert.Contains(t, out.String(), "Conversation history cleared.")
}

func TestInterpret_History(t *testing.T) {
	var out bytes.Buffer
	in := repl.NewInterpreter(&fakeEngine{}, &out)

	_, err := in.Interpret(context.Background(), "/history")
	require.NoError(t, err)

	assert.Equal(t, "No conversation history yet.\n", out.String())
}

func TestInterpret_HistoryWriteError(t *testing.T) {
	boom := errors.New("closed pipe")
	in := repl.NewInterpreter(&fakeEngine{renderErr: boom}, io.Discard)

	_, err := in.Interpret(context.Background(), "/history")
	assert.ErrorIs(t, err, boom)
}

func TestInterpret_Help(t *testing.T) {
	var out bytes.Buffer
	in := repl.NewInterpreter(&fakeEngine{}, &out)

	_, err := in.Interpret(context.Background(), "/help")
	require.NoError(t, err)

	assert.Equal(t, repl.HelpText()+"\n", out.String())
	for _, c := range repl.Commands {
		assert.Contains(t, out.String(), c.Name)
		assert.Contains(t, out.String(), c.Description)
	}
}

func TestCommandNames(t *testing.T) {
	assert.Equal(t, []string{"/help", "/clear", "/history", "/exit", "/quit"}, repl.CommandNames())
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "none", repl.ActionNone.String())
	assert.Equal(t, "chat", repl.ActionChat.String())
	assert.Equal(t, "exit", repl.ActionExit.String())
	assert.Equal(t, "Action(9)", repl.Action(9).String())
}
