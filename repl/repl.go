// Package repl is the interactive loop of the chat client. It reads turns
// with the multi-line protocol, routes commands to the Interpreter and sends
// everything else through the conversation Engine.
//
// Failures of a single exchange are reported inline and never end the loop.
// The loop stops on an exit command, at end of input, or when its context is
// cancelled.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tailored-agentic-units/chat/display"
)

// Title is shown in the welcome banner.
const Title = "LLM Chat CLI"

const (
	backendFailure = "Error communicating with LLM"
	backendHint    = "Please try again or type /exit to quit."
	unknownHint    = "Type /help for available commands."
	interrupted    = "Interrupted."
	farewell       = "\nGoodbye!"
)

// Driver runs the read-interpret-exchange loop.
type Driver struct {
	reader   *LineReader
	interp   *Interpreter
	engine   Engine
	render   *display.Renderer
	farewell func()
}

type readResult struct {
	input string
	err   error
}

// New creates a Driver reading turns from in and writing through render.
func New(in io.Reader, engine Engine, render *display.Renderer) *Driver {
	out := render.Writer()
	return &Driver{
		reader: NewLineReader(in),
		interp: NewInterpreter(engine, out),
		engine: engine,
		render: render,
		farewell: sync.OnceFunc(func() {
			display.Plainf(out, "%s", farewell)
		}),
	}
}

// Welcome writes the banner and usage line.
func (d *Driver) Welcome(details ...string) {
	d.render.Banner(Title, details...)

	out := d.render.Writer()
	display.Plainf(out, "\nType your message and press Enter twice to send.")
	display.Plainf(out, "(First Enter = new line, Second Enter on empty line = send)")
	display.Plainf(out, "Commands: %s", strings.Join(CommandNames(), ", "))
}

// Farewell prints the goodbye line. Only the first call writes.
func (d *Driver) Farewell() {
	d.farewell()
}

// Run loops until an exit command, end of input or cancellation of ctx,
// which all return nil. Cancellation is reported with an info notice. Any
// other returned error is unexpected.
func (d *Driver) Run(ctx context.Context) error {
	results := make(chan readResult, 1)

	for {
		if ctx.Err() != nil {
			d.interrupt()
			return nil
		}

		d.render.Prompt()

		input, err := d.read(ctx, results)
		if ctx.Err() != nil {
			d.interrupt()
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		action, err := d.interp.Interpret(ctx, input)
		if errors.Is(err, ErrUnknownCommand) {
			display.Warningf(d.render.Writer(), "Unknown command: %s", input)
			display.Plainf(d.render.Writer(), "%s", unknownHint)
			continue
		}
		if err != nil {
			return fmt.Errorf("command %s failed: %w", input, err)
		}

		switch action {
		case ActionExit:
			return nil
		case ActionChat:
			d.exchange(ctx, input)
		}
	}
}

// read blocks for the next turn or until ctx is done. A read abandoned by
// cancellation keeps its goroutine until the input yields or the process
// exits; no further reads are started after that.
func (d *Driver) read(ctx context.Context, results chan readResult) (string, error) {
	go func() {
		input, err := d.reader.ReadTurn()
		results <- readResult{input: input, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-results:
		return r.input, r.err
	}
}

func (d *Driver) interrupt() {
	display.Plainf(d.render.Writer(), "")
	display.Infof(d.render.Writer(), "%s", interrupted)
}

func (d *Driver) exchange(ctx context.Context, input string) {
	d.render.Thinking()

	outcome, err := d.engine.Exchange(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		d.render.Failure(backendFailure, err, backendHint)
		return
	}

	d.render.Response(outcome.Response)
}
