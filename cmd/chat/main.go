// Command chat is an interactive terminal client for large-language-model
// chat backends.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/viper"

	"github.com/tailored-agentic-units/chat/conversation"
	"github.com/tailored-agentic-units/chat/display"
)

func main() {
	exitCode := runSafely(os.Args[1:], run, os.Stderr)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			display.Errorf(errWriter, "panic recovered: %v\n%s", r, debug.Stack())
			exitCode = 1
		}
	}()

	return runner(args)
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := environment{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: envLookup(),
	}

	cmd := newRootCmd(env)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		report(env.stderr, cmd.UsageString(), err)
		return 1
	}
	return 0
}

// envLookup reads credentials from the process environment.
func envLookup() func(string) string {
	v := viper.New()
	v.AutomaticEnv()
	return v.GetString
}

// report prints a startup or runtime failure the way the user can act on it.
func report(w io.Writer, usage string, err error) {
	var credErr *missingCredentialError
	switch {
	case errors.As(err, &credErr):
		display.Errorf(w, "%s environment variable is not set.", credErr.env)
		display.Plainf(w, "Please set your API key:")
		display.Plainf(w, "  export %s='your-api-key-here'", credErr.env)
	case errors.Is(err, conversation.ErrConfiguration):
		display.Errorf(w, "%v", err)
		display.Plainf(w, "")
		display.Plainf(w, "%s", usage)
	default:
		display.Errorf(w, "Fatal error: %v", err)
	}
}

type missingCredentialError struct {
	env string
	err error
}

func (e *missingCredentialError) Error() string {
	return fmt.Sprintf("%s: %v", conversation.ErrConfiguration, e.err)
}

func (e *missingCredentialError) Unwrap() []error {
	return []error{conversation.ErrConfiguration, e.err}
}
