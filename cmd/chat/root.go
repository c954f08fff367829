package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tailored-agentic-units/chat/agent"
	"github.com/tailored-agentic-units/chat/conversation"
	"github.com/tailored-agentic-units/chat/display"
	"github.com/tailored-agentic-units/chat/observability"
	"github.com/tailored-agentic-units/chat/repl"
)

// environment is everything the command reads from or writes to outside
// its flags.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lookup func(name string) string
}

type flags struct {
	systemPrompt string
	temperature  float64
	model        string
	configFile   string
	contextDir   string
	timeout      time.Duration
	markdown     bool
	observer     string
	verbose      bool
}

func newRootCmd(env environment) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with a large language model",
		Long: `Chat with a large language model from the terminal.

Type a message and press Enter on an empty line to send it. Multi-line
messages are sent when a blank line follows them.

Commands: ` + strings.Join(repl.CommandNames(), ", ") + `

Models:
` + modelHelp(),
		Example: `  chat
  chat --model claude-3.5-sonnet --temperature 0.3
  chat --system-prompt "You are a pirate." --markdown`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, env, &f)
		},
	}

	cmd.SetIn(env.stdin)
	cmd.SetOut(env.stdout)
	cmd.SetErr(env.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", conversation.ErrConfiguration, err)
	})

	bindFlags(cmd.Flags(), &f)
	return cmd
}

func bindFlags(fs *pflag.FlagSet, f *flags) {
	fs.StringVar(&f.systemPrompt, "system-prompt", conversation.DefaultSystemPrompt, "System instruction sent with every message")
	fs.Float64Var(&f.temperature, "temperature", agent.DefaultTemperature,
		fmt.Sprintf("Sampling temperature (%.1f to %.1f)", agent.MinTemperature, agent.MaxTemperature))
	fs.StringVar(&f.model, "model", agent.DefaultModel,
		"Model to use (see Models above)")
	fs.StringVar(&f.configFile, "config", "", "Config file (JSON, YAML or TOML)")
	fs.StringVar(&f.contextDir, "context-dir", "", "Directory of context files appended to the system instruction")
	fs.DurationVar(&f.timeout, "timeout", agent.DefaultTimeout, "Backend request timeout; 0 disables it")
	fs.BoolVar(&f.markdown, "markdown", false, "Render responses as terminal markdown")
	fs.StringVar(&f.observer, "observer", "zap",
		fmt.Sprintf("Comma-separated event sinks (%s)", strings.Join(observability.Names(), ", ")))
	fs.BoolVar(&f.verbose, "verbose", false, "Log debug events to stderr")
}

// modelHelp lists the catalog, one model per line.
func modelHelp() string {
	var b strings.Builder
	for _, m := range agent.Catalog.List() {
		fmt.Fprintf(&b, "  %-20s %s\n", m.Name, m.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %s", conversation.ErrConfiguration, strings.Join(args, " "))
	}
	return nil
}

// resolveConfig layers defaults, the config file and changed flags, in
// that order.
func resolveConfig(fs *pflag.FlagSet, f *flags) (*conversation.Config, error) {
	cfg := conversation.DefaultConfig()
	if f.configFile != "" {
		loaded, err := conversation.LoadConfig(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if fs.Changed("system-prompt") {
		cfg.SystemPrompt = f.systemPrompt
	}
	if fs.Changed("temperature") {
		t := f.temperature
		cfg.Agent.Temperature = &t
	}
	if fs.Changed("model") {
		cfg.Agent.Model = f.model
	}
	if fs.Changed("context-dir") {
		cfg.Memory.Path = f.contextDir
	}
	if fs.Changed("timeout") {
		timeout := f.timeout
		cfg.Agent.Timeout = &timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveCredential(cfg *conversation.Config, lookup func(string) string) error {
	err := agent.ResolveCredential(&cfg.Agent, lookup)
	if err == nil {
		return nil
	}
	if errors.Is(err, agent.ErrMissingCredential) {
		name, _ := agent.CredentialEnv(cfg.Agent.Model)
		return &missingCredentialError{env: name, err: err}
	}
	return fmt.Errorf("%w: %w", conversation.ErrConfiguration, err)
}

// newLogger builds the process logger: production JSON on stderr at error
// level, or debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func registerObservers(logger *zap.Logger, stderr io.Writer, verbose bool) {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}

	observability.RegisterObserver("zap", observability.NewZapObserver(logger))
	observability.RegisterObserver("slog", observability.NewSlogObserver(
		slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	))
}

// resolveObserver looks up each comma-separated sink name. Several sinks are
// combined into one MultiObserver in the order given.
func resolveObserver(names string) (observability.Observer, error) {
	var observers []observability.Observer
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		obs, err := observability.GetObserver(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", conversation.ErrConfiguration, err)
		}
		observers = append(observers, obs)
	}

	switch len(observers) {
	case 0:
		return nil, fmt.Errorf("%w: no event sink named in %q", conversation.ErrConfiguration, names)
	case 1:
		return observers[0], nil
	default:
		return observability.NewMultiObserver(observers...), nil
	}
}

func runChat(cmd *cobra.Command, env environment, f *flags) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(cmd.Flags(), f)
	if err != nil {
		return err
	}
	if err := resolveCredential(cfg, env.lookup); err != nil {
		return err
	}

	logger, err := newLogger(f.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registerObservers(logger, env.stderr, f.verbose)
	observer, err := resolveObserver(f.observer)
	if err != nil {
		return err
	}

	engine, err := conversation.New(ctx, cfg, conversation.WithObserver(observer))
	if err != nil {
		return err
	}

	renderer := display.NewRenderer(env.stdout, display.Options{Markdown: f.markdown})
	driver := repl.New(env.stdin, engine, renderer)
	defer driver.Farewell()

	driver.Welcome(
		"Model: "+engine.Model(),
		"Session: "+engine.SessionID(),
	)

	return driver.Run(ctx)
}
