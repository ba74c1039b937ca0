// Package setcalc wires the calculator into a command line application.
package setcalc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/wire"
	"github.com/hayeah/goo"
	"golang.org/x/term"

	"github.com/mohamadnahleh/set-calculator/calc"
	"github.com/mohamadnahleh/set-calculator/expr"
	"github.com/mohamadnahleh/set-calculator/history"
	"github.com/mohamadnahleh/set-calculator/setstore"
	"github.com/mohamadnahleh/set-calculator/tui"
)

type HistoryCmd struct {
	Limit   int    `arg:"-n,--limit" default:"20" help:"show the most recent N commands (0 for all)"`
	Session int64  `arg:"--session" help:"only show commands from this session"`
	Match   string `arg:"-m,--match" help:"only show commands that fuzzy-match this text"`
}

type Args struct {
	Config    string      `arg:"-c,--config,env:SETCALC_CONFIG" help:"TOML config file"`
	File      string      `arg:"-f,--file" help:"run commands from a script file (- for stdin) and exit"`
	TUI       bool        `arg:"--tui" help:"use the full screen interface"`
	NoHistory bool        `arg:"--no-history" help:"do not record commands"`
	LogLevel  string      `arg:"--log-level" help:"debug, info, warn or error"`
	History   *HistoryCmd `arg:"subcommand:history" help:"print recorded commands"`
}

func (Args) Description() string {
	return "setcalc keeps three integer sets X, Y and Z and applies set operations to them.\n"
}

// ProvideConfig loads the config file and applies command line overrides.
func ProvideConfig(args *Args) (*Config, error) {
	cfg, err := LoadConfig(args.Config)
	if err != nil {
		return nil, err
	}
	if args.NoHistory {
		cfg.History.Enabled = false
	}
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}
	return cfg, nil
}

// ProvideLogger logs to stderr; stdout carries calculator output.
func ProvideLogger(cfg *Config) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// ProvideRegistry compiles the named transforms from the config.
func ProvideRegistry(cfg *Config) (*expr.Registry, error) {
	registry := expr.NewRegistry()
	for name, src := range cfg.Transforms {
		if err := registry.Register(name, src); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// ProvideHistory opens the history store. It is closed by the returned
// cleanup, or by the shutdown context on ctrl+c, whichever runs first.
func ProvideHistory(cfg *Config, logger *slog.Logger, shutdown *goo.ShutdownContext) (history.Store, func(), error) {
	store, err := history.Open(cfg.History, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}

	var once sync.Once
	closeStore := func() error {
		var err error
		once.Do(func() {
			logger.Debug("closing history", "backend", cfg.History.Backend)
			err = store.Close()
		})
		return err
	}
	shutdown.OnExit(closeStore)

	cleanup := func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close history", "err", err)
		}
	}
	return store, cleanup, nil
}

// ProvideSession creates the session that drives the calculator.
func ProvideSession(c *calc.Calculator, h history.Store, logger *slog.Logger, cfg *Config) *calc.Session {
	s := calc.NewSession(c, h, logger)
	if cfg.Prompt != "" {
		s.Prompt = cfg.Prompt
	}
	return s
}

// collect all the necessary providers
var Wires = wire.NewSet(
	goo.ProvideShutdownContext,
	ProvideConfig,
	ProvideLogger,
	ProvideRegistry,
	ProvideHistory,
	ProvideSession,
	setstore.New,
	calc.New,

	wire.Struct(new(App), "*"),
)

type App struct {
	Args     *Args
	Config   *Config
	Shutdown *goo.ShutdownContext
	Logger   *slog.Logger
	History  history.Store
	Session  *calc.Session

	Stdin  io.Reader `wire:"-"`
	Stdout io.Writer `wire:"-"`
}

func (app *App) Run(ctx context.Context) error {
	if app.Stdin == nil {
		app.Stdin = os.Stdin
	}
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}

	args := app.Args
	switch {
	case args.History != nil:
		return app.handleHistoryCommand(ctx, args.History)
	case args.File != "":
		return app.handleScript(ctx, args.File)
	case args.TUI:
		return app.handleTUI(ctx)
	default:
		if err := app.Session.Start(ctx); err != nil {
			return err
		}
		return app.Session.Run(ctx, app.Stdin, app.Stdout)
	}
}

func (app *App) handleScript(ctx context.Context, path string) error {
	in := app.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	if err := app.Session.Start(ctx); err != nil {
		return err
	}
	app.Logger.Debug("running script", "path", path)
	return app.Session.RunScript(ctx, in, app.Stdout)
}

func (app *App) handleTUI(ctx context.Context) error {
	f, ok := app.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("--tui needs an interactive terminal")
	}
	if err := app.Session.Start(ctx); err != nil {
		return err
	}
	return tui.Run(ctx, app.Session, app.Config.Color)
}

func (app *App) handleHistoryCommand(ctx context.Context, cmd *HistoryCmd) error {
	if !app.Config.History.Enabled {
		return fmt.Errorf("history is disabled")
	}

	filter := history.Filter{SessionID: cmd.Session, Limit: cmd.Limit}
	if cmd.Match != "" {
		// match first, then keep the most recent
		filter.Limit = 0
	}
	entries, err := app.History.List(ctx, filter)
	if err != nil {
		return err
	}
	entries = history.Tail(history.Match(entries, cmd.Match), cmd.Limit)

	for _, e := range entries {
		mark := ""
		if e.Failed {
			mark = "  !"
		}
		_, err := fmt.Fprintf(app.Stdout, "%5d  %3d  %s  %s%s\n",
			e.ID, e.SessionID, e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Line, mark)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
