// Package app wires configuration, logging, the engine and the front-ends
// together and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcmd/internal/config"
	"github.com/dshills/textcmd/internal/engine"
	"github.com/dshills/textcmd/internal/inspect"
	"github.com/dshills/textcmd/internal/logging"
	"github.com/dshills/textcmd/internal/script"
	"github.com/dshills/textcmd/internal/tui"
)

// Application owns one engine and the front-end driving it.
type Application struct {
	config *config.Config
	engine *engine.Engine
	logger *logging.Logger

	// logFile is non-nil when logging goes to Log.File.
	logFile io.Closer

	stdout io.Writer
	stderr io.Writer

	running atomic.Bool
	opts    Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Text replaces the configured initial text when TextSet is true.
	Text    string
	TextSet bool

	// ScriptPath is a Lua script to run instead of the terminal UI.
	ScriptPath string

	// JSON prints the final state as JSON after a script.
	JSON bool

	// LogLevel overrides the configured level when non-empty.
	LogLevel string

	// Watch reloads the configuration file while the UI runs.
	Watch bool

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// New loads the configuration and creates the engine.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:   opts,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if opts.TextSet {
		cfg.Editor.InitialText = opts.Text
	}
	if opts.LogLevel != "" {
		if !logging.ValidLevel(opts.LogLevel) {
			return nil, &InitError{
				Component: "config",
				Err:       fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel),
			}
		}
		cfg.Log.Level = opts.LogLevel
	}
	app.config = cfg

	if err := app.openLogger(); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}

	app.engine = engine.New(cfg.EngineOptions(app.logger)...)
	app.logger.Debug("engine ready: policy=%v max_entries=%d read_only=%v",
		app.engine.SelectionPolicy(), cfg.History.MaxEntries, app.engine.IsReadOnly())

	return app, nil
}

func (app *Application) openLogger() error {
	out := app.stderr
	if path := app.config.Log.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		out = f
	}

	cfg := logging.DefaultConfig()
	cfg.Level = app.config.LogLevel()
	cfg.Output = out
	app.logger = logging.New(cfg)
	return nil
}

// Run runs the script if one was given, otherwise the terminal UI.
// Blocks until the script finishes, the user quits or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if app.opts.ScriptPath != "" {
		return app.RunScript(ctx)
	}

	screen, err := tui.NewScreen()
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer screen.Fini()

	return app.RunUI(ctx, screen)
}

// RunScript executes the configured script, then prints the content or,
// with JSON set, the inspected state.
func (app *Application) RunScript(ctx context.Context) error {
	if app.opts.ScriptPath == "" {
		return ErrNoScript
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	runner := script.NewRunner(app.engine,
		script.WithOutput(app.stdout),
		script.WithLogger(app.logger),
	)
	defer runner.Close()

	if err := runner.RunFile(ctx, app.opts.ScriptPath); err != nil {
		return NewOperationError("run script", app.opts.ScriptPath, err)
	}
	return app.printResult()
}

func (app *Application) printResult() error {
	if !app.opts.JSON {
		_, err := fmt.Fprintln(app.stdout, app.engine.Content())
		return err
	}

	doc, err := inspect.Pretty(app.engine)
	if err != nil {
		return NewOperationError("print", "", err)
	}
	_, err = io.WriteString(app.stdout, doc)
	return err
}

// RunUI drives the engine from an initialized screen.
func (app *Application) RunUI(ctx context.Context, screen tcell.Screen) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	// Log lines on stderr would corrupt the screen.
	if app.logFile == nil {
		app.logger.Disable()
		defer app.logger.Enable()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.opts.Watch && app.opts.ConfigPath != "" {
		w := config.NewWatcher(app.opts.ConfigPath, app.applyReload,
			config.WithWatcherLogger(app.logger))
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				app.logger.Error("config watcher stopped: %v", err)
			}
		}()
	}

	ui := tui.New(screen, app.engine, tui.WithLogger(app.logger))
	if err := ui.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// applyReload applies the settings that can change while running.
// Selection policy, read-only and initial text take effect on restart.
// A level given on the command line still wins over the file.
func (app *Application) applyReload(cfg *config.Config) {
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	app.logger.SetLevel(cfg.LogLevel())
	app.engine.SetMaxUndoEntries(cfg.History.MaxEntries)

	if cfg.Editor.SelectionPolicy != app.config.Editor.SelectionPolicy ||
		cfg.Editor.ReadOnly != app.config.Editor.ReadOnly {
		app.logger.Warn("selection_policy and read_only changes apply on restart")
	}
	app.logger.Info("config reloaded: level=%s max_entries=%d", cfg.Log.Level, cfg.History.MaxEntries)
}

// Shutdown releases resources. Safe to call more than once.
func (app *Application) Shutdown() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// Engine returns the engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Config returns the resolved configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// IsRunning returns true while a script or the UI is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}
