package config

import (
	"errors"

	"github.com/dshills/textcmd/internal/engine"
	"github.com/dshills/textcmd/internal/engine/history"
	"github.com/dshills/textcmd/internal/logging"
)

// Config holds all textcmd settings.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// EditorConfig configures the editing engine.
type EditorConfig struct {
	// InitialText is the content of a new session.
	InitialText string `toml:"initial_text"`
	// SelectionPolicy is "checked" (reject out-of-range selections) or
	// "unchecked" (apply them verbatim).
	SelectionPolicy string `toml:"selection_policy"`
	// ReadOnly rejects every edit.
	ReadOnly bool `toml:"read_only"`
}

// HistoryConfig configures undo/redo history.
type HistoryConfig struct {
	// MaxEntries caps the undo stack; 0 means unlimited.
	MaxEntries int `toml:"max_entries"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File receives log output; empty means stderr.
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			SelectionPolicy: history.Checked.String(),
		},
		History: HistoryConfig{
			MaxEntries: engine.DefaultMaxUndoEntries,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every setting and joins all problems found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := history.ParseSelectionMode(c.Editor.SelectionPolicy); err != nil {
		errs = append(errs, &ValidationError{
			Setting: "editor.selection_policy",
			Value:   c.Editor.SelectionPolicy,
			Reason:  `must be "checked" or "unchecked"`,
		})
	}
	if c.History.MaxEntries < 0 {
		errs = append(errs, &ValidationError{
			Setting: "history.max_entries",
			Value:   c.History.MaxEntries,
			Reason:  "must be >= 0",
		})
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, &ValidationError{
			Setting: "log.level",
			Value:   c.Log.Level,
			Reason:  "must be debug, info, warn or error",
		})
	}

	return errors.Join(errs...)
}

// SelectionMode returns the parsed selection policy, Checked if invalid.
func (c *Config) SelectionMode() history.SelectionMode {
	mode, _ := history.ParseSelectionMode(c.Editor.SelectionPolicy)
	return mode
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// EngineOptions maps the configuration to engine options.
func (c *Config) EngineOptions(logger *logging.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithContent(c.Editor.InitialText),
		engine.WithMaxUndoEntries(c.History.MaxEntries),
		engine.WithSelectionPolicy(c.SelectionMode()),
		engine.WithLogger(logger),
	}
	if c.Editor.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}
