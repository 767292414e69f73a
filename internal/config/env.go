package config

import (
	"fmt"
	"strconv"
)

// Environment variables understood by ApplyEnv.
const (
	EnvLogLevel        = "TEXTCMD_LOG_LEVEL"
	EnvLogFile         = "TEXTCMD_LOG_FILE"
	EnvHistoryMax      = "TEXTCMD_HISTORY_MAX_ENTRIES"
	EnvSelectionPolicy = "TEXTCMD_SELECTION_POLICY"
	EnvReadOnly        = "TEXTCMD_READ_ONLY"
	EnvInitialText     = "TEXTCMD_INITIAL_TEXT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with any TEXTCMD_* variables present.
// Empty values are treated as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.Log.File = v
	}
	if v, ok := lookup(EnvSelectionPolicy); ok {
		cfg.Editor.SelectionPolicy = v
	}
	if v, ok := lookup(EnvInitialText); ok {
		cfg.Editor.InitialText = v
	}
	if v, ok := lookup(EnvHistoryMax); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHistoryMax, err)
		}
		cfg.History.MaxEntries = n
	}
	if v, ok := lookup(EnvReadOnly); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvReadOnly, err)
		}
		cfg.Editor.ReadOnly = b
	}
	return nil
}
