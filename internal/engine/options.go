package engine

import (
	"github.com/dshills/textcmd/internal/engine/history"
	"github.com/dshills/textcmd/internal/logging"
)

// Default configuration values.
const (
	// DefaultMaxUndoEntries keeps history unbounded.
	DefaultMaxUndoEntries = 0
)

// SelectionPolicy decides how SetSelection handles out-of-range bounds.
type SelectionPolicy = history.SelectionMode

// Selection policies.
const (
	// SelectionChecked rejects invalid bounds with an InvalidRangeError.
	SelectionChecked = history.Checked
	// SelectionUnchecked applies bounds verbatim.
	SelectionUnchecked = history.Unchecked
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
// Zero or a negative value means unlimited.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max < 0 {
			max = 0
		}
		e.maxUndoEntries = max
	}
}

// WithSelectionPolicy sets how selection commands validate their bounds.
func WithSelectionPolicy(p SelectionPolicy) Option {
	return func(e *Engine) {
		e.selectionPolicy = p
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithReadOnly creates a read-only engine.
// Execute, Undo and Redo return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
