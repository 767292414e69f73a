package engine

import (
	"errors"

	"github.com/dshills/textcmd/internal/engine/document"
	"github.com/dshills/textcmd/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrNilCommand indicates Execute was called without a command.
	ErrNilCommand = history.ErrNilCommand

	// ErrNothingToUndo and ErrNothingToRedo are returned by History; the
	// engine treats an empty stack as a no-op.
	ErrNothingToUndo = history.ErrNothingToUndo
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrInvalidRange matches every InvalidRangeError via errors.Is.
	ErrInvalidRange = document.ErrInvalidRange
)

// InvalidRangeError reports selection bounds outside the content.
type InvalidRangeError = document.InvalidRangeError
