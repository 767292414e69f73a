package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textcmd/internal/engine/document"
)

// Selection is an alias for document.Selection for convenience.
type Selection = document.Selection

// State is an alias for document.State for convenience.
type State = document.State

// OperationInfo provides read-only info about a recorded command.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	ID          uuid.UUID // Stable identifier of the history entry
	Description string    // Human-readable description
	Timestamp   time.Time // When the command was first recorded
}

// undoEntry wraps a command with metadata. An entry moves between the undo
// and redo stacks; it is never on both.
type undoEntry struct {
	id        uuid.UUID
	command   Command
	timestamp time.Time
}

func newUndoEntry(cmd Command) *undoEntry {
	return &undoEntry{
		id:        uuid.New(),
		command:   cmd,
		timestamp: time.Now(),
	}
}

func (e *undoEntry) info() OperationInfo {
	return OperationInfo{
		ID:          e.id,
		Description: e.command.Description(),
		Timestamp:   e.timestamp,
	}
}
