package history

import (
	"errors"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrNilCommand    = errors.New("nil command")
)

// History manages the undo and redo stacks for one document.
type History struct {
	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state
	grouping  bool
	groupName string
	groupCmds []Command

	// Configuration; 0 means unlimited
	maxEntries int
}

// NewHistory creates a new history manager.
// maxEntries <= 0 keeps every entry until the redo stack is discarded by a
// new command.
func NewHistory(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Execute runs a command and adds it to the undo stack.
// A failed command is not recorded and the redo stack is left untouched.
func (h *History) Execute(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if err := cmd.Execute(); err != nil {
		return err
	}

	h.Push(cmd)
	return nil
}

// Push adds an already executed command to the undo stack.
// Clears the redo stack.
func (h *History) Push(cmd Command) {
	// Clear redo stack even while grouping: the branch is gone as soon as
	// a new edit lands.
	h.redoStack = nil

	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}

	h.pushEntry(newUndoEntry(cmd))
}

func (h *History) pushEntry(entry *undoEntry) {
	h.undoStack = append(h.undoStack, entry)
	h.trim()
}

// trim enforces maxEntries by dropping the oldest entries.
func (h *History) trim() {
	if h.maxEntries <= 0 || len(h.undoStack) <= h.maxEntries {
		return
	}
	excess := len(h.undoStack) - h.maxEntries
	for i := 0; i < excess; i++ {
		h.undoStack[i] = nil
	}
	h.undoStack = h.undoStack[excess:]
}

// Undo undoes the last command and moves it to the redo stack.
// An open group is closed first, so its commands are undone together.
// If the command's Undo fails, it stays on the undo stack.
func (h *History) Undo() error {
	h.EndGroup()
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}

	i := len(h.undoStack) - 1
	entry := h.undoStack[i]
	if err := entry.command.Undo(); err != nil {
		return err
	}

	h.undoStack[i] = nil
	h.undoStack = h.undoStack[:i]
	h.redoStack = append(h.redoStack, entry)
	return nil
}

// Redo re-executes the last undone command and moves it back to the undo
// stack. An open group is closed first. If the command's Execute fails, it
// stays on the redo stack.
func (h *History) Redo() error {
	h.EndGroup()
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}

	i := len(h.redoStack) - 1
	entry := h.redoStack[i]
	if err := entry.command.Execute(); err != nil {
		return err
	}

	h.redoStack[i] = nil
	h.redoStack = h.redoStack[:i]
	h.pushEntry(entry)
	return nil
}

// CanUndo returns true if undo is available, counting commands in an open
// group.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0 || len(h.groupCmds) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// BeginGroup starts a command group.
// Commands pushed while grouping will be combined into a single undo unit.
func (h *History) BeginGroup(name string) {
	if h.grouping {
		// Already grouping, ignore nested calls
		return
	}

	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup finishes a command group.
// All commands since BeginGroup are combined into a CompoundCommand.
func (h *History) EndGroup() {
	if !h.grouping {
		return
	}

	h.grouping = false
	cmds := h.groupCmds
	h.groupCmds = nil

	if len(cmds) == 0 {
		return
	}

	h.redoStack = nil
	h.pushEntry(newUndoEntry(NewCompoundCommand(h.groupName, cmds...)))
}

// CancelGroup cancels a command group without adding to history.
// Note: Commands already executed still affect the document!
func (h *History) CancelGroup() {
	h.grouping = false
	h.groupCmds = nil
}

// IsGrouping returns true if currently in a command group.
func (h *History) IsGrouping() bool {
	return h.grouping
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupCmds = nil
}

// UndoInfo returns info about available undo operations, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	return entriesInfo(h.undoStack)
}

// RedoInfo returns info about available redo operations. The last element
// is the next command Redo would replay.
func (h *History) RedoInfo() []OperationInfo {
	return entriesInfo(h.redoStack)
}

func entriesInfo(entries []*undoEntry) []OperationInfo {
	result := make([]OperationInfo, len(entries))
	for i, entry := range entries {
		result[i] = entry.info()
	}
	return result
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}
	h.maxEntries = max
	h.trim()
}
