package engine

import (
	"errors"
	"sync"

	"github.com/dshills/textcmd/internal/engine/document"
	"github.com/dshills/textcmd/internal/engine/history"
	"github.com/dshills/textcmd/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Selection is an ordered range of rune offsets.
	Selection = document.Selection

	// State is a snapshot of content and selection.
	State = document.State

	// Command is an undoable edit command.
	Command = history.Command

	// OperationInfo describes a history entry.
	OperationInfo = history.OperationInfo
)

// ChangeFunc is called with the new state after the engine's state changes.
type ChangeFunc func(State)

type listener struct {
	id int
	fn ChangeFunc
}

// Engine owns one document and its undo/redo history. Every mutation goes
// through a Command.
//
// The engine is meant for a single logical actor, but calls are serialized
// so it can be shared with a UI goroutine.
type Engine struct {
	mu sync.RWMutex

	// Core components
	doc     *document.Document
	history *history.History
	logger  *logging.Logger

	// Observers
	listeners []listener
	nextID    int

	// Configuration
	maxUndoEntries  int
	selectionPolicy SelectionPolicy
	readOnly        bool

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries:  DefaultMaxUndoEntries,
		selectionPolicy: SelectionChecked,
		logger:          logging.Null(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.WithComponent("engine")
	e.doc = document.New(e.initContent)
	e.history = history.NewHistory(e.maxUndoEntries)

	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Content returns the full text.
func (e *Engine) Content() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Content()
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Selection()
}

// State returns a snapshot of content and selection.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.State()
}

// Len returns the content length in runes.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Len()
}

// IsReadOnly returns true if the engine rejects edits.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// SelectionPolicy returns the policy applied by NewSetSelectionCommand.
func (e *Engine) SelectionPolicy() SelectionPolicy {
	return e.selectionPolicy
}

// ============================================================================
// Command Construction
// ============================================================================

// NewInsertCommand returns a command that replaces the current selection
// with text. The current state is captured now for undo.
func (e *Engine) NewInsertCommand(text string) *history.InsertCommand {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return history.NewInsertCommand(e.doc, text)
}

// NewDeleteCommand returns a command that deletes the selection or the
// character before the cursor.
func (e *Engine) NewDeleteCommand() *history.DeleteCommand {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return history.NewDeleteCommand(e.doc)
}

// NewSetSelectionCommand returns a command that selects [start, end),
// validated according to the engine's selection policy.
func (e *Engine) NewSetSelectionCommand(start, end int) *history.SetSelectionCommand {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.newSetSelection(start, end)
}

// newSetSelection must be called with e.mu held.
func (e *Engine) newSetSelection(start, end int) *history.SetSelectionCommand {
	if e.selectionPolicy == SelectionUnchecked {
		return history.NewUncheckedSetSelectionCommand(e.doc, start, end)
	}
	return history.NewSetSelectionCommand(e.doc, start, end)
}

// ============================================================================
// Command Execution
// ============================================================================

// Execute runs a command, records it for undo and discards the redo stack.
// A command that fails is not recorded.
func (e *Engine) Execute(cmd Command) error {
	return e.apply(func() Command { return cmd })
}

// apply builds and executes a command under one write lock, so the
// command's undo snapshot matches the state it runs against.
func (e *Engine) apply(build func() Command) error {
	state, err := e.execute(build)
	if err != nil {
		return err
	}
	e.notify(state)
	return nil
}

func (e *Engine) execute(build func() Command) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return State{}, ErrReadOnly
	}
	cmd := build()
	if cmd == nil {
		return State{}, ErrNilCommand
	}

	if err := e.history.Execute(cmd); err != nil {
		e.logger.Warn("execute %q failed: %v", cmd.Description(), err)
		return State{}, err
	}

	state := e.doc.State()
	e.logger.Debug("execute %q -> selection %v, undo=%d", cmd.Description(), state.Selection, e.history.UndoCount())
	return state, nil
}

// Insert replaces the current selection with text.
func (e *Engine) Insert(text string) error {
	return e.apply(func() Command { return history.NewInsertCommand(e.doc, text) })
}

// Delete deletes the selection, or the character before the cursor.
// At offset 0 with nothing selected it changes nothing but is still recorded.
func (e *Engine) Delete() error {
	return e.apply(func() Command { return history.NewDeleteCommand(e.doc) })
}

// SetSelection selects [start, end). Use start == end to move the cursor.
func (e *Engine) SetSelection(start, end int) error {
	return e.apply(func() Command { return e.newSetSelection(start, end) })
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the last command. An open undo group is closed first and
// undone as one unit. With nothing to undo it does nothing and returns nil.
func (e *Engine) Undo() error {
	return e.step(e.history.Undo, history.ErrNothingToUndo, "undo")
}

// Redo replays the last undone command. An open undo group is closed first.
// With nothing to redo it does nothing and returns nil.
func (e *Engine) Redo() error {
	return e.step(e.history.Redo, history.ErrNothingToRedo, "redo")
}

func (e *Engine) step(fn func() error, empty error, name string) error {
	e.mu.Lock()

	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}

	if err := fn(); err != nil {
		e.mu.Unlock()
		if errors.Is(err, empty) {
			e.logger.Debug("%s: %v", name, err)
			return nil
		}
		e.logger.Error("%s failed: %v", name, err)
		return err
	}

	state := e.doc.State()
	e.logger.Debug("%s -> selection %v, undo=%d redo=%d", name, state.Selection, e.history.UndoCount(), e.history.RedoCount())
	e.mu.Unlock()

	e.notify(state)
	return nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (e *Engine) RedoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.RedoCount()
}

// UndoInfo describes the undo stack, oldest first.
func (e *Engine) UndoInfo() []OperationInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.UndoInfo()
}

// RedoInfo describes the redo stack; the last element is redone next.
func (e *Engine) RedoInfo() []OperationInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.RedoInfo()
}

// BeginUndoGroup starts a new undo group.
// All commands until EndUndoGroup will be undone as a single unit.
func (e *Engine) BeginUndoGroup(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.BeginGroup(name)
}

// EndUndoGroup ends the current undo group.
func (e *Engine) EndUndoGroup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.EndGroup()
}

// CancelUndoGroup cancels the current undo group without recording.
// Commands already executed in the group stay applied.
func (e *Engine) CancelUndoGroup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.CancelGroup()
}

// InUndoGroup returns true between BeginUndoGroup and EndUndoGroup.
func (e *Engine) InUndoGroup() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.IsGrouping()
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Clear()
}

// SetMaxUndoEntries changes the history limit. Zero means unlimited.
func (e *Engine) SetMaxUndoEntries(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.SetMaxEntries(max)
}

// ============================================================================
// Observers
// ============================================================================

// OnChange registers fn to be called after every successful Execute, Undo
// or Redo. Callbacks run outside the engine lock and may read the engine.
// The returned function unregisters fn.
func (e *Engine) OnChange(fn ChangeFunc) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify(state State) {
	e.mu.RLock()
	listeners := make([]listener, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, l := range listeners {
		l.fn(state)
	}
}
