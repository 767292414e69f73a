package engine

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/textcmd/internal/engine/document"
	"github.com/dshills/textcmd/internal/engine/history"
	"github.com/dshills/textcmd/internal/logging"
)

func assertEngine(t *testing.T, e *Engine, content string, start, end int) {
	t.Helper()
	if e.Content() != content {
		t.Errorf("content = %q, want %q", e.Content(), content)
	}
	if want := (Selection{Start: start, End: end}); e.Selection() != want {
		t.Errorf("selection = %v, want %v", e.Selection(), want)
	}
}

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	assertEngine(t, e, "", 0, 0)
	if e.Len() != 0 {
		t.Errorf("expected empty engine, got len %d", e.Len())
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("new engine should have empty history")
	}
	if e.SelectionPolicy() != SelectionChecked {
		t.Errorf("default policy = %v, want checked", e.SelectionPolicy())
	}
}

func TestNewWithContent(t *testing.T) {
	e := New(WithContent("Hello, 世界"))
	assertEngine(t, e, "Hello, 世界", 0, 0)
	if e.Len() != 9 {
		t.Errorf("Len() = %d, want 9", e.Len())
	}
}

// ============================================================================
// Scenarios
// ============================================================================

func TestScenarioInsertIntoEmpty(t *testing.T) {
	e := New()
	if err := e.Insert("abc"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	assertEngine(t, e, "abc", 3, 3)
}

func TestScenarioBackspace(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.SetSelection(3, 3)

	if err := e.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	assertEngine(t, e, "ab", 2, 2)
}

func TestScenarioReplaceSelection(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.SetSelection(1, 2)

	_ = e.Insert("X")
	assertEngine(t, e, "aXc", 2, 2)
}

func TestScenarioUndoRedoInsert(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.SetSelection(1, 1)

	_ = e.Insert("Z")
	assertEngine(t, e, "aZbc", 2, 2)

	_ = e.Undo()
	assertEngine(t, e, "abc", 1, 1)

	_ = e.Redo()
	assertEngine(t, e, "aZbc", 2, 2)
}

func TestScenarioDeleteAtStartOfEmpty(t *testing.T) {
	e := New()
	if err := e.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	assertEngine(t, e, "", 0, 0)
}

func TestDeleteAtStartOfNonEmpty(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.Delete()
	assertEngine(t, e, "abc", 0, 0)
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

func TestUndoRedoEmptyAreNoops(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.SetSelection(1, 2)
	_ = e.Undo()
	_ = e.Redo() // back to (1,2), redo stack empty

	before := e.State()
	if err := e.Redo(); err != nil {
		t.Errorf("Redo on empty stack returned %v", err)
	}
	if e.State() != before {
		t.Errorf("state changed: %+v", e.State())
	}

	_ = e.Undo()
	if err := e.Undo(); err != nil {
		t.Errorf("Undo on empty stack returned %v", err)
	}
	assertEngine(t, e, "abc", 0, 0)
}

func TestBranchDiscard(t *testing.T) {
	e := New()
	_ = e.Insert("A")
	_ = e.Insert("B")
	_ = e.Undo()
	_ = e.Undo()
	_ = e.Redo()
	_ = e.Insert("C")

	before := e.State()
	if e.CanRedo() {
		t.Error("redo should be empty after executing C")
	}
	_ = e.Redo()
	if e.State() != before {
		t.Errorf("Redo changed state to %+v", e.State())
	}
	assertEngine(t, e, "AC", 2, 2)
}

func TestExecuteUndoRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine)
		cmd   func(e *Engine) Command
	}{
		{"insert", func(e *Engine) { _ = e.SetSelection(2, 2) }, func(e *Engine) Command { return e.NewInsertCommand("xyz") }},
		{"replace", func(e *Engine) { _ = e.SetSelection(1, 4) }, func(e *Engine) Command { return e.NewInsertCommand("-") }},
		{"backspace", func(e *Engine) { _ = e.SetSelection(5, 5) }, func(e *Engine) Command { return e.NewDeleteCommand() }},
		{"delete selection", func(e *Engine) { _ = e.SetSelection(0, 6) }, func(e *Engine) Command { return e.NewDeleteCommand() }},
		{"select", func(e *Engine) {}, func(e *Engine) Command { return e.NewSetSelectionCommand(2, 4) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithContent("abcdef"))
			tt.setup(e)
			before := e.State()

			if err := e.Execute(tt.cmd(e)); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if err := e.Undo(); err != nil {
				t.Fatalf("Undo failed: %v", err)
			}
			if e.State() != before {
				t.Errorf("state = %+v, want %+v", e.State(), before)
			}
		})
	}
}

func TestUndoCounts(t *testing.T) {
	e := New()
	_ = e.Insert("a")
	_ = e.Insert("b")
	_ = e.Undo()

	if e.UndoCount() != 1 || e.RedoCount() != 1 {
		t.Errorf("counts = %d/%d, want 1/1", e.UndoCount(), e.RedoCount())
	}
	if len(e.UndoInfo()) != 1 || len(e.RedoInfo()) != 1 {
		t.Errorf("info lengths = %d/%d", len(e.UndoInfo()), len(e.RedoInfo()))
	}
	if got := e.RedoInfo()[0].Description; got != "Type 'b'" {
		t.Errorf("redo description = %q", got)
	}

	e.ClearHistory()
	if e.CanUndo() || e.CanRedo() {
		t.Error("ClearHistory left entries")
	}
	assertEngine(t, e, "a", 1, 1)
}

func TestMaxUndoEntries(t *testing.T) {
	e := New(WithMaxUndoEntries(2))
	for _, s := range []string{"a", "b", "c"} {
		_ = e.Insert(s)
	}
	if e.UndoCount() != 2 {
		t.Errorf("UndoCount = %d, want 2", e.UndoCount())
	}

	e.SetMaxUndoEntries(1)
	if e.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", e.UndoCount())
	}
}

func TestUndoGroup(t *testing.T) {
	e := New(WithContent("hello world"))
	_ = e.SetSelection(6, 11)

	e.BeginUndoGroup("Replace word")
	_ = e.Delete()
	_ = e.Insert("there")
	e.EndUndoGroup()
	assertEngine(t, e, "hello there", 11, 11)

	_ = e.Undo()
	assertEngine(t, e, "hello world", 6, 11)

	e.BeginUndoGroup("discarded")
	_ = e.Insert("!")
	e.CancelUndoGroup()
	if e.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", e.UndoCount())
	}
}

func TestUndoInsideOpenGroup(t *testing.T) {
	tests := []struct {
		name    string
		redo    bool
		content string
	}{
		{"undo", false, "a"},
		{"undo then redo", true, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			_ = e.Insert("a")

			e.BeginUndoGroup("g")
			_ = e.Insert("b")
			if err := e.Undo(); err != nil {
				t.Fatalf("Undo failed: %v", err)
			}
			if e.InUndoGroup() {
				t.Error("Undo should close the open group")
			}
			if tt.redo {
				if err := e.Redo(); err != nil {
					t.Fatalf("Redo failed: %v", err)
				}
			}
			e.EndUndoGroup()
			assertEngine(t, e, tt.content, len(tt.content), len(tt.content))

			for e.CanUndo() {
				if err := e.Undo(); err != nil {
					t.Fatalf("Undo failed: %v", err)
				}
			}
			assertEngine(t, e, "", 0, 0)
		})
	}
}

// ============================================================================
// Selection Policy
// ============================================================================

func TestSetSelectionChecked(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.SetSelection(1, 1)

	for _, r := range [][2]int{{-1, 0}, {0, 4}, {2, 1}} {
		err := e.SetSelection(r[0], r[1])
		var rangeErr *InvalidRangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("SetSelection(%d, %d) error = %v, want *InvalidRangeError", r[0], r[1], err)
		}
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("errors.Is(ErrInvalidRange) = false for %v", err)
		}
	}

	assertEngine(t, e, "abc", 1, 1)
	if e.UndoCount() != 1 {
		t.Errorf("failed commands recorded: UndoCount = %d", e.UndoCount())
	}
}

func TestSetSelectionUnchecked(t *testing.T) {
	e := New(WithContent("abc"), WithSelectionPolicy(SelectionUnchecked))

	if err := e.SetSelection(2, 9); err != nil {
		t.Fatalf("SetSelection failed: %v", err)
	}
	assertEngine(t, e, "abc", 2, 9)
	if err := document.CheckSelection(e.Selection(), e.Len()); err == nil {
		t.Error("expected the selection invariant to be violated")
	}

	_ = e.Undo()
	assertEngine(t, e, "abc", 0, 0)

	cmd := e.NewSetSelectionCommand(5, 1)
	if cmd.Mode != SelectionUnchecked {
		t.Errorf("NewSetSelectionCommand mode = %v, want unchecked", cmd.Mode)
	}
}

func TestSelectionInvariantHolds(t *testing.T) {
	e := New(WithContent("hello"))
	check := func() {
		t.Helper()
		if err := document.CheckSelection(e.Selection(), e.Len()); err != nil {
			t.Fatalf("invariant broken: %v", err)
		}
	}

	steps := []func() error{
		func() error { return e.SetSelection(5, 5) },
		func() error { return e.Insert(" world") },
		func() error { return e.SetSelection(0, 5) },
		e.Delete,
		e.Delete,
		func() error { return e.Insert("界") },
		e.Undo,
		e.Undo,
		e.Redo,
		e.Undo,
		e.Undo,
		e.Undo,
		e.Redo,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		check()
	}
}

// ============================================================================
// Read-Only Mode
// ============================================================================

func TestReadOnly(t *testing.T) {
	e := New(WithContent("fixed"), WithReadOnly())
	if !e.IsReadOnly() {
		t.Fatal("expected read-only engine")
	}

	if err := e.Insert("x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert error = %v, want ErrReadOnly", err)
	}
	if err := e.Undo(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Undo error = %v, want ErrReadOnly", err)
	}
	if err := e.Redo(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Redo error = %v, want ErrReadOnly", err)
	}
	assertEngine(t, e, "fixed", 0, 0)
}

func TestExecuteNil(t *testing.T) {
	e := New()
	if err := e.Execute(nil); !errors.Is(err, ErrNilCommand) {
		t.Errorf("error = %v, want ErrNilCommand", err)
	}
}

func TestExecuteCustomCommand(t *testing.T) {
	e := New(WithContent("abc"))
	_ = e.SetSelection(0, 3)

	cmd := history.NewCompoundCommand("Upper",
		e.NewDeleteCommand(),
		e.NewInsertCommand("ABC"),
	)
	if err := e.Execute(cmd); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertEngine(t, e, "ABC", 3, 3)

	_ = e.Undo()
	assertEngine(t, e, "abc", 0, 3)
}

// ============================================================================
// Observers
// ============================================================================

func TestOnChange(t *testing.T) {
	e := New()
	var got []State
	unsubscribe := e.OnChange(func(s State) {
		// Reading the engine from a callback must not deadlock.
		_ = e.Content()
		got = append(got, s)
	})

	_ = e.Insert("ab")
	_ = e.Undo()
	_ = e.Undo() // no-op, no notification
	_ = e.Redo()
	_ = e.SetSelection(5, 5) // fails, no notification

	want := []State{
		{Content: "ab", Selection: document.Cursor(2)},
		{Content: "", Selection: document.Cursor(0)},
		{Content: "ab", Selection: document.Cursor(2)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	unsubscribe()
	_ = e.Insert("c")
	if len(got) != len(want) {
		t.Error("callback invoked after unsubscribe")
	}
}

// ============================================================================
// Logging
// ============================================================================

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	e := New(WithLogger(logger))

	_ = e.Insert("x")
	_ = e.Undo()
	_ = e.Undo()
	_ = e.SetSelection(3, 3)

	out := buf.String()
	for _, want := range []string{
		`execute "Type 'x'"`,
		"undo -> selection (0)",
		"undo: nothing to undo",
		"[WARN]",
		"component=engine",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestConcurrentAccess(t *testing.T) {
	e := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = e.Insert("x")
				_ = e.Content()
				_ = e.Selection()
				_ = e.Undo()
				_ = e.Redo()
			}
		}()
	}
	wg.Wait()

	if err := document.CheckSelection(e.Selection(), e.Len()); err != nil {
		t.Errorf("invariant broken: %v", err)
	}
}

func TestConcurrentEditsEachUndoable(t *testing.T) {
	const writers, edits = 8, 25
	e := New()
	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < edits; j++ {
				_ = e.Insert("x")
				_ = e.SetSelection(e.Len(), e.Len())
			}
		}()
	}
	wg.Wait()

	if e.Len() != writers*edits {
		t.Fatalf("Len = %d, want %d", e.Len(), writers*edits)
	}

	for e.CanUndo() {
		before := e.Len()
		if err := e.Undo(); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
		if d := before - e.Len(); d != 0 && d != 1 {
			t.Fatalf("one undo removed %d runes", d)
		}
	}
	assertEngine(t, e, "", 0, 0)
}
