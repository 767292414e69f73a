// Package engine provides the text editing engine for textcmd.
//
// The engine owns a single document (content plus one selection) and its
// linear undo/redo history. The document is only ever changed by commands:
//
//	e := engine.New(engine.WithContent("abc"))
//
//	e.SetSelection(1, 2) // select "b"
//	e.Insert("X")        // "aXc", cursor at 2
//	e.Delete()           // "ac", cursor at 1
//
//	e.Undo() // "aXc"
//	e.Redo() // "ac"
//
// Commands can also be built and executed explicitly. A command captures
// the state it needs for undo when it is constructed:
//
//	cmd := e.NewInsertCommand("hello")
//	if err := e.Execute(cmd); err != nil {
//	    // ...
//	}
//
// Executing any command discards everything that could have been redone.
//
// # Offsets
//
// Offsets count Unicode code points (runes), not bytes.
//
// # Selection Policy
//
// By default SetSelection rejects bounds outside [0, Len()] or with
// end < start, returning an *InvalidRangeError and leaving the engine
// untouched. WithSelectionPolicy(SelectionUnchecked) applies bounds verbatim;
// the caller is then responsible for the selection invariant.
//
// # Undo Groups
//
//	e.BeginUndoGroup("Replace word")
//	e.Delete()
//	e.Insert("word")
//	e.EndUndoGroup()
//
//	e.Undo() // reverts both
//
// # Observers
//
// OnChange callbacks receive the new State after each successful Execute,
// Undo or Redo, which lets a presentation layer refresh without polling.
package engine
