// Package history provides undo/redo for the editing engine.
//
// Edits are expressed with the Command pattern: each command is bound to a
// document when it is constructed, captures a value snapshot of the state it
// needs to reverse itself, and can be executed and undone repeatedly.
//
// # Commands
//
// Built-in commands:
//   - InsertCommand: replace the selection with text, cursor after it
//   - DeleteCommand: delete the selection or the character before the cursor
//   - SetSelectionCommand: move the cursor or change the selection
//   - CompoundCommand: group several commands as one undo unit
//
// # History Stack
//
// History keeps two stacks, most recent last:
//
//	h := NewHistory(0) // unlimited
//
//	h.Execute(NewInsertCommand(doc, "abc"))
//	h.Undo()
//	h.Redo()
//
// Executing a new command empties the redo stack, so history is strictly
// linear: undone commands that are not redone before the next edit are gone.
//
// # Command Grouping
//
//	h.BeginGroup("Replace word")
//	h.Execute(NewDeleteCommand(doc))
//	h.Execute(NewInsertCommand(doc, "word"))
//	h.EndGroup()
//
// History is not safe for concurrent use.
package history
