// Package tui is a minimal terminal front-end for the engine.
//
// Key bindings:
//
//	printable, Enter, Tab   insert
//	Backspace               delete selection or previous character
//	Left, Right             move the cursor, collapsing any selection
//	Shift+Left, Shift+Right extend the selection
//	Home, End               start or end of the current line
//	Ctrl+A                  select all
//	Ctrl+Z, Ctrl+Y          undo, redo
//	Esc, Ctrl+Q             quit
//
// Bracketed paste is recorded as a single undo step.
package tui
