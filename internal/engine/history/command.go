package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/textcmd/internal/engine/document"
)

// Command represents an edit action that can be executed and undone.
//
// A command is bound to its document at construction time. Execute may be
// called again after Undo (redo) and must produce the same result.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute() error

	// Undo reverses the command and returns an error if it fails.
	Undo() error

	// Description returns a human-readable description of the command.
	Description() string
}

// InsertCommand replaces the current selection with text and leaves a
// collapsed cursor immediately after the inserted text.
type InsertCommand struct {
	Text string

	doc    *document.Document
	before State
}

// NewInsertCommand creates an insert command bound to doc.
// The current content and selection are captured for undo.
func NewInsertCommand(doc *document.Document, text string) *InsertCommand {
	return &InsertCommand{
		Text:   text,
		doc:    doc,
		before: doc.State(),
	}
}

// Execute inserts the text at the current selection.
func (c *InsertCommand) Execute() error {
	sel := c.doc.Selection()
	content := document.Splice(c.doc.Content(), sel.Start, sel.End, c.Text)
	cursor := sel.Start + utf8.RuneCountInString(c.Text)

	c.doc.Update(document.ContentPatch(content).WithSelection(document.Cursor(cursor)))
	return nil
}

// Undo restores the content and selection captured at construction.
func (c *InsertCommand) Undo() error {
	c.doc.Update(document.StatePatch(c.before))
	return nil
}

// Description returns a human-readable description.
func (c *InsertCommand) Description() string {
	n := uniseg.GraphemeClusterCount(c.Text)
	if n == 1 {
		switch c.Text {
		case "\n", "\r\n":
			return "Insert newline"
		case "\t":
			return "Insert tab"
		}
		return fmt.Sprintf("Type '%s'", c.Text)
	}
	if n <= 20 {
		return fmt.Sprintf("Insert \"%s\"", c.Text)
	}
	return fmt.Sprintf("Insert %d characters", n)
}

// DeleteCommand deletes the selected text, or the character before a
// collapsed cursor (Backspace). At offset 0 with nothing selected it does
// nothing.
type DeleteCommand struct {
	doc    *document.Document
	before State
}

// NewDeleteCommand creates a delete command bound to doc.
// The current content and selection are captured for undo.
func NewDeleteCommand(doc *document.Document) *DeleteCommand {
	return &DeleteCommand{
		doc:    doc,
		before: doc.State(),
	}
}

// Execute deletes according to the current selection.
func (c *DeleteCommand) Execute() error {
	sel := c.doc.Selection()
	content := c.doc.Content()

	switch {
	case !sel.IsEmpty():
		content = document.Splice(content, sel.Start, sel.End, "")
		c.doc.Update(document.ContentPatch(content).WithSelection(document.Cursor(sel.Start)))
	case sel.Start > 0:
		content = document.Splice(content, sel.Start-1, sel.Start, "")
		c.doc.Update(document.ContentPatch(content).WithSelection(document.Cursor(sel.Start - 1)))
	}
	return nil
}

// Undo restores the content and selection captured at construction.
func (c *DeleteCommand) Undo() error {
	c.doc.Update(document.StatePatch(c.before))
	return nil
}

// Description returns a human-readable description.
func (c *DeleteCommand) Description() string {
	if !c.before.Selection.IsEmpty() {
		return "Delete selection"
	}
	return "Backspace"
}

// SelectionMode controls whether SetSelectionCommand validates its bounds.
type SelectionMode int

const (
	// Checked rejects bounds outside [0, len(content)] or with end < start.
	Checked SelectionMode = iota
	// Unchecked applies the bounds verbatim. Callers own the invariant.
	Unchecked
)

// String returns the mode name.
func (m SelectionMode) String() string {
	switch m {
	case Checked:
		return "checked"
	case Unchecked:
		return "unchecked"
	default:
		return "unknown"
	}
}

// ParseSelectionMode parses "checked" or "unchecked".
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch s {
	case "checked", "strict", "":
		return Checked, nil
	case "unchecked", "permissive":
		return Unchecked, nil
	default:
		return Checked, fmt.Errorf("unknown selection mode %q", s)
	}
}

// SetSelectionCommand changes the selection without touching content.
type SetSelectionCommand struct {
	Start int
	End   int
	Mode  SelectionMode

	doc    *document.Document
	before Selection
}

// NewSetSelectionCommand creates a checked selection command bound to doc.
func NewSetSelectionCommand(doc *document.Document, start, end int) *SetSelectionCommand {
	return &SetSelectionCommand{
		Start:  start,
		End:    end,
		doc:    doc,
		before: doc.Selection(),
	}
}

// NewUncheckedSetSelectionCommand creates a selection command that applies
// its bounds without validation.
func NewUncheckedSetSelectionCommand(doc *document.Document, start, end int) *SetSelectionCommand {
	c := NewSetSelectionCommand(doc, start, end)
	c.Mode = Unchecked
	return c
}

// Execute sets the selection. In Checked mode invalid bounds return a
// *document.InvalidRangeError and leave the document unchanged.
func (c *SetSelectionCommand) Execute() error {
	sel := Selection{Start: c.Start, End: c.End}
	if c.Mode == Checked {
		if err := document.CheckSelection(sel, c.doc.Len()); err != nil {
			return fmt.Errorf("set selection: %w", err)
		}
	}
	c.doc.Update(document.SelectionPatch(sel))
	return nil
}

// Undo restores the previous selection only.
func (c *SetSelectionCommand) Undo() error {
	c.doc.Update(document.SelectionPatch(c.before))
	return nil
}

// Description returns a human-readable description.
func (c *SetSelectionCommand) Description() string {
	if c.Start == c.End {
		return fmt.Sprintf("Move cursor to %d", c.Start)
	}
	return fmt.Sprintf("Select %d-%d", c.Start, c.End)
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute() error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(); err != nil {
			// On error, try to undo what we've done
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo()
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo() error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}
