package document

import "unicode/utf8"

// State is the full editing state. It is a value: copying it yields an
// independent snapshot.
type State struct {
	Content   string
	Selection Selection
}

// Len returns the rune length of the content.
func (s State) Len() int {
	return utf8.RuneCountInString(s.Content)
}

// Patch is a partial update for a Document. Nil fields are left untouched.
type Patch struct {
	Content        *string
	SelectionStart *int
	SelectionEnd   *int
}

// ContentPatch returns a patch that replaces only the content.
func ContentPatch(content string) Patch {
	return Patch{Content: &content}
}

// SelectionPatch returns a patch that replaces only the selection.
func SelectionPatch(sel Selection) Patch {
	start, end := sel.Start, sel.End
	return Patch{SelectionStart: &start, SelectionEnd: &end}
}

// StatePatch returns a patch that replaces every field.
func StatePatch(s State) Patch {
	return ContentPatch(s.Content).WithSelection(s.Selection)
}

// WithSelection returns a copy of p that also sets both selection bounds.
func (p Patch) WithSelection(sel Selection) Patch {
	start, end := sel.Start, sel.End
	p.SelectionStart = &start
	p.SelectionEnd = &end
	return p
}

// Document is the single source of truth for content and selection.
// It is not safe for concurrent use; the engine serializes access.
type Document struct {
	state State
}

// New creates a document with the given content and a cursor at 0.
func New(initial string) *Document {
	return &Document{state: State{Content: initial}}
}

// Content returns the current text.
func (d *Document) Content() string {
	return d.state.Content
}

// Selection returns the current selection.
func (d *Document) Selection() Selection {
	return d.state.Selection
}

// State returns a snapshot of the current state.
func (d *Document) State() State {
	return d.state
}

// Len returns the rune length of the content.
func (d *Document) Len() int {
	return d.state.Len()
}

// Update merges p into the current state.
func (d *Document) Update(p Patch) {
	if p.Content != nil {
		d.state.Content = *p.Content
	}
	if p.SelectionStart != nil {
		d.state.Selection.Start = *p.SelectionStart
	}
	if p.SelectionEnd != nil {
		d.state.Selection.End = *p.SelectionEnd
	}
}
