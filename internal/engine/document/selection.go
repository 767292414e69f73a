package document

import "fmt"

// Selection is an ordered range [Start, End) over the content.
// A collapsed selection (Start == End) is a plain cursor.
type Selection struct {
	Start int
	End   int
}

// Cursor returns a collapsed selection at offset.
func Cursor(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// IsEmpty returns true if the selection is collapsed.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Len returns the number of runes covered by the selection.
func (s Selection) Len() int {
	return s.End - s.Start
}

// String returns a human-readable representation.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("(%d)", s.Start)
	}
	return fmt.Sprintf("(%d,%d)", s.Start, s.End)
}

// CheckSelection reports whether sel is a valid, ordered range for content of
// the given rune length.
func CheckSelection(sel Selection, length int) error {
	if sel.Start < 0 || sel.End < sel.Start || sel.End > length {
		return &InvalidRangeError{Start: sel.Start, End: sel.End, Length: length}
	}
	return nil
}
