package document

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is matched by every *InvalidRangeError via errors.Is.
var ErrInvalidRange = errors.New("invalid range")

// InvalidRangeError reports selection bounds outside [0, Length] or with
// End < Start.
type InvalidRangeError struct {
	Start  int
	End    int
	Length int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%d,%d) for content of length %d", e.Start, e.End, e.Length)
}

// Is makes errors.Is(err, ErrInvalidRange) succeed.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
