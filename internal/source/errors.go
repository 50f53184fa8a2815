package source

import "fmt"

// RangeError reports a byte position that cannot be resolved against the
// indexed source: an offset past the end of the text, or a span whose
// start exceeds its end. Both are caller bugs, never produced by clamped
// rendering.
type RangeError struct {
	Offset   uint32 // offending offset (span start for inverted spans)
	End      uint32 // span end, set only when Inverted
	Limit    uint32 // length of the indexed source, when known
	Inverted bool
}

func (e *RangeError) Error() string {
	if e.Inverted {
		return fmt.Sprintf("span start %d exceeds end %d", e.Offset, e.End)
	}
	return fmt.Sprintf("offset %d out of range (source length %d)", e.Offset, e.Limit)
}
