package archr

import "fmt"

// Range is a half-open byte interval [Start, End) over an entry's
// decompressed content.
//
// A Range may extend past the entry's actual content; the excess is truncated
// rather than treated as an error because decompressed-length metadata in
// real-world archives is not always trustworthy.
type Range struct {
	Start, End int64
}

// NewRange returns a Range after validating 0 <= start <= end.
func NewRange(start, end int64) (*Range, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}

	return &Range{Start: start, End: end}, nil
}

// Len returns the number of bytes the range spans.
func (r *Range) Len() int64 {
	return r.End - r.Start
}

func (r *Range) validate() error {
	if r.Start < 0 || r.End < r.Start {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, r.Start, r.End)
	}

	return nil
}
