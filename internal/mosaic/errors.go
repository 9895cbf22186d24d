package mosaic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage is returned when the source (or the scaled canvas) has no pixels.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidBlockSize is returned for block sizes <= 0.
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrInvalidQuality is returned for unknown quality preset names.
	ErrInvalidQuality = errors.New("invalid quality preset")

	// ErrWorkerFailure matches every *SectionError.
	ErrWorkerFailure = errors.New("section worker failed")
)

// SectionError reports a failure inside one section's computation.
type SectionError struct {
	Index  int // Section index in render order
	YStart int // First canvas row of the section (inclusive)
	YEnd   int // Last canvas row of the section (exclusive)
	Err    error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %d (rows %d-%d) failed: %v", e.Index, e.YStart, e.YEnd, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SectionError) Unwrap() error {
	return e.Err
}

// Is reports ErrWorkerFailure as a match so callers can test the error kind
// without a type assertion.
func (e *SectionError) Is(target error) bool {
	return target == ErrWorkerFailure
}
