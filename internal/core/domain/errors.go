package domain

import (
	"errors"
	"fmt"
)

// PatternError reports an endpoint rule whose path pattern failed to compile.
// It is raised at rule construction, never at match time.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid endpoint pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

func IsPatternError(err error) bool {
	var pe *PatternError
	return errors.As(err, &pe)
}

// DuplicateEntryError reports two rule records colliding on the same
// (dimension, entry) pair during policy assembly.
type DuplicateEntryError struct {
	Dimension Dimension
	Entry     string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate %s rule for entry %q", e.Dimension, e.Entry)
}

func IsDuplicateEntryError(err error) bool {
	var de *DuplicateEntryError
	return errors.As(err, &de)
}
