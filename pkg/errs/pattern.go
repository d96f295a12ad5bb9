package errs

import (
	"errors"
	"fmt"
)

var ErrInvalidPattern = errors.New("invalid exclude pattern")

// InvalidPatternError reports an exclude entry that does not compile as a
// regular expression. It keeps the offending source text and the compiler's
// own failure so callers can show both.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func NewInvalidPattern(pattern string, err error) *InvalidPatternError {
	return &InvalidPatternError{Pattern: pattern, Err: err}
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%s '%s': %v", ErrInvalidPattern.Error(), e.Pattern, e.Err)
}

func (e *InvalidPatternError) Is(target error) bool { return target == ErrInvalidPattern }

func (e *InvalidPatternError) Unwrap() error { return e.Err }
