package redemption

import (
	"errors"
	"strings"
)

var ErrNotFound = errors.New("redemption not found")

// ValidationError lists every problem found in a redemption. It is an expected
// outcome of bad input, not a system failure.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid redemption: " + strings.Join(e.Problems, "; ")
}
