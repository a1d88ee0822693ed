package schema

import (
	"fmt"
	"strings"
)

// ValidationError reports every problem found while validating arguments
// against a schema, not just the first.
type ValidationError struct {
	Problems []string
}

// Error returns all problems joined as a single message.
func (e *ValidationError) Error() string {
	return "schema: invalid arguments: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) addf(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}
