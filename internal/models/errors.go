package models

import (
	"fmt"
	"strings"
)

// ValidationError reports the required fields missing from a record.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
