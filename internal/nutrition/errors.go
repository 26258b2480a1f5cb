package nutrition

import (
	"errors"
	"fmt"
)

var ErrUnknownActivityLevel = errors.New("unknown activity level")

// MissingInputError is returned when a profile field needed for a calculation is absent
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
