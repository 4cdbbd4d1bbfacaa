package serialization

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by backends for unknown identifiers.
	ErrNotFound = errors.New("identifier not found")

	// ErrExists is returned by backends when writing an existing identifier
	// without overwrite.
	ErrExists = errors.New("identifier already exists")
)

// FormatError reports serialization data that does not have the shape a
// factory expects.
type FormatError struct {
	TypeID  string
	Field   string
	Message string
}

func (e *FormatError) Error() string {
	if e.TypeID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s.%s: %s", e.TypeID, e.Field, e.Message)
}
