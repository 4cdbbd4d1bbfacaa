package sequencing

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks operations that are deliberately unsupported.
var ErrNotImplemented = errors.New("not implemented")

// ConditionMissingError reports a condition name that was referred to but
// not provided by the ConditionResolver.
type ConditionMissingError struct {
	Name string
}

func (e *ConditionMissingError) Error() string {
	return fmt.Sprintf("condition <%s> was referred to but not provided in the conditions mapping", e.Name)
}

// IsConditionMissing returns true if err is or wraps a ConditionMissingError.
func IsConditionMissing(err error) bool {
	var ce *ConditionMissingError
	return errors.As(err, &ce)
}

// ParameterNotProvidedError reports a parameter name that was referenced but
// missing from the supplied Parameters.
type ParameterNotProvidedError struct {
	Name string
}

func (e *ParameterNotProvidedError) Error() string {
	return fmt.Sprintf("parameter <%s> was referred to but not provided", e.Name)
}
