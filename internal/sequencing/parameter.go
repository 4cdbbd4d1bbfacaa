package sequencing

import "strconv"

// Parameter is a named runtime value resolved at sequencing time.
type Parameter interface {
	// Value returns the current value.
	Value() (float64, error)

	// RequiresStop reports whether the value is not yet available and
	// sequencing must pause until it is.
	RequiresStop() bool
}

// Parameters maps parameter names to values.
type Parameters map[string]Parameter

// Lookup returns the named parameter. A nil entry counts as not provided.
func (p Parameters) Lookup(name string) (Parameter, error) {
	param, ok := p[name]
	if !ok || param == nil {
		return nil, &ParameterNotProvidedError{Name: name}
	}
	return param, nil
}

// Resolve returns the value of the named parameter.
func (p Parameters) Resolve(name string) (float64, error) {
	param, err := p.Lookup(name)
	if err != nil {
		return 0, err
	}
	return param.Value()
}

// ConstantParameter is a Parameter with a fixed value.
type ConstantParameter float64

// Value returns the constant.
func (c ConstantParameter) Value() (float64, error) {
	return float64(c), nil
}

// RequiresStop always returns false.
func (ConstantParameter) RequiresStop() bool {
	return false
}

func (c ConstantParameter) String() string {
	return strconv.FormatFloat(float64(c), 'g', -1, 64)
}
