package features

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a field has no encoding table
	ErrUnknownField = errors.New("unknown field")

	// ErrNotANumber is returned when a numeric field cannot be parsed
	ErrNotANumber = errors.New("not a number")
)

/*
InvalidLabelError is returned when a categorical choice is not recognized
for its field.
*/
type InvalidLabelError struct {
	Field string
	Label string
	Err   error
}

func (e *InvalidLabelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %q: invalid label %q", e.Field, e.Label)
}

func (e *InvalidLabelError) Unwrap() error {
	return e.Err
}

/*
MissingFieldError is returned when a required column is absent from the
raw inputs.
*/
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

/*
ValidationError is returned when a numeric field falls outside its
inclusive bounds or is not a usable number.
*/
type ValidationError struct {
	Field  string
	Value  float64
	Min    float64
	Max    float64
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q: value %g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by bad user input rather
// than by the prediction boundary.
func IsInputError(err error) bool {
	var invalid *InvalidLabelError
	var missing *MissingFieldError
	var validation *ValidationError
	return errors.As(err, &invalid) || errors.As(err, &missing) || errors.As(err, &validation)
}
