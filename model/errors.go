package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when an artifact was written in a format this build cannot read
	ErrUnsupportedFormat = errors.New("unsupported artifact format")

	// ErrSchemaMismatch is returned when a row's columns differ from the ones the pipeline was trained on
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrMalformedOutput is returned when the pipeline answers with something other than one binary label per row
	ErrMalformedOutput = errors.New("malformed pipeline output")
)

/*
PredictionError is returned when the external pipeline call fails or
answers with something unusable. It carries the underlying cause.
*/
type PredictionError struct {
	Cause error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Cause)
}

func (e *PredictionError) Unwrap() error {
	return e.Cause
}
