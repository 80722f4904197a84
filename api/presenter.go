package api

import (
	"errors"
	"net/http"

	"churn-predictor/features"
	"churn-predictor/model"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

const (
	churnMessage   = "The customer is likely to CHURN."
	noChurnMessage = "The customer is NOT likely to churn."
)

/*
Result is what the user sees after a submission
*/
type Result struct {
	Prediction  *int     `json:"prediction,omitempty"`
	Churn       bool     `json:"churn"`
	Probability *float64 `json:"probability,omitempty"`
	Level       string   `json:"level"`
	Message     string   `json:"message"`
	Error       string   `json:"error,omitempty"`
}

/*
Present turns a prediction outcome into a user visible result.

err takes precedence over label. It never panics.
*/
func Present(label model.Label, err error) Result {
	if err != nil {
		return presentError(err)
	}

	prediction := int(label)
	if label == model.Churn {
		return Result{Prediction: &prediction, Churn: true, Level: LevelError, Message: churnMessage}
	}
	return Result{Prediction: &prediction, Level: LevelSuccess, Message: noChurnMessage}
}

func presentError(err error) Result {
	var predErr *model.PredictionError
	switch {
	case errors.As(err, &predErr):
		cause := "unknown error"
		if predErr.Cause != nil {
			cause = predErr.Cause.Error()
		}
		return Result{Level: LevelError, Message: "Prediction failed: " + cause, Error: cause}
	case features.IsInputError(err):
		return Result{Level: LevelError, Message: "Invalid input: " + err.Error(), Error: err.Error()}
	default:
		return Result{Level: LevelError, Message: "Prediction failed: " + err.Error(), Error: err.Error()}
	}
}

// statusFor maps a prediction outcome to the HTTP status of the JSON API.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case features.IsInputError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// errorKind names the error class for metrics.
func errorKind(err error) string {
	var (
		invalid    *features.InvalidLabelError
		missing    *features.MissingFieldError
		validation *features.ValidationError
		predErr    *model.PredictionError
	)
	switch {
	case errors.As(err, &invalid):
		return "invalid_label"
	case errors.As(err, &missing):
		return "missing_field"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &predErr):
		return "prediction"
	default:
		return "unknown"
	}
}
