package model

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"churn-predictor/features"
)

/*
Label is the binary outcome of a churn prediction
*/
type Label int

const (
	NoChurn Label = 0
	Churn   Label = 1
)

func (l Label) String() string {
	switch l {
	case NoChurn:
		return "no_churn"
	case Churn:
		return "churn"
	default:
		return "invalid"
	}
}

/*
Invoker calls the pipeline with one feature vector and interprets the result.

The pipeline is injected once and only read afterwards.
*/
type Invoker struct {
	pipeline Pipeline
}

/*
NewInvoker creates an invoker around a loaded pipeline
*/
func NewInvoker(pipeline Pipeline) *Invoker {
	return &Invoker{pipeline: pipeline}
}

/*
Predict runs a single best-effort prediction.

Any failure, including a panic inside the pipeline, comes back as a
*PredictionError.
*/
func (i *Invoker) Predict(ctx context.Context, vector features.FeatureVector) (label Label, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Pipeline panicked")
			err = &PredictionError{Cause: fmt.Errorf("pipeline panic: %v", r)}
		}
	}()

	labels, err := i.pipeline.Predict(ctx, []features.FeatureVector{vector})
	if err != nil {
		return 0, &PredictionError{Cause: err}
	}
	if len(labels) != 1 {
		return 0, &PredictionError{Cause: fmt.Errorf("%w: expected 1 label, got %d", ErrMalformedOutput, len(labels))}
	}

	switch Label(labels[0]) {
	case NoChurn, Churn:
		return Label(labels[0]), nil
	default:
		return 0, &PredictionError{Cause: fmt.Errorf("%w: label %d is not binary", ErrMalformedOutput, labels[0])}
	}
}

/*
Probability returns p(churn) when the pipeline can report it.

ok is false when the pipeline does not expose probabilities or fails to
produce one.
*/
func (i *Invoker) Probability(ctx context.Context, vector features.FeatureVector) (p float64, ok bool) {
	pp, supported := i.pipeline.(ProbabilityPipeline)
	if !supported {
		return 0, false
	}

	defer func() {
		if r := recover(); r != nil {
			p, ok = 0, false
		}
	}()

	proba, err := pp.PredictProba(ctx, []features.FeatureVector{vector})
	if err != nil || len(proba) != 1 {
		return 0, false
	}
	return proba[0], true
}
