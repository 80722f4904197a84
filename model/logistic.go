package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"churn-predictor/features"
)

// ArtifactFormat identifies the artifact layout read by LoadArtifact.
const ArtifactFormat = "churn-logistic/v1"

const defaultThreshold = 0.5

/*
Artifact is the serialized form of a trained logistic pipeline: a standard
scaler followed by a binary logistic regression.
*/
type Artifact struct {
	Format    string    `json:"format"`
	Features  []string  `json:"features"`
	Mean      []float64 `json:"mean"`
	Std       []float64 `json:"std"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
}

/*
LogisticPipeline scores rows with a standardize-then-sigmoid model.

It is immutable once loaded and safe for concurrent use.
*/
type LogisticPipeline struct {
	features  []string
	mean      []float64
	std       []float64
	weights   []float64
	bias      float64
	threshold float64
}

/*
LoadArtifact loads a logistic pipeline artifact from disk
*/
func LoadArtifact(path string) (*LogisticPipeline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var artifact Artifact
	if err := json.NewDecoder(file).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}

	return NewLogisticPipeline(artifact)
}

/*
NewLogisticPipeline validates an artifact and builds a pipeline from it.

The artifact's feature list must equal features.Order() exactly.
*/
func NewLogisticPipeline(a Artifact) (*LogisticPipeline, error) {
	if a.Format != ArtifactFormat {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, a.Format)
	}

	order := features.Order()
	if len(a.Features) != len(order) {
		return nil, fmt.Errorf("%w: artifact has %d features, expected %d", ErrSchemaMismatch, len(a.Features), len(order))
	}
	for i, name := range order {
		if a.Features[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q", ErrSchemaMismatch, i, a.Features[i], name)
		}
	}

	n := len(a.Features)
	if len(a.Mean) != n || len(a.Std) != n || len(a.Weights) != n {
		return nil, fmt.Errorf("artifact parameter lengths do not match %d features", n)
	}

	std := make([]float64, n)
	for i, s := range a.Std {
		// constant columns scale to zero
		if s == 0 {
			s = 1
		}
		std[i] = s
	}

	threshold := a.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("invalid threshold: %v", threshold)
	}

	return &LogisticPipeline{
		features:  append([]string(nil), a.Features...),
		mean:      append([]float64(nil), a.Mean...),
		std:       std,
		weights:   append([]float64(nil), a.Weights...),
		bias:      a.Bias,
		threshold: threshold,
	}, nil
}

/*
Features returns the column order the pipeline was trained on
*/
func (p *LogisticPipeline) Features() []string {
	return append([]string(nil), p.features...)
}

/*
PredictProba returns p(churn) for each row
*/
func (p *LogisticPipeline) PredictProba(ctx context.Context, rows []features.FeatureVector) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !row.Matches(p.features) {
			return nil, fmt.Errorf("%w: row %d has columns %v", ErrSchemaMismatch, i, row.Names())
		}

		sum := p.bias
		for j, f := range row {
			sum += p.weights[j] * (f.Value - p.mean[j]) / p.std[j]
		}
		out[i] = sigmoid(sum)
	}
	return out, nil
}

/*
Predict returns the class label for each row, 1 when p(churn) reaches the threshold
*/
func (p *LogisticPipeline) Predict(ctx context.Context, rows []features.FeatureVector) ([]int, error) {
	proba, err := p.PredictProba(ctx, rows)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, v := range proba {
		if v >= p.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }
