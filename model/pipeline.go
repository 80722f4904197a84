package model

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"churn-predictor/config"
	"churn-predictor/features"
)

/*
Pipeline is the external prediction boundary: feature preprocessing plus a
trained classifier, exposing only predict.
*/
type Pipeline interface {
	// Predict returns one label (0 or 1) per row.
	Predict(ctx context.Context, rows []features.FeatureVector) ([]int, error)
}

/*
ProbabilityPipeline is implemented by pipelines that can also report p(churn).
*/
type ProbabilityPipeline interface {
	Pipeline
	PredictProba(ctx context.Context, rows []features.FeatureVector) ([]float64, error)
}

/*
Open loads the pipeline selected by the configuration.

It is called once at process start; the returned pipeline is read-only.
*/
func Open(cfg config.ModelConfig) (Pipeline, error) {
	switch cfg.Pipeline {
	case config.PipelineLogistic:
		return LoadArtifact(cfg.ArtifactPath)
	case config.PipelineRemote:
		client := &http.Client{Timeout: time.Duration(cfg.RemoteTimeout) * time.Second}
		return NewRemotePipeline(cfg.RemoteURL, client), nil
	default:
		return nil, fmt.Errorf("unsupported pipeline kind %s", cfg.Pipeline)
	}
}
