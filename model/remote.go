package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"churn-predictor/features"
)

/*
RemotePipeline calls a pipeline served behind an HTTP scoring endpoint.

One request per call, no retries.
*/
type RemotePipeline struct {
	url    string
	client *http.Client
}

type remoteRequest struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

type remoteResponse struct {
	Predictions []int `json:"predictions"`
}

/*
NewRemotePipeline creates a pipeline client for the given scoring endpoint
*/
func NewRemotePipeline(url string, client *http.Client) *RemotePipeline {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemotePipeline{url: url, client: client}
}

/*
Predict sends the rows to the scoring endpoint and returns its labels
*/
func (p *RemotePipeline) Predict(ctx context.Context, rows []features.FeatureVector) ([]int, error) {
	payload := remoteRequest{Columns: features.Order(), Rows: make([][]float64, len(rows))}
	for i, row := range rows {
		if !row.Matches(payload.Columns) {
			return nil, fmt.Errorf("%w: row %d has columns %v", ErrSchemaMismatch, i, row.Names())
		}
		payload.Rows[i] = row.Values()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("scoring endpoint responded with %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}

	var out remoteResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(out.Predictions) != len(rows) {
		return nil, fmt.Errorf("%w: %d predictions for %d rows", ErrMalformedOutput, len(out.Predictions), len(rows))
	}
	return out.Predictions, nil
}
