package model

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"churn-predictor/config"
	"churn-predictor/features"
)

const sampleArtifact = "../testdata/churn_model.json"

// customer builds a complete vector from the baseline with overrides applied.
func customer(t *testing.T, overrides map[string]features.RawValue) features.FeatureVector {
	t.Helper()
	in := features.Inputs{}
	for _, f := range features.Fields() {
		if f.Kind == features.KindNumber {
			in[f.Name] = features.Number(0)
		} else {
			in[f.Name] = features.Label(f.Choices[0])
		}
	}
	for name, v := range overrides {
		in[name] = v
	}
	vector, err := features.Assemble(in)
	if err != nil {
		t.Fatalf("Failed to assemble vector: %v", err)
	}
	return vector
}

func riskyCustomer(t *testing.T) features.FeatureVector {
	return customer(t, map[string]features.RawValue{
		"SeniorCitizen":                  features.Label("Yes"),
		"tenure":                         features.Number(1),
		"PhoneService":                   features.Label("Yes"),
		"PaperlessBilling":               features.Label("Yes"),
		"MonthlyCharges":                 features.Number(95),
		"TotalCharges":                   features.Number(95),
		"MultipleLines_Yes":              features.Label("Yes"),
		"StreamingTV_Yes":                features.Label("Yes"),
		"StreamingMovies_Yes":            features.Label("Yes"),
		"InternetService_Fiber optic":    features.Label("Yes"),
		"PaymentMethod_Electronic check": features.Label("Yes"),
	})
}

func loyalCustomer(t *testing.T) features.FeatureVector {
	return customer(t, map[string]features.RawValue{
		"gender":                                features.Label("Male"),
		"Partner":                               features.Label("Yes"),
		"Dependents":                            features.Label("Yes"),
		"tenure":                                features.Number(72),
		"PhoneService":                          features.Label("Yes"),
		"Contract":                              features.Label("Two year"),
		"MonthlyCharges":                        features.Number(25),
		"TotalCharges":                          features.Number(1800),
		"PaymentMethod_Credit card (automatic)": features.Label("Yes"),
	})
}

func loadSample(t *testing.T) *LogisticPipeline {
	t.Helper()
	pipeline, err := LoadArtifact(sampleArtifact)
	if err != nil {
		t.Fatalf("Failed to load sample artifact: %v", err)
	}
	return pipeline
}

func readArtifact(t *testing.T) Artifact {
	t.Helper()
	data, err := os.ReadFile(sampleArtifact)
	if err != nil {
		t.Fatalf("Failed to read sample artifact: %v", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatalf("Failed to decode sample artifact: %v", err)
	}
	return a
}

func TestLogisticPipeline(t *testing.T) {
	pipeline := loadSample(t)
	ctx := context.Background()

	rows := []features.FeatureVector{riskyCustomer(t), loyalCustomer(t)}
	labels, err := pipeline.Predict(ctx, rows)
	if err != nil {
		t.Fatalf("Prediction failed: %v", err)
	}
	if len(labels) != 2 || labels[0] != 1 || labels[1] != 0 {
		t.Errorf("Expected [1 0], got %v", labels)
	}

	proba, err := pipeline.PredictProba(ctx, rows)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	if proba[0] < 0.9 || proba[1] > 0.01 {
		t.Errorf("Unexpected probabilities: %v", proba)
	}

	if strings.Join(pipeline.Features(), ",") != strings.Join(features.Order(), ",") {
		t.Error("Pipeline features differ from the encoding order")
	}
}

func TestLogisticPipelineSchemaMismatch(t *testing.T) {
	pipeline := loadSample(t)
	row := riskyCustomer(t)
	row[0], row[1] = row[1], row[0]

	_, err := pipeline.Predict(context.Background(), []features.FeatureVector{row})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch, got %v", err)
	}

	_, err = pipeline.Predict(context.Background(), []features.FeatureVector{row[:10]})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected ErrSchemaMismatch for short row, got %v", err)
	}
}

func TestNewLogisticPipelineValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Artifact)
		target error
	}{
		{"bad format", func(a *Artifact) { a.Format = "pickle" }, ErrUnsupportedFormat},
		{"reordered features", func(a *Artifact) { a.Features[3], a.Features[4] = a.Features[4], a.Features[3] }, ErrSchemaMismatch},
		{"missing feature", func(a *Artifact) { a.Features = a.Features[1:] }, ErrSchemaMismatch},
		{"short weights", func(a *Artifact) { a.Weights = a.Weights[1:] }, nil},
		{"bad threshold", func(a *Artifact) { a.Threshold = 2 }, nil},
	}

	for _, test := range tests {
		a := readArtifact(t)
		test.mutate(&a)
		_, err := NewLogisticPipeline(a)
		if err == nil {
			t.Errorf("%s: expected error", test.name)
			continue
		}
		if test.target != nil && !errors.Is(err, test.target) {
			t.Errorf("%s: expected %v, got %v", test.name, test.target, err)
		}
	}
}

func TestNewLogisticPipelineDefaults(t *testing.T) {
	a := readArtifact(t)
	a.Threshold = 0
	for i := range a.Std {
		a.Std[i] = 0
	}

	pipeline, err := NewLogisticPipeline(a)
	if err != nil {
		t.Fatalf("Failed to build pipeline: %v", err)
	}
	if pipeline.threshold != defaultThreshold {
		t.Errorf("Expected default threshold, got %v", pipeline.threshold)
	}
	for i, s := range pipeline.std {
		if s != 1 {
			t.Errorf("Expected zero std at %d to become 1, got %v", i, s)
		}
	}
}

func TestLoadArtifactErrors(t *testing.T) {
	if _, err := LoadArtifact(filepath.Join(t.TempDir(), "missing.json")); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArtifact(path); err == nil {
		t.Error("Expected decode error for broken artifact")
	}
}

func TestRemotePipeline(t *testing.T) {
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(remoteResponse{Predictions: []int{1}})
	}))
	defer srv.Close()

	pipeline := NewRemotePipeline(srv.URL, srv.Client())
	row := riskyCustomer(t)
	labels, err := pipeline.Predict(context.Background(), []features.FeatureVector{row})
	if err != nil {
		t.Fatalf("Remote prediction failed: %v", err)
	}
	if len(labels) != 1 || labels[0] != 1 {
		t.Errorf("Expected [1], got %v", labels)
	}
	if strings.Join(got.Columns, ",") != strings.Join(features.Order(), ",") {
		t.Errorf("Columns sent out of order: %v", got.Columns)
	}
	if len(got.Rows) != 1 || len(got.Rows[0]) != len(row) {
		t.Errorf("Unexpected rows sent: %v", got.Rows)
	}
}

func TestRemotePipelineFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  error
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model exploded", http.StatusInternalServerError)
		}, nil},
		{"bad body", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "not json")
		}, ErrMalformedOutput},
		{"wrong count", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"predictions":[0,1]}`)
		}, ErrMalformedOutput},
	}

	for _, test := range tests {
		srv := httptest.NewServer(test.handler)
		pipeline := NewRemotePipeline(srv.URL, srv.Client())
		_, err := pipeline.Predict(context.Background(), []features.FeatureVector{loyalCustomer(t)})
		srv.Close()

		if err == nil {
			t.Errorf("%s: expected error", test.name)
			continue
		}
		if test.target != nil && !errors.Is(err, test.target) {
			t.Errorf("%s: expected %v, got %v", test.name, test.target, err)
		}
		if test.name == "server error" && !strings.Contains(err.Error(), "model exploded") {
			t.Errorf("%s: expected body in error, got %v", test.name, err)
		}
	}
}

func TestOpen(t *testing.T) {
	cfg := config.DefaultConfig().Model
	cfg.ArtifactPath = sampleArtifact
	pipeline, err := Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open logistic pipeline: %v", err)
	}
	if _, ok := pipeline.(*LogisticPipeline); !ok {
		t.Errorf("Expected *LogisticPipeline, got %T", pipeline)
	}

	cfg.Pipeline = config.PipelineRemote
	cfg.RemoteURL = "http://localhost:1/predict"
	pipeline, err = Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open remote pipeline: %v", err)
	}
	remote, ok := pipeline.(*RemotePipeline)
	if !ok {
		t.Fatalf("Expected *RemotePipeline, got %T", pipeline)
	}
	if remote.client.Timeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", remote.client.Timeout)
	}

	cfg.Pipeline = config.PipelineKind(7)
	if _, err := Open(cfg); err == nil {
		t.Error("Expected error for unknown pipeline kind")
	}
}

// stubPipeline returns fixed labels or an error.
type stubPipeline struct {
	labels []int
	err    error
	panic  bool
}

func (s stubPipeline) Predict(context.Context, []features.FeatureVector) ([]int, error) {
	if s.panic {
		panic("index out of range")
	}
	return s.labels, s.err
}

func TestInvoker(t *testing.T) {
	vector := loyalCustomer(t)

	tests := []struct {
		name    string
		stub    stubPipeline
		expect  Label
		wantErr string
	}{
		{"churn", stubPipeline{labels: []int{1}}, Churn, ""},
		{"no churn", stubPipeline{labels: []int{0}}, NoChurn, ""},
		{"pipeline error", stubPipeline{err: errors.New("incompatible schema")}, 0, "incompatible schema"},
		{"panic", stubPipeline{panic: true}, 0, "index out of range"},
		{"no labels", stubPipeline{labels: []int{}}, 0, "expected 1 label"},
		{"non-binary", stubPipeline{labels: []int{2}}, 0, "not binary"},
	}

	for _, test := range tests {
		label, err := NewInvoker(test.stub).Predict(context.Background(), vector)
		if test.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", test.name, err)
			}
			if label != test.expect {
				t.Errorf("%s: expected %v, got %v", test.name, test.expect, label)
			}
			continue
		}

		var predErr *PredictionError
		if !errors.As(err, &predErr) {
			t.Errorf("%s: expected PredictionError, got %v", test.name, err)
			continue
		}
		if !strings.Contains(predErr.Error(), test.wantErr) {
			t.Errorf("%s: expected %q in %q", test.name, test.wantErr, predErr.Error())
		}
	}
}

func TestInvokerProbability(t *testing.T) {
	invoker := NewInvoker(loadSample(t))
	p, ok := invoker.Probability(context.Background(), riskyCustomer(t))
	if !ok || p < 0.9 {
		t.Errorf("Expected high churn probability, got %v (ok=%v)", p, ok)
	}

	if _, ok := NewInvoker(stubPipeline{labels: []int{1}}).Probability(context.Background(), riskyCustomer(t)); ok {
		t.Error("Stub pipeline should not report probabilities")
	}
}

func TestLabelString(t *testing.T) {
	if Churn.String() != "churn" || NoChurn.String() != "no_churn" || Label(5).String() != "invalid" {
		t.Error("Unexpected label names")
	}
}
