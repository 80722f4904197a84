package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigValidation(t *testing.T) {
	// Test valid config
	validConfig := DefaultConfig()
	if err := validConfig.Validate(); err != nil {
		t.Errorf("Valid config should not return error: %v", err)
	}

	// Test missing port
	noPortConfig := DefaultConfig()
	noPortConfig.Server.Port = ""
	if err := noPortConfig.Validate(); err == nil {
		t.Error("Config without port should return error")
	}

	// Test missing artifact
	noArtifactConfig := DefaultConfig()
	noArtifactConfig.Model.ArtifactPath = ""
	if err := noArtifactConfig.Validate(); err == nil {
		t.Error("Logistic config without artifact path should return error")
	}

	// Test remote without url
	remoteConfig := DefaultConfig()
	remoteConfig.Model.Pipeline = PipelineRemote
	if err := remoteConfig.Validate(); err == nil {
		t.Error("Remote config without url should return error")
	}

	remoteConfig.Model.RemoteURL = "http://localhost:9000/predict"
	if err := remoteConfig.Validate(); err != nil {
		t.Errorf("Valid remote config should not return error: %v", err)
	}

	remoteConfig.Model.RemoteTimeout = 0
	if err := remoteConfig.Validate(); err == nil {
		t.Error("Remote config with zero timeout should return error")
	}

	// Test unknown pipeline kind
	unknownConfig := DefaultConfig()
	unknownConfig.Model.Pipeline = PipelineKind(42)
	if err := unknownConfig.Validate(); err == nil {
		t.Error("Config with unknown pipeline should return error")
	}
}

func TestPipelineKindString(t *testing.T) {
	tests := []struct {
		kind   PipelineKind
		expect string
	}{
		{PipelineLogistic, "logistic"},
		{PipelineRemote, "remote"},
		{PipelineKind(999), "unknown"},
	}

	for _, test := range tests {
		if got := test.kind.String(); got != test.expect {
			t.Errorf("Expected %s for %d, got %s", test.expect, int(test.kind), got)
		}
	}
}

func TestParsePipelineKind(t *testing.T) {
	tests := []struct {
		input   string
		expect  PipelineKind
		wantErr bool
	}{
		{"logistic", PipelineLogistic, false},
		{"remote", PipelineRemote, false},
		{"pickle", PipelineLogistic, true},
	}

	for _, test := range tests {
		got, err := ParsePipelineKind(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("Unexpected error state for %s: %v", test.input, err)
		}
		if got != test.expect {
			t.Errorf("Expected %v for %s, got %v", test.expect, test.input, got)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"server": {"port": "9090"},
		"model": {"pipeline": "remote", "remote_url": "http://scorer/predict"},
		"log_level": "debug"
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.Host != "localhost" {
		t.Errorf("Unexpected server config: %+v", cfg.Server)
	}
	if cfg.Model.Pipeline != PipelineRemote || cfg.Model.RemoteURL != "http://scorer/predict" {
		t.Errorf("Unexpected model config: %+v", cfg.Model)
	}
	if cfg.Model.RemoteTimeout != 10 {
		t.Errorf("Expected default timeout to survive, got %d", cfg.Model.RemoteTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %s", cfg.LogLevel)
	}

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Loading a missing file should return error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHURN_PORT", "7070")
	t.Setenv("CHURN_PIPELINE", "remote")
	t.Setenv("CHURN_REMOTE_URL", "http://scorer/predict")
	t.Setenv("CHURN_REMOTE_TIMEOUT", "3")
	t.Setenv("CHURN_LOG_LEVEL", "info")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load config from env: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Model.Pipeline != PipelineRemote || cfg.Model.RemoteTimeout != 3 {
		t.Errorf("Unexpected model config: %+v", cfg.Model)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected info log level, got %s", cfg.LogLevel)
	}

	t.Setenv("CHURN_PIPELINE", "pickle")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Unknown pipeline kind in env should return error")
	}
}
