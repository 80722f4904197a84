package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

/*
Config is the configuration for the application.

Contains the configuration for the server, the prediction pipeline and logging.
*/
type Config struct {
	Server   ServerConfig `json:"server"`
	Model    ModelConfig  `json:"model"`
	LogLevel string       `json:"log_level"`
}

/*
ServerConfig is the configuration for the server.
*/
type ServerConfig struct {
	Host string `json:"host"`
	Port string `json:"port"`
}

/*
PipelineKind is the kind of prediction pipeline to load.
*/
type PipelineKind int

const (
	PipelineLogistic PipelineKind = iota
	PipelineRemote
)

/*
ModelConfig is the configuration for the prediction pipeline.
*/
type ModelConfig struct {
	// which pipeline implementation to use
	Pipeline PipelineKind `json:"pipeline"`
	// path to the logistic pipeline artifact
	ArtifactPath string `json:"artifact_path"`
	// scoring endpoint of a remote pipeline
	RemoteURL string `json:"remote_url"`
	// timeout for a remote prediction [seconds]
	RemoteTimeout int `json:"remote_timeout"`
}

/*
Default config
*/
func DefaultConfig() *Config {
	return &Config{
		// server configuration
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		// pipeline configuration
		Model: ModelConfig{
			Pipeline:      PipelineLogistic,
			ArtifactPath:  "./churn_pipeline.json",
			RemoteTimeout: 10,
		},
		// logging configuration
		LogLevel: "warn",
	}
}

/*
LoadFromFile loads the configuration from a JSON file.
*/
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

/*
LoadFromEnv loads the configuration from the environment variables.
*/
func LoadFromEnv() (*Config, error) {
	config := DefaultConfig()

	// Server config
	if host := os.Getenv("CHURN_HOST"); host != "" {
		config.Server.Host = host
	}

	if portStr := os.Getenv("CHURN_PORT"); portStr != "" {
		config.Server.Port = portStr
	}

	// Pipeline config
	if kind := os.Getenv("CHURN_PIPELINE"); kind != "" {
		k, err := ParsePipelineKind(kind)
		if err != nil {
			return nil, err
		}
		config.Model.Pipeline = k
	}

	if path := os.Getenv("CHURN_ARTIFACT_PATH"); path != "" {
		config.Model.ArtifactPath = path
	}

	if url := os.Getenv("CHURN_REMOTE_URL"); url != "" {
		config.Model.RemoteURL = url
	}

	if timeoutStr := os.Getenv("CHURN_REMOTE_TIMEOUT"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil {
			config.Model.RemoteTimeout = timeout
		}
	}

	// Logging config
	if level := os.Getenv("CHURN_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}

	return config, nil
}

/*
Validate checks if the configuration is valid
*/
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch c.Model.Pipeline {
	case PipelineLogistic:
		if c.Model.ArtifactPath == "" {
			return fmt.Errorf("artifact path is required for the %s pipeline", c.Model.Pipeline)
		}
	case PipelineRemote:
		if c.Model.RemoteURL == "" {
			return fmt.Errorf("remote url is required for the %s pipeline", c.Model.Pipeline)
		}
		if c.Model.RemoteTimeout <= 0 {
			return fmt.Errorf("invalid remote timeout: %d", c.Model.RemoteTimeout)
		}
	default:
		return fmt.Errorf("invalid pipeline kind: %d", c.Model.Pipeline)
	}
	return nil
}

/*
String returns the string representation of the pipeline kind
*/
func (k PipelineKind) String() string {
	switch k {
	case PipelineLogistic:
		return "logistic"
	case PipelineRemote:
		return "remote"
	default:
		return "unknown"
	}
}

/*
ParsePipelineKind converts a string to a PipelineKind
*/
func ParsePipelineKind(s string) (PipelineKind, error) {
	switch s {
	case "logistic":
		return PipelineLogistic, nil
	case "remote":
		return PipelineRemote, nil
	default:
		return PipelineLogistic, fmt.Errorf("unknown pipeline kind %q", s)
	}
}

// MarshalText encodes the pipeline kind by name.
func (k PipelineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText lets config files name the pipeline kind.
func (k *PipelineKind) UnmarshalText(text []byte) error {
	parsed, err := ParsePipelineKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Set implements flag.Value.
func (k *PipelineKind) Set(s string) error {
	return k.UnmarshalText([]byte(s))
}
