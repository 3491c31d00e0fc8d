package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyEmbedding    = errors.New("empty embedding returned")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrRequestFailed     = errors.New("embedding request failed")
)

// Embedder maps a text to a fixed-length vector. Implementations must be
// deterministic for a fixed model version and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

const (
	DefaultBaseURL   = "http://localhost:11434/v1"
	DefaultModel     = "all-minilm"
	DefaultDimension = 384
	DefaultTimeout   = 30 * time.Second
)

type Config struct {
	BaseURL   string   `yaml:"base_url"`
	Model     string   `yaml:"model"`
	APIKey    string   `yaml:"api_key"`
	Dimension int      `yaml:"dimension"`
	Timeout   Duration `yaml:"timeout"`
}

func (cfg *Config) applyDefaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}

	if cfg.Timeout.Duration() <= 0 {
		cfg.Timeout = Duration(DefaultTimeout)
	}
}

type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	str := d.Duration().String()
	return json.Marshal(str)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() ([]byte, error) {
	str := d.Duration().String()
	return yaml.Marshal(str)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

// APIError carries the upstream status for failed embedding calls.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("embedding API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrRequestFailed
}
