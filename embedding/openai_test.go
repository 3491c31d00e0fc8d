package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenAIEmbedderEmbed(t *testing.T) {
	assert := assert.New(t)

	var gotPath, gotAuth string
	var gotReq embeddingRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0},
			},
		})
	}))
	defer server.Close()

	embedder := NewOpenAIEmbedder(Config{
		BaseURL:   server.URL,
		Model:     "all-minilm",
		APIKey:    "secret",
		Dimension: 3,
	})

	vec, err := embedder.Embed(context.Background(), "hello world")
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal([]float32{0.1, 0.2, 0.3}, vec)
	assert.Equal("/embeddings", gotPath)
	assert.Equal("Bearer secret", gotAuth)
	assert.Equal([]string{"hello world"}, gotReq.Input)
	assert.Equal("all-minilm", gotReq.Model)
	assert.Equal(3, embedder.Dimension())
}

func TestOpenAIEmbedderDimensionMismatch(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.1, 0.2}, "index": 0},
			},
		})
	}))
	defer server.Close()

	embedder := NewOpenAIEmbedder(Config{
		BaseURL:   server.URL,
		Dimension: 3,
	})

	_, err := embedder.Embed(context.Background(), "hello")
	assert.ErrorIs(err, ErrDimensionMismatch)
}

func TestOpenAIEmbedderUpstreamError(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	embedder := NewOpenAIEmbedder(Config{BaseURL: server.URL})

	_, err := embedder.Embed(context.Background(), "hello")
	assert.ErrorIs(err, ErrRequestFailed)

	var apiErr *APIError
	assert.ErrorAs(err, &apiErr)
	assert.Equal(http.StatusNotFound, apiErr.StatusCode)
}

func TestOpenAIEmbedderEmptyEmbedding(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer server.Close()

	embedder := NewOpenAIEmbedder(Config{BaseURL: server.URL})

	_, err := embedder.Embed(context.Background(), "hello")
	assert.ErrorIs(err, ErrEmptyEmbedding)
}

func TestConfigDefaults(t *testing.T) {
	assert := assert.New(t)

	var cfg Config
	cfg.applyDefaults()

	assert.Equal(DefaultBaseURL, cfg.BaseURL)
	assert.Equal(DefaultModel, cfg.Model)
	assert.Equal(DefaultDimension, cfg.Dimension)
	assert.Equal(DefaultTimeout, cfg.Timeout.Duration())
}
