package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// OpenAIEmbedder talks to any OpenAI-compatible /embeddings endpoint. The
// default configuration targets a local Ollama instance serving all-minilm.
type OpenAIEmbedder struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

func NewOpenAIEmbedder(cfg Config) *OpenAIEmbedder {
	cfg.applyDefaults()

	return &OpenAIEmbedder{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		client: &http.Client{
			Timeout: cfg.Timeout.Duration(),
		},
	}
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(data),
		}
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(data, &embResp); err != nil {
		return nil, err
	}

	if embResp.Error != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    embResp.Error.Message,
		}
	}

	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	embedding := embResp.Data[0].Embedding
	if len(embedding) != e.dimension {
		return nil, ErrDimensionMismatch
	}

	return embedding, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

var _ Embedder = (*OpenAIEmbedder)(nil)
