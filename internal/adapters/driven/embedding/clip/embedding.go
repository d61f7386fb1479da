// Package clip provides a cross-modal embedding service adapter backed
// by an OpenAI-compatible multimodal embedding server (for example a
// local nomic-embed-vision deployment). Text queries and image files
// are embedded into the same vector space.
package clip

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.ImageEmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8000/v1"
	DefaultModel      = "nomic-embed-vision-v1.5"
	DefaultTimeout    = 120 * time.Second
	DefaultDimensions = 768
	DefaultRPS        = 5
)

// Config holds configuration for the cross-modal embedding service.
type Config struct {
	// BaseURL is the API base URL (default: http://localhost:8000/v1).
	BaseURL string

	// Model is the embedding model to use.
	Model string

	// Timeout is the request timeout (default: 120s, image encoding is
	// slow on CPU).
	Timeout time.Duration

	// Dimensions is the embedding vector size (default: 768).
	Dimensions int

	// RPS throttles requests to the server (default: 5/s).
	RPS int
}

// EmbeddingService generates cross-modal embeddings over HTTP.
//
// The first call triggers a connectivity check. A failed check is
// sticky: every later call returns domain.ErrModelUnavailable without
// touching the network again.
type EmbeddingService struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	model      string
	dimensions int

	initOnce sync.Once
	initErr  error
}

// embeddingRequest is the OpenAI-compatible request format. Image
// inputs are sent as base64 data URIs.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the OpenAI-compatible response format.
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates a new cross-modal embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.RPS == 0 {
		cfg.RPS = DefaultRPS
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// ensureReady runs the connectivity check once and caches the outcome.
func (s *EmbeddingService) ensureReady(ctx context.Context) error {
	s.initOnce.Do(func() {
		if err := s.Ping(ctx); err != nil {
			s.initErr = fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
		}
	})
	return s.initErr
}

// EmbedImages generates one embedding per image file. The files are
// read and sent as base64 data URIs. A missing file fails the call with
// domain.ErrFileNotFound before anything is sent.
func (s *EmbeddingService) EmbedImages(ctx context.Context, paths []string) ([][]float32, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	inputs := make([]string, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("image %s: %w", path, domain.ErrFileNotFound)
			}
			return nil, fmt.Errorf("reading image %s: %w", path, err)
		}
		inputs[i] = "data:image/*;base64," + base64.StdEncoding.EncodeToString(data)
	}

	return s.embedBatch(ctx, inputs)
}

// EmbedQuery embeds a text query into the image vector space.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	embeddings, err := s.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// embedBatch issues one embedding request for all inputs.
func (s *EmbeddingService) embedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	jsonBody, err := json.Marshal(embeddingRequest{
		Model: s.model,
		Input: inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/embeddings",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding server error (status %d): %s", resp.StatusCode, string(body))
	}

	var embedResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if embedResp.Error != nil {
		return nil, fmt.Errorf("embedding server error: %s", embedResp.Error.Message)
	}
	if len(embedResp.Data) != len(inputs) {
		return nil, fmt.Errorf("got %d embeddings for %d inputs", len(embedResp.Data), len(inputs))
	}

	// The API may return out of order; respect the index field.
	embeddings := make([][]float32, len(inputs))
	for _, item := range embedResp.Data {
		if item.Index < 0 || item.Index >= len(inputs) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		embeddings[item.Index] = vec
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by listing models.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("clip: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("clip: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("clip: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
