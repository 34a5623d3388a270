package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/types"
)

// Backend is the extender's scoring dependency. Local mode scores
// in-process; remote mode delegates to a separate inference service.
type Backend interface {
	Score(ctx context.Context, req *types.PredictionRequest) (*types.PredictionResponse, error)
	Healthy(ctx context.Context) bool
}

// LocalBackend scores directly through the in-process engine.
type LocalBackend struct {
	engine *Engine
}

// NewLocalBackend wraps an engine as a backend.
func NewLocalBackend(engine *Engine) *LocalBackend {
	return &LocalBackend{engine: engine}
}

func (b *LocalBackend) Score(ctx context.Context, req *types.PredictionRequest) (*types.PredictionResponse, error) {
	return b.engine.Score(ctx, req)
}

func (b *LocalBackend) Healthy(ctx context.Context) bool {
	return b.engine.Healthy(ctx)
}

// RemoteBackend calls an inference service over HTTP.
type RemoteBackend struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewRemoteBackend builds a client for the inference service at baseURL.
func NewRemoteBackend(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteBackend {
	return &RemoteBackend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("inference-client"),
	}
}

func (b *RemoteBackend) Score(ctx context.Context, req *types.PredictionRequest) (*types.PredictionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling inference service: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("inference service returned %d: %s", httpResp.StatusCode, snippet)
	}

	var resp types.PredictionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding prediction response: %w", err)
	}
	return &resp, nil
}

func (b *RemoteBackend) Healthy(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	httpResp, err := b.client.Do(httpReq)
	if err != nil {
		b.logger.Debug("inference health probe failed", zap.Error(err))
		return false
	}
	defer httpResp.Body.Close()
	io.Copy(io.Discard, httpResp.Body)
	return httpResp.StatusCode == http.StatusOK
}
