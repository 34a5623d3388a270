package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/types"
)

func TestRemoteBackendScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		var req types.PredictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.CandidateNodes, 1)

		resp := types.PredictionResponse{
			NodeScores:      map[string]float64{"node-a": 0.8},
			RecommendedNode: "node-a",
			ModelVersion:    "v9",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	backend := NewRemoteBackend(srv.URL, time.Second, zap.NewNop())
	resp, err := backend.Score(context.Background(), &types.PredictionRequest{
		CandidateNodes: []types.NodeCandidate{{Name: "node-a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "node-a", resp.RecommendedNode)
	assert.Equal(t, 0.8, resp.NodeScores["node-a"])
	assert.Equal(t, "v9", resp.ModelVersion)
}

func TestRemoteBackendNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	backend := NewRemoteBackend(srv.URL, time.Second, zap.NewNop())
	_, err := backend.Score(context.Background(), &types.PredictionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRemoteBackendUnreachable(t *testing.T) {
	backend := NewRemoteBackend("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())

	_, err := backend.Score(context.Background(), &types.PredictionRequest{})
	assert.Error(t, err)
	assert.False(t, backend.Healthy(context.Background()))
}

func TestRemoteBackendHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	backend := NewRemoteBackend(srv.URL, time.Second, zap.NewNop())
	assert.True(t, backend.Healthy(context.Background()))
}

func TestLocalBackendDelegates(t *testing.T) {
	engine := stubEngine(t, &fakeTelemetry{})
	backend := NewLocalBackend(engine)

	resp, err := backend.Score(context.Background(), &types.PredictionRequest{
		CandidateNodes: []types.NodeCandidate{candidate("node-a", 4, 8)},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.NodeScores, "node-a")
	assert.True(t, backend.Healthy(context.Background()))
}
