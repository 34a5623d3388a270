package scoring

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/features"
	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/model"
	"github.com/nfsched/placement-extender/internal/types"
)

// fakeTelemetry answers load lookups from fixed maps, with neutral defaults
// for unknown nodes.
type fakeTelemetry struct {
	cpu map[string]float64
	mem map[string]float64
}

func (f *fakeTelemetry) NodeCPULoad(_ context.Context, node string) float64 {
	return f.cpu[node]
}

func (f *fakeTelemetry) NodeMemoryLoad(_ context.Context, node string) float64 {
	return f.mem[node]
}

func (f *fakeTelemetry) NodeNetworkLatencyMs(_ context.Context, _ string) *float64 {
	return nil
}

func stubEngine(t *testing.T, tel *fakeTelemetry) *Engine {
	t.Helper()
	extractor := features.NewExtractor(tel, inventory.NewMockClient(), zap.NewNop())
	loader := model.NewLoader(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	loader.Load()
	return NewEngine(extractor, loader, zap.NewNop())
}

func candidate(name string, cpuFree, memFree float64) types.NodeCandidate {
	return types.NodeCandidate{
		Name:            name,
		CPUAvailable:    cpuFree,
		MemoryAvailable: memFree * 1024 * 1024 * 1024,
		CPUCapacity:     8,
		MemoryCapacity:  16 * 1024 * 1024 * 1024,
	}
}

func TestScoreEmptyCandidateList(t *testing.T) {
	engine := stubEngine(t, &fakeTelemetry{})

	resp, err := engine.Score(context.Background(), &types.PredictionRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.NodeScores)
	assert.Empty(t, resp.RecommendedNode)
	assert.Equal(t, features.Names(), resp.FeaturesUsed)
}

func TestScorePicksLeastLoadedNode(t *testing.T) {
	tel := &fakeTelemetry{
		cpu: map[string]float64{"node-a": 0.9, "node-b": 0.35},
		mem: map[string]float64{"node-a": 0.9, "node-b": 0.3},
	}
	engine := stubEngine(t, tel)

	req := &types.PredictionRequest{
		Pod: types.PodRequest{Name: "upf-0", CPURequest: 1, MemoryRequest: 1024 * 1024 * 1024},
		CandidateNodes: []types.NodeCandidate{
			candidate("node-a", 1, 2),
			candidate("node-b", 6, 12),
		},
	}

	resp, err := engine.Score(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.NodeScores, 2)
	assert.Equal(t, "node-b", resp.RecommendedNode)
	assert.Greater(t, resp.NodeScores["node-b"], resp.NodeScores["node-a"])
	for _, s := range resp.NodeScores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScoreTieKeepsFirstCandidate(t *testing.T) {
	tel := &fakeTelemetry{
		cpu: map[string]float64{"node-a": 0.4, "node-b": 0.4},
		mem: map[string]float64{"node-a": 0.4, "node-b": 0.4},
	}
	engine := stubEngine(t, tel)

	req := &types.PredictionRequest{
		Pod: types.PodRequest{Name: "smf-0", CPURequest: 0.5, MemoryRequest: 512 * 1024 * 1024},
		CandidateNodes: []types.NodeCandidate{
			candidate("node-a", 4, 8),
			candidate("node-b", 4, 8),
		},
	}

	resp, err := engine.Score(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, resp.NodeScores["node-a"], resp.NodeScores["node-b"], 1e-9)
	assert.Equal(t, "node-a", resp.RecommendedNode)
}

func TestScoreReportsStubVersionWithoutArtifact(t *testing.T) {
	engine := stubEngine(t, &fakeTelemetry{})

	req := &types.PredictionRequest{
		CandidateNodes: []types.NodeCandidate{candidate("node-a", 4, 8)},
	}
	resp, err := engine.Score(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.StubVersion, resp.ModelVersion)
	assert.False(t, engine.ModelFromArtifact())
}

func TestScoreReportsArtifactVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	artifact := `{
		"version": "v2.1",
		"model": {"type": "linear",
			"coefficients": [0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0],
			"intercept": 0.0}
	}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o600))

	extractor := features.NewExtractor(&fakeTelemetry{}, inventory.NewMockClient(), zap.NewNop())
	loader := model.NewLoader(path, zap.NewNop())
	loader.Load()
	engine := NewEngine(extractor, loader, zap.NewNop())

	req := &types.PredictionRequest{
		CandidateNodes: []types.NodeCandidate{candidate("node-a", 4, 8)},
	}
	resp, err := engine.Score(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "v2.1", resp.ModelVersion)
	assert.True(t, engine.ModelFromArtifact())
}

func TestScoreAttributesSubstitutedCallsToStub(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	// Two coefficients can never fit full-width feature rows, so every
	// predict call fails and gets the call-scoped stub substitution.
	artifact := `{"version": "v3", "model": {"type": "linear", "coefficients": [1.0, 1.0], "intercept": 0.0}}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o600))

	extractor := features.NewExtractor(&fakeTelemetry{}, inventory.NewMockClient(), zap.NewNop())
	loader := model.NewLoader(path, zap.NewNop())
	loader.Load()
	engine := NewEngine(extractor, loader, zap.NewNop())

	req := &types.PredictionRequest{
		CandidateNodes: []types.NodeCandidate{candidate("node-a", 4, 8)},
	}
	resp, err := engine.Score(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.StubVersion, resp.ModelVersion)
	assert.True(t, engine.ModelFromArtifact(), "the artifact stays installed across substituted calls")
}

func TestScoreHeuristicPathWithoutLoader(t *testing.T) {
	extractor := features.NewExtractor(&fakeTelemetry{}, inventory.NewMockClient(), zap.NewNop())
	engine := NewEngine(extractor, nil, zap.NewNop())

	req := &types.PredictionRequest{
		CandidateNodes: []types.NodeCandidate{candidate("node-a", 4, 8)},
	}
	resp, err := engine.Score(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, resp.ModelVersion, "heuristic-")
	s, ok := resp.NodeScores["node-a"]
	require.True(t, ok)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 1.0)
}
