// Package scoring turns a prediction request into per-node scores. The
// engine prefers the loaded model and falls back to the pure heuristic on
// any model-path failure, so a request always gets scored.
package scoring

import (
	"context"

	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/features"
	"github.com/nfsched/placement-extender/internal/heuristic"
	"github.com/nfsched/placement-extender/internal/model"
	"github.com/nfsched/placement-extender/internal/types"
)

// Engine scores candidate nodes for one pod using extracted features.
type Engine struct {
	extractor *features.Extractor
	loader    *model.Loader
	profile   heuristic.WeightProfile
	logger    *zap.Logger
}

// NewEngine builds a scoring engine over the given extractor and model
// loader.
func NewEngine(extractor *features.Extractor, loader *model.Loader, logger *zap.Logger) *Engine {
	return &Engine{
		extractor: extractor,
		loader:    loader,
		profile:   heuristic.DefaultProfile(),
		logger:    logger.Named("scoring"),
	}
}

// Score computes a score in [0,1] for every candidate node and picks the
// highest as the recommendation. Ties keep the first candidate in request
// order.
func (e *Engine) Score(ctx context.Context, req *types.PredictionRequest) (*types.PredictionResponse, error) {
	resp := &types.PredictionResponse{
		NodeScores:   map[string]float64{},
		FeaturesUsed: features.Names(),
	}
	if len(req.CandidateNodes) == 0 {
		resp.ModelVersion = e.version()
		return resp, nil
	}

	vectors := e.extractor.ExtractAll(ctx, req)

	scores, version := e.modelScores(vectors)
	if scores == nil {
		scores = e.heuristicScores(vectors)
		version = "heuristic-" + e.profile.Name
	}
	resp.ModelVersion = version

	best := -1.0
	for i, node := range req.CandidateNodes {
		resp.NodeScores[node.Name] = scores[i]
		if scores[i] > best {
			best = scores[i]
			resp.RecommendedNode = node.Name
		}
	}
	return resp, nil
}

// Healthy reports whether the engine can score. The heuristic path has no
// dependencies, so a constructed engine is always healthy.
func (e *Engine) Healthy(ctx context.Context) bool { return true }

// ModelVersion exposes the active model version for health reporting.
func (e *Engine) ModelVersion() string { return e.version() }

// ModelFromArtifact reports whether scoring runs on a real trained
// artifact.
func (e *Engine) ModelFromArtifact() bool {
	return e.loader != nil && e.loader.FromArtifact()
}

func (e *Engine) version() string {
	if e.loader != nil && e.loader.Loaded() {
		return e.loader.Version()
	}
	return "heuristic-" + e.profile.Name
}

func (e *Engine) modelScores(vectors []features.Vector) ([]float64, string) {
	if e.loader == nil || !e.loader.Loaded() {
		return nil, ""
	}
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = v.Values()
	}
	return e.loader.Predict(rows)
}

func (e *Engine) heuristicScores(vectors []features.Vector) []float64 {
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		out[i] = heuristic.Score(v, e.profile)
	}
	return out
}
