package scoring

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/config"
	"github.com/nfsched/placement-extender/internal/features"
	"github.com/nfsched/placement-extender/internal/model"
)

// ProvideEngine builds the in-process scoring engine.
func ProvideEngine(extractor *features.Extractor, loader *model.Loader, logger *zap.Logger) *Engine {
	return NewEngine(extractor, loader, logger)
}

// ProvideBackend selects the scoring backend from configuration: "remote"
// delegates to the inference service, anything else scores locally.
func ProvideBackend(cfg *config.Config, engine *Engine, logger *zap.Logger) Backend {
	if cfg.Scoring.Mode == "remote" {
		return NewRemoteBackend(cfg.Scoring.InferenceAddress, cfg.Scoring.InferenceTimeout, logger)
	}
	return NewLocalBackend(engine)
}

// Module provides the scoring engine and backend.
var Module = fx.Options(
	fx.Provide(ProvideEngine),
	fx.Provide(ProvideBackend),
)
