package features

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/telemetry"
)

// ProvideExtractor creates the feature extractor with its dependencies.
func ProvideExtractor(tc telemetry.Client, inv inventory.Client, logger *zap.Logger) *Extractor {
	return NewExtractor(tc, inv, logger)
}

// Module provides the feature extractor dependency to the fx container.
var Module = fx.Options(
	fx.Provide(ProvideExtractor),
)
