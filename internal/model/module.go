package model

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/config"
)

// ProvideLoader builds the model loader and loads the configured artifact.
func ProvideLoader(cfg *config.Config, logger *zap.Logger) *Loader {
	loader := NewLoader(cfg.Model.Path, logger)
	loader.Load()
	return loader
}

// Module provides the model loader.
var Module = fx.Options(
	fx.Provide(ProvideLoader),
)
