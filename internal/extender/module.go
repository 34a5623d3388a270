package extender

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/config"
	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/scoring"
	"github.com/nfsched/placement-extender/internal/transport"
)

// ProvideServer builds the extender webhook server.
func ProvideServer(cfg *config.Config, backend scoring.Backend, inv inventory.Client, logger *zap.Logger) *Server {
	return NewServer(backend, inv, cfg.Scoring.InferenceTimeout, logger)
}

func serve(lifecycle fx.Lifecycle, cfg *config.Config, srv *Server, logger *zap.Logger) {
	logger.Info("starting placement extender",
		zap.Int("server.port", cfg.Server.Port),
		zap.String("scoring.mode", cfg.Scoring.Mode),
		zap.String("telemetry.prometheus_url", cfg.Telemetry.PrometheusURL),
		zap.String("model.path", cfg.Model.Path),
		zap.Bool("kubernetes.mock", cfg.Kubernetes.MockMode))
	transport.Serve(lifecycle, cfg.Server.Port, srv.Routes(), logger)
}

// Module provides and runs the extender webhook server.
var Module = fx.Options(
	fx.Provide(ProvideServer),
	fx.Invoke(serve),
)
