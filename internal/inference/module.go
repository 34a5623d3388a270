package inference

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/config"
	"github.com/nfsched/placement-extender/internal/scoring"
	"github.com/nfsched/placement-extender/internal/transport"
)

// ProvideServer builds the inference HTTP server.
func ProvideServer(engine *scoring.Engine, logger *zap.Logger) *Server {
	return NewServer(engine, logger)
}

func serve(lifecycle fx.Lifecycle, cfg *config.Config, srv *Server, logger *zap.Logger) {
	logger.Info("starting placement inference service",
		zap.Int("server.port", cfg.Server.Port),
		zap.String("telemetry.prometheus_url", cfg.Telemetry.PrometheusURL),
		zap.String("model.path", cfg.Model.Path))
	transport.Serve(lifecycle, cfg.Server.Port, srv.Routes(), logger)
}

// Module provides and runs the inference server.
var Module = fx.Options(
	fx.Provide(ProvideServer),
	fx.Invoke(serve),
)
