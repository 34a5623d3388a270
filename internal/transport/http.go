// Package transport runs the HTTP server for a service, tied to the fx
// lifecycle for graceful startup and shutdown.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Serve registers lifecycle hooks that run handler on the given port.
// h2c lets kube-scheduler and in-cluster clients speak HTTP/2 without TLS.
func Serve(lifecycle fx.Lifecycle, port int, handler http.Handler, logger *zap.Logger) {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.Int("port", port))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", zap.Error(err))
					os.Exit(1)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down HTTP server")
			return server.Shutdown(ctx)
		},
	})
}
