package inventory

import (
	"go.uber.org/fx"

	"github.com/nfsched/placement-extender/internal/config"
)

// ProvideClient creates an inventory client based on the configuration.
func ProvideClient(cfg *config.Config) (Client, error) {
	if cfg.Kubernetes.MockMode {
		return NewMockClient(), nil
	}
	return NewK8sClient(cfg.Kubernetes.Kubeconfig)
}

// Module provides the inventory client dependency to the fx container.
var Module = fx.Options(
	fx.Provide(ProvideClient),
)
