package inventory

import (
	"context"

	"github.com/nfsched/placement-extender/internal/types"
)

// Client defines the cluster inventory lookups the feature pipeline needs.
// Implementations must answer with a single bounded attempt; callers resolve
// failures to neutral defaults.
type Client interface {
	// PodCountOnNode returns how many pods are currently scheduled on the
	// node, across all namespaces.
	PodCountOnNode(ctx context.Context, node string) (int, error)

	// ExistingPods lists already-placed pods with their node, workload type
	// and summed resource requests. An empty namespace lists all namespaces.
	ExistingPods(ctx context.Context, namespace string) ([]types.ExistingPod, error)
}
