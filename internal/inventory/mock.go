package inventory

import (
	"context"

	"github.com/nfsched/placement-extender/internal/types"
)

// MockClient is an in-memory inventory for tests and mock-mode deployments.
type MockClient struct {
	Pods []types.ExistingPod
	Err  error
}

// NewMockClient creates an empty mock inventory.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// PodCountOnNode counts the mock pods placed on the node.
func (m *MockClient) PodCountOnNode(_ context.Context, node string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, pod := range m.Pods {
		if pod.Node == node {
			count++
		}
	}
	return count, nil
}

// ExistingPods returns the mock pods, optionally filtered by namespace.
func (m *MockClient) ExistingPods(_ context.Context, namespace string) ([]types.ExistingPod, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if namespace == "" {
		return m.Pods, nil
	}
	var filtered []types.ExistingPod
	for _, pod := range m.Pods {
		if pod.Namespace == namespace {
			filtered = append(filtered, pod)
		}
	}
	return filtered, nil
}
