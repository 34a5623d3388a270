// Package inventory wraps the Kubernetes API for the read-only cluster
// lookups the scoring pipeline needs: pod density per node and the set of
// already-placed workloads.
package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/nfsched/placement-extender/internal/resource"
	"github.com/nfsched/placement-extender/internal/types"
)

// PodTypeLabel is the pod label carrying the network-function workload type.
const PodTypeLabel = "pod_type"

// K8sClient is a thin wrapper around a Kubernetes clientset.
type K8sClient struct {
	clientset kubernetes.Interface
}

// NewK8sClient creates an inventory client, preferring in-cluster credentials
// and falling back to a kubeconfig file.
func NewK8sClient(kubeconfig string) (*K8sClient, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		if kubeconfig == "" {
			kubeconfig = filepath.Join(os.Getenv("HOME"), ".kube", "config")
		}
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &K8sClient{clientset: clientset}, nil
}

// NewClientFromClientset wraps an existing clientset; used by tests with the
// fake clientset.
func NewClientFromClientset(clientset kubernetes.Interface) *K8sClient {
	return &K8sClient{clientset: clientset}
}

// PodCountOnNode counts pods scheduled on the node across all namespaces.
func (k *K8sClient) PodCountOnNode(ctx context.Context, node string) (int, error) {
	pods, err := k.clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{
		FieldSelector: "spec.nodeName=" + node,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list pods on node %s: %w", node, err)
	}
	return len(pods.Items), nil
}

// ExistingPods lists placed pods with their summed requests and workload type.
func (k *K8sClient) ExistingPods(ctx context.Context, namespace string) ([]types.ExistingPod, error) {
	pods, err := k.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %q: %w", namespace, err)
	}

	existing := make([]types.ExistingPod, 0, len(pods.Items))
	for _, pod := range pods.Items {
		if pod.Spec.NodeName == "" {
			continue // not placed yet
		}
		existing = append(existing, types.ExistingPod{
			Name:          pod.Name,
			Namespace:     pod.Namespace,
			Node:          pod.Spec.NodeName,
			Type:          types.PodTypeFromLabel(pod.Labels[PodTypeLabel]),
			CPURequest:    SumCPURequests(pod.Spec.Containers),
			MemoryRequest: SumMemoryRequests(pod.Spec.Containers),
		})
	}
	return existing, nil
}

// SumCPURequests totals the CPU requests of a pod's containers in cores.
func SumCPURequests(containers []corev1.Container) float64 {
	var total float64
	for _, c := range containers {
		if q, ok := c.Resources.Requests[corev1.ResourceCPU]; ok {
			total += resource.ParseCPU(q.String())
		}
	}
	return total
}

// SumMemoryRequests totals the memory requests of a pod's containers in bytes.
func SumMemoryRequests(containers []corev1.Container) float64 {
	var total float64
	for _, c := range containers {
		if q, ok := c.Resources.Requests[corev1.ResourceMemory]; ok {
			total += resource.ParseMemory(q.String())
		}
	}
	return total
}
