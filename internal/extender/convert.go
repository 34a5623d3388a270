package extender

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/resource"
	"github.com/nfsched/placement-extender/internal/types"
)

// podRequestFrom flattens a pod spec into the scoring request shape,
// summing container requests into single CPU and memory figures.
func podRequestFrom(pod *corev1.Pod) types.PodRequest {
	if pod == nil {
		return types.PodRequest{}
	}
	return types.PodRequest{
		Name:          pod.Name,
		Namespace:     pod.Namespace,
		CPURequest:    inventory.SumCPURequests(pod.Spec.Containers),
		MemoryRequest: inventory.SumMemoryRequests(pod.Spec.Containers),
		Labels:        pod.Labels,
		Annotations:   pod.Annotations,
		PodType:       types.PodTypeFromLabel(pod.Labels[inventory.PodTypeLabel]),
	}
}

// candidatesFrom converts node objects into scoring candidates. Allocatable
// stands in for available capacity; live load arrives via telemetry, not
// the node object.
func candidatesFrom(nodes *corev1.NodeList) []types.NodeCandidate {
	if nodes == nil {
		return nil
	}
	candidates := make([]types.NodeCandidate, 0, len(nodes.Items))
	for i := range nodes.Items {
		node := &nodes.Items[i]
		candidates = append(candidates, types.NodeCandidate{
			Name:            node.Name,
			CPUAvailable:    quantityValue(node.Status.Allocatable, corev1.ResourceCPU, resource.ParseCPU),
			MemoryAvailable: quantityValue(node.Status.Allocatable, corev1.ResourceMemory, resource.ParseMemory),
			CPUCapacity:     quantityValue(node.Status.Capacity, corev1.ResourceCPU, resource.ParseCPU),
			MemoryCapacity:  quantityValue(node.Status.Capacity, corev1.ResourceMemory, resource.ParseMemory),
			Labels:          node.Labels,
			Taints:          node.Spec.Taints,
		})
	}
	return candidates
}

func quantityValue(list corev1.ResourceList, name corev1.ResourceName, parse func(string) float64) float64 {
	q, ok := list[name]
	if !ok {
		return 0
	}
	return parse(q.String())
}

func podName(pod *corev1.Pod) string {
	if pod == nil {
		return ""
	}
	return pod.Namespace + "/" + pod.Name
}

func corev1NodeListEmpty() corev1.NodeList {
	return corev1.NodeList{Items: []corev1.Node{}}
}
