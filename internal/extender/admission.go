package extender

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/resource"
	"github.com/nfsched/placement-extender/internal/types"
)

// Admission-failure reason reported to the scheduler.
const reasonInsufficientResources = "InsufficientResources"

// filterNodes partitions the candidate nodes by a pure capacity gate: the
// pod's summed requests against each node's allocatable CPU and memory.
// Taints and affinity stay with the default scheduler predicates.
func filterNodes(pod *corev1.Pod, nodes *corev1.NodeList) (corev1.NodeList, []types.FailedNode) {
	accepted := corev1.NodeList{Items: []corev1.Node{}}
	failed := []types.FailedNode{}
	if nodes == nil {
		return accepted, failed
	}
	if pod == nil {
		accepted.Items = nodes.Items
		return accepted, failed
	}

	cpuNeed := inventory.SumCPURequests(pod.Spec.Containers)
	memNeed := inventory.SumMemoryRequests(pod.Spec.Containers)

	for i := range nodes.Items {
		node := &nodes.Items[i]
		if nodeFits(node, cpuNeed, memNeed) {
			accepted.Items = append(accepted.Items, *node)
		} else {
			failed = append(failed, types.FailedNode{
				Name:   node.Name,
				Reason: reasonInsufficientResources,
			})
		}
	}
	return accepted, failed
}

func nodeFits(node *corev1.Node, cpuNeed, memNeed float64) bool {
	cpuFree := quantityValue(node.Status.Allocatable, corev1.ResourceCPU, resource.ParseCPU)
	memFree := quantityValue(node.Status.Allocatable, corev1.ResourceMemory, resource.ParseMemory)
	return cpuNeed <= cpuFree && memNeed <= memFree
}
