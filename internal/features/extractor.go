// Package features builds the per-(pod,node) feature vectors the scoring
// engine consumes. Every input that can be unavailable (telemetry, inventory,
// latency probes) resolves to a documented neutral default, so extraction
// always yields a complete vector.
package features

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/balance"
	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/telemetry"
	"github.com/nfsched/placement-extender/internal/types"
)

const (
	// NodeSelectorPrefix marks pod labels that express node placement
	// preferences for the compatibility feature.
	NodeSelectorPrefix = "node-selector/"

	// latencyCeilingMs is the RTT treated as fully saturating the latency
	// feature.
	latencyCeilingMs = 100.0

	// assumedMaxPodsPerNode normalizes pod density.
	assumedMaxPodsPerNode = 100.0

	// neutralLatency is used when a node's latency is unmeasured; an explicit
	// middle value rather than a bias toward "fast".
	neutralLatency = 0.5

	// neutralCompatibility is used when a pod declares no node-selector
	// labels.
	neutralCompatibility = 0.5

	overloadThreshold = 0.7
)

var podTypeScores = map[types.PodType]float64{
	types.PodTypeUPF: 0.9,
	types.PodTypeDU:  0.8,
	types.PodTypeSMF: 0.7,
	types.PodTypeCU:  0.6,
}

// Extractor builds feature vectors from telemetry, inventory and the balance
// estimator. Safe for concurrent use; all state is read-only.
type Extractor struct {
	telemetry  telemetry.Client
	inventory  inventory.Client
	balanceCfg balance.Config
	logger     *zap.Logger
}

// NewExtractor creates a feature extractor.
func NewExtractor(tc telemetry.Client, inv inventory.Client, logger *zap.Logger) *Extractor {
	return &Extractor{
		telemetry:  tc,
		inventory:  inv,
		balanceCfg: balance.DefaultConfig(),
		logger:     logger.Named("features"),
	}
}

// Snapshot fetches every candidate's current utilization exactly once. The
// balance estimator reads the same snapshot for each candidate, so one
// prioritize call issues O(n) telemetry lookups rather than O(n²).
func (e *Extractor) Snapshot(ctx context.Context, nodes []types.NodeCandidate) []balance.NodeLoad {
	loads := make([]balance.NodeLoad, 0, len(nodes))
	for _, node := range nodes {
		loads = append(loads, balance.NodeLoad{
			Name:   node.Name,
			CPU:    e.telemetry.NodeCPULoad(ctx, node.Name),
			Memory: e.telemetry.NodeMemoryLoad(ctx, node.Name),
		})
	}
	return loads
}

// ExtractAll builds one vector per candidate node, in input order.
func (e *Extractor) ExtractAll(ctx context.Context, req *types.PredictionRequest) []Vector {
	loads := e.Snapshot(ctx, req.CandidateNodes)
	vectors := make([]Vector, 0, len(req.CandidateNodes))
	for _, node := range req.CandidateNodes {
		vectors = append(vectors, e.Extract(ctx, req.Pod, node, loads, req.ExistingPods))
	}
	return vectors
}

// Extract builds the vector for one candidate using the shared load snapshot.
func (e *Extractor) Extract(ctx context.Context, pod types.PodRequest, node types.NodeCandidate, loads []balance.NodeLoad, existing []types.ExistingPod) Vector {
	cpuLoad, memLoad := loadFor(loads, node.Name)

	latency := node.NetworkLatency
	if latency == nil {
		latency = e.telemetry.NodeNetworkLatencyMs(ctx, node.Name)
	}

	return Vector{
		CPUAvailableRatio:          availableRatio(node.CPUAvailable, node.CPUCapacity),
		MemoryAvailableRatio:       availableRatio(node.MemoryAvailable, node.MemoryCapacity),
		NetworkLatencyNormalized:   normalizeLatency(latency),
		CPULoadAvg:                 cpuLoad,
		MemoryLoadAvg:              memLoad,
		PodDensity:                 e.podDensity(ctx, node.Name),
		BalanceScore:               balance.ProjectedScore(node.Name, node.CPUCapacity, node.MemoryCapacity, pod.CPURequest, pod.MemoryRequest, loads, e.balanceCfg),
		OverloadPenalty:            math.Max(0.0, (cpuLoad+memLoad)/2.0-overloadThreshold),
		LabelCompatibility:         labelCompatibility(node.Labels, pod.Labels),
		PodTypeScore:               PodTypeScore(pod.PodType),
		SameTypePodCountNormalized: sameTypeCount(node.Name, pod.PodType, existing) / 10.0,
	}
}

// PodTypeScore encodes the workload type priority; unknown or unset types are
// neutral.
func PodTypeScore(podType types.PodType) float64 {
	if score, ok := podTypeScores[podType]; ok {
		return score
	}
	return 0.5
}

func availableRatio(available, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return available / capacity
}

func normalizeLatency(latencyMs *float64) float64 {
	if latencyMs == nil {
		return neutralLatency
	}
	return math.Min(1.0, *latencyMs/latencyCeilingMs)
}

func (e *Extractor) podDensity(ctx context.Context, node string) float64 {
	count, err := e.inventory.PodCountOnNode(ctx, node)
	if err != nil {
		e.logger.Debug("pod density unavailable", zap.String("node", node), zap.Error(err))
		return 0
	}
	return math.Min(1.0, float64(count)/assumedMaxPodsPerNode)
}

// labelCompatibility is the fraction of the pod's node-selector labels the
// node satisfies; neutral when the pod declares none.
func labelCompatibility(nodeLabels, podLabels map[string]string) float64 {
	matches, total := 0, 0
	for key, value := range podLabels {
		if !strings.HasPrefix(key, NodeSelectorPrefix) {
			continue
		}
		total++
		selectorKey := strings.TrimPrefix(key, NodeSelectorPrefix)
		if nodeValue, ok := nodeLabels[selectorKey]; ok && nodeValue == value {
			matches++
		}
	}
	if total == 0 {
		return neutralCompatibility
	}
	return float64(matches) / float64(total)
}

// sameTypeCount is deliberately not capped: the /10 normalization may exceed
// 1.0 on dense nodes, matching the training data.
func sameTypeCount(node string, podType types.PodType, existing []types.ExistingPod) float64 {
	if podType == types.PodTypeUnset {
		return 0
	}
	count := 0
	for _, pod := range existing {
		if pod.Node == node && pod.Type == podType {
			count++
		}
	}
	return float64(count)
}

func loadFor(loads []balance.NodeLoad, name string) (cpu, mem float64) {
	for _, l := range loads {
		if l.Name == name {
			return l.CPU, l.Memory
		}
	}
	return telemetry.DefaultLoad, telemetry.DefaultLoad
}
