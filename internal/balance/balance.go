// Package balance implements the cluster balance estimator. It scores a
// hypothetical placement by the standard deviation the cluster would have
// after the pod lands, across the whole candidate set, rather than by the
// node's own distance from the current mean.
//
// The same function is used to generate offline training labels; any change
// here must be mirrored in the training pipeline or model quality silently
// degrades.
package balance

import "math"

// NodeLoad is the current utilization of one candidate node, both values
// normalized to [0,1].
type NodeLoad struct {
	Name   string
	CPU    float64
	Memory float64
}

// Config contains the decay factors and resource weights for the estimator.
type Config struct {
	// Decay factor k in exp(-k*std). 25 means a ~4% std already drops the
	// score to ~37%, strongly rewarding tight clustering.
	CPUDecay float64
	MemDecay float64

	CPUWeight float64
	MemWeight float64
}

// DefaultConfig returns the estimator configuration used both online and for
// label generation.
func DefaultConfig() Config {
	return Config{
		CPUDecay:  25.0,
		MemDecay:  25.0,
		CPUWeight: 0.5,
		MemWeight: 0.5,
	}
}

// NeutralScore is returned when the candidate set is too small or the target
// capacity is unusable, where a projected deviation is meaningless.
const NeutralScore = 0.5

// ProjectedScore estimates how balanced the cluster would be after placing a
// pod requesting podCPU cores and podMemory bytes on the named node. The
// target node takes its projected utilization, capped at 1; every other
// candidate keeps its current one. Returns a score in [0,1], higher meaning a
// tighter post-placement cluster.
func ProjectedScore(nodeName string, cpuCapacity, memCapacity, podCPU, podMemory float64, loads []NodeLoad, cfg Config) float64 {
	if len(loads) < 2 || cpuCapacity <= 0 || memCapacity <= 0 {
		return NeutralScore
	}

	futureCPU := make([]float64, 0, len(loads))
	futureMem := make([]float64, 0, len(loads))
	for _, l := range loads {
		if l.Name == nodeName {
			futureCPU = append(futureCPU, math.Min(1.0, l.CPU+podCPU/cpuCapacity))
			futureMem = append(futureMem, math.Min(1.0, l.Memory+podMemory/memCapacity))
		} else {
			futureCPU = append(futureCPU, l.CPU)
			futureMem = append(futureMem, l.Memory)
		}
	}

	cpuScore := math.Exp(-cfg.CPUDecay * StdDev(futureCPU))
	memScore := math.Exp(-cfg.MemDecay * StdDev(futureMem))

	score := cfg.CPUWeight*cpuScore + cfg.MemWeight*memScore
	return math.Max(0.0, math.Min(1.0, score))
}

// StdDev computes the population standard deviation. A pure function of the
// value multiset, so balance scores are invariant to candidate ordering.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
