// Package heuristic is the deterministic placement scorer. It is the
// authoritative fallback when no trained model is usable, and the exact
// formula used to generate offline training labels; the weight profile and
// sub-scores here must not drift from the training pipeline.
package heuristic

import (
	"math"

	"github.com/nfsched/placement-extender/internal/features"
)

// WeightProfile is a named, versioned set of sub-score weights. Weights must
// sum to 1.0; historical revisions get a new Name instead of edited literals.
type WeightProfile struct {
	Name string

	// CPUZone rewards nodes in the efficient CPU band.
	CPUZone float64
	// Latency rewards low measured RTT, exponentially.
	Latency float64
	// Memory rewards low memory load.
	Memory float64
	// Availability rewards raw free resources.
	Availability float64
	// Balance rewards placements that tighten the projected cluster spread.
	Balance float64
}

// DefaultProfile is the balance-dominant revision used for the current
// training labels.
func DefaultProfile() WeightProfile {
	return WeightProfile{
		Name:         "balance-first-v4",
		CPUZone:      0.15,
		Latency:      0.15,
		Memory:       0.08,
		Availability: 0.02,
		Balance:      0.60,
	}
}

// Sum returns the total weight; a regression guard asserts it equals 1.0.
func (p WeightProfile) Sum() float64 {
	return p.CPUZone + p.Latency + p.Memory + p.Availability + p.Balance
}

// CPU zone boundaries: full score inside [lower,upper], modest ramp below,
// steep decay above.
const (
	cpuZoneLower = 0.30
	cpuZoneUpper = 0.60
	cpuZoneSlope = 2.5
)

// CPUZoneScore scores a node's CPU load against the efficient band.
func CPUZoneScore(load float64) float64 {
	switch {
	case load >= cpuZoneLower && load <= cpuZoneUpper:
		return 1.0
	case load < cpuZoneLower:
		return 0.7 + (load/cpuZoneLower)*0.3
	default:
		return math.Max(0.0, 1.0-(load-cpuZoneUpper)*cpuZoneSlope)
	}
}

// LatencyScore maps normalized latency to a score that strongly favors very
// low RTT.
func LatencyScore(normalized float64) float64 {
	return math.Pow(1.0-normalized, 1.5)
}

// Score computes the weighted heuristic score for one feature vector,
// clamped to [0,1].
func Score(v features.Vector, p WeightProfile) float64 {
	score := CPUZoneScore(v.CPULoadAvg) * p.CPUZone
	score += LatencyScore(v.NetworkLatencyNormalized) * p.Latency
	score += (1.0 - v.MemoryLoadAvg) * p.Memory
	score += (v.CPUAvailableRatio + v.MemoryAvailableRatio) / 2.0 * p.Availability
	score += v.BalanceScore * p.Balance
	return math.Max(0.0, math.Min(1.0, score))
}
