package heuristic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfsched/placement-extender/internal/features"
)

// Trained models are labeled with this exact profile; changing the weights
// silently invalidates every deployed artifact.
func TestDefaultProfileWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultProfile().Sum(), 1e-9)
}

func TestCPUZoneScore(t *testing.T) {
	tests := []struct {
		name string
		load float64
		want float64
	}{
		{"idle node gets the floor", 0.0, 0.7},
		{"ramp below the band", 0.15, 0.85},
		{"band lower edge", 0.30, 1.0},
		{"inside the band", 0.45, 1.0},
		{"band upper edge", 0.60, 1.0},
		{"decay above the band", 0.80, 0.5},
		{"saturated node", 1.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CPUZoneScore(tt.load), 1e-9)
		})
	}
}

func TestLatencyScore(t *testing.T) {
	assert.InDelta(t, 1.0, LatencyScore(0.0), 1e-9)
	assert.InDelta(t, 0.0, LatencyScore(1.0), 1e-9)
	assert.InDelta(t, math.Pow(0.7, 1.5), LatencyScore(0.3), 1e-9)
	assert.Greater(t, LatencyScore(0.1), LatencyScore(0.2))
}

func TestScoreWeightedSum(t *testing.T) {
	v := features.Vector{
		CPUAvailableRatio:        0.8,
		MemoryAvailableRatio:     0.6,
		NetworkLatencyNormalized: 0.2,
		CPULoadAvg:               0.4,
		MemoryLoadAvg:            0.3,
		BalanceScore:             0.9,
	}
	p := DefaultProfile()

	want := 1.0*p.CPUZone +
		math.Pow(0.8, 1.5)*p.Latency +
		0.7*p.Memory +
		0.7*p.Availability +
		0.9*p.Balance
	assert.InDelta(t, want, Score(v, p), 1e-9)
}

func TestScoreStaysInUnitInterval(t *testing.T) {
	extremes := []features.Vector{
		{},
		{
			CPUAvailableRatio:        1.0,
			MemoryAvailableRatio:     1.0,
			NetworkLatencyNormalized: 0.0,
			CPULoadAvg:               0.45,
			MemoryLoadAvg:            0.0,
			BalanceScore:             1.0,
		},
		{
			NetworkLatencyNormalized: 1.0,
			CPULoadAvg:               1.0,
			MemoryLoadAvg:            1.0,
		},
	}
	for _, v := range extremes {
		s := Score(v, DefaultProfile())
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScorePrefersBalancedPlacement(t *testing.T) {
	tight := features.Vector{CPULoadAvg: 0.4, BalanceScore: 0.9}
	loose := features.Vector{CPULoadAvg: 0.4, BalanceScore: 0.2}
	p := DefaultProfile()

	assert.Greater(t, Score(tight, p), Score(loose, p))
}
