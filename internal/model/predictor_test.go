package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfsched/placement-extender/internal/features"
	"github.com/nfsched/placement-extender/internal/heuristic"
)

func TestLinearModelPredict(t *testing.T) {
	m := &LinearModel{Coefficients: []float64{0.5, -0.25}, Intercept: 0.1}

	out, err := m.Predict([][]float64{
		{1.0, 2.0},
		{0.0, 0.0},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.1+0.5-0.5, out[0], 1e-9)
	assert.InDelta(t, 0.1, out[1], 1e-9)
}

func TestLinearModelWidthMismatch(t *testing.T) {
	m := &LinearModel{Coefficients: []float64{0.5, 0.5}}

	_, err := m.Predict([][]float64{{1.0}})
	assert.Error(t, err)
}

// A two-leaf tree splitting on feature 0 at 0.5.
func stumpTree(left, right float64) Tree {
	return Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{0.5, 0, 0},
		Value:         [][]float64{{0}, {left}, {right}},
	}
}

func TestTreeScore(t *testing.T) {
	tree := stumpTree(0.2, 0.9)

	low, err := tree.score([]float64{0.3})
	require.NoError(t, err)
	assert.Equal(t, 0.2, low)

	high, err := tree.score([]float64{0.8})
	require.NoError(t, err)
	assert.Equal(t, 0.9, high)
}

func TestTreeClassifierLeafTakesPositiveClassShare(t *testing.T) {
	tree := Tree{
		ChildrenLeft:  []int{-1},
		ChildrenRight: []int{-1},
		Feature:       []int{-2},
		Threshold:     []float64{0},
		Value:         [][]float64{{3, 1}},
	}

	s, err := tree.score([]float64{0.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, s, 1e-9)
}

func TestForestAveragesTrees(t *testing.T) {
	m := &ForestModel{Trees: []Tree{
		stumpTree(0.2, 0.8),
		stumpTree(0.4, 1.0),
	}}

	out, err := m.Predict([][]float64{{0.0}, {1.0}})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, out[0], 1e-9)
	assert.InDelta(t, 0.9, out[1], 1e-9)
}

func TestForestWithoutTreesFails(t *testing.T) {
	m := &ForestModel{}

	_, err := m.Predict([][]float64{{0.0}})
	assert.Error(t, err)
}

func TestScalerTransform(t *testing.T) {
	s := &Scaler{Mean: []float64{1.0, 2.0}, Scale: []float64{2.0, 0.0}}

	out, err := s.Transform([][]float64{{3.0, 5.0}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0][0], 1e-9)
	// Zero scale columns pass through centered only.
	assert.InDelta(t, 3.0, out[0][1], 1e-9)
}

func TestScalerWidthMismatch(t *testing.T) {
	s := &Scaler{Mean: []float64{1.0}, Scale: []float64{1.0}}

	_, err := s.Transform([][]float64{{1.0, 2.0}})
	assert.Error(t, err)
}

func TestStubMatchesHeuristic(t *testing.T) {
	v := features.Vector{
		CPUAvailableRatio:        0.6,
		MemoryAvailableRatio:     0.7,
		NetworkLatencyNormalized: 0.2,
		CPULoadAvg:               0.4,
		MemoryLoadAvg:            0.3,
		BalanceScore:             0.8,
	}

	out, err := NewStub().Predict([][]float64{v.Values()})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, heuristic.Score(v, heuristic.DefaultProfile()), out[0], 1e-9)
}

func TestStubRejectsWrongWidth(t *testing.T) {
	_, err := NewStub().Predict([][]float64{{0.1, 0.2}})
	assert.Error(t, err)
}
