// Package model loads trained placement-scoring artifacts and serves
// predictions from them. An artifact is a JSON bundle exported by the
// training pipeline; when none is available a built-in stub that mirrors
// the heuristic scorer takes its place, so callers always have a predictor.
package model

import (
	"errors"
	"fmt"
	"math"
)

// Predictor scores a batch of feature rows. Each row must be exactly one
// feature vector wide; outputs are raw model scores, clamped downstream.
type Predictor interface {
	Predict(rows [][]float64) ([]float64, error)
	Kind() string
}

// LinearModel is a linear regressor: dot(coefficients, row) + intercept.
type LinearModel struct {
	Coefficients []float64
	Intercept    float64
}

func (m *LinearModel) Kind() string { return "linear" }

func (m *LinearModel) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.Coefficients) {
			return nil, fmt.Errorf("row width %d does not match %d coefficients", len(row), len(m.Coefficients))
		}
		sum := m.Intercept
		for j, x := range row {
			sum += m.Coefficients[j] * x
		}
		out[i] = sum
	}
	return out, nil
}

// Tree is one decision tree in flattened array form. Leaves are nodes whose
// left child index is negative. Value holds per-node outputs; leaves with
// more than one value are classifier-style and the second entry is treated
// as the positive class.
type Tree struct {
	ChildrenLeft  []int
	ChildrenRight []int
	Feature       []int
	Threshold     []float64
	Value         [][]float64
}

func (t *Tree) score(row []float64) (float64, error) {
	node := 0
	for t.ChildrenLeft[node] >= 0 {
		f := t.Feature[node]
		if f < 0 || f >= len(row) {
			return 0, fmt.Errorf("tree references feature %d outside row width %d", f, len(row))
		}
		if row[f] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
		if node < 0 || node >= len(t.ChildrenLeft) {
			return 0, fmt.Errorf("tree walk escaped node range at %d", node)
		}
	}
	value := t.Value[node]
	switch len(value) {
	case 0:
		return 0, errors.New("tree leaf carries no value")
	case 1:
		return value[0], nil
	default:
		total := 0.0
		for _, v := range value {
			total += v
		}
		if total <= 0 {
			return 0, nil
		}
		return value[1] / total, nil
	}
}

func (t *Tree) validate() error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return errors.New("tree arrays have mismatched lengths")
	}
	return nil
}

// ForestModel averages the scores of its trees.
type ForestModel struct {
	Trees []Tree
}

func (m *ForestModel) Kind() string { return "forest" }

func (m *ForestModel) Predict(rows [][]float64) ([]float64, error) {
	if len(m.Trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		sum := 0.0
		for ti := range m.Trees {
			s, err := m.Trees[ti].score(row)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", ti, err)
			}
			sum += s
		}
		out[i] = sum / float64(len(m.Trees))
	}
	return out, nil
}

// Scaler is a standard scaler: (x - mean) / scale per column.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// Transform scales rows column-wise. It fails when the scaler width does
// not match the row width; callers then score unscaled rather than abort.
func (s *Scaler) Transform(rows [][]float64) ([][]float64, error) {
	if len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler mean width %d does not match scale width %d", len(s.Mean), len(s.Scale))
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row width %d does not match scaler width %d", len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, x := range row {
			div := s.Scale[j]
			if div == 0 || math.IsNaN(div) {
				div = 1
			}
			scaled[j] = (x - s.Mean[j]) / div
		}
		out[i] = scaled
	}
	return out, nil
}
