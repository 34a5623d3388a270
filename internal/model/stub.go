package model

import (
	"fmt"

	"github.com/nfsched/placement-extender/internal/features"
	"github.com/nfsched/placement-extender/internal/heuristic"
)

// StubVersion identifies predictions produced without a trained artifact.
const StubVersion = "stub-v1.0"

// StubModel scores rows with the heuristic weight profile, so a deployment
// without an artifact behaves exactly like the heuristic fallback path.
type StubModel struct {
	Profile heuristic.WeightProfile
}

// NewStub returns a stub over the default weight profile.
func NewStub() *StubModel {
	return &StubModel{Profile: heuristic.DefaultProfile()}
}

func (m *StubModel) Kind() string { return "stub" }

func (m *StubModel) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		v, ok := features.FromValues(row)
		if !ok {
			return nil, fmt.Errorf("row width %d does not match feature width %d", len(row), features.Dim)
		}
		out[i] = heuristic.Score(v, m.Profile)
	}
	return out, nil
}
