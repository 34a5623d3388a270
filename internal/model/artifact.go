package model

import (
	"encoding/json"
	"fmt"
)

// Artifact JSON layout. Either a full bundle with a "model" object, or a
// bare model object with no wrapper; the loader accepts both.
type artifactFile struct {
	Version      string      `json:"version"`
	FeatureNames []string    `json:"feature_names"`
	Scaler       *scalerSpec `json:"scaler"`
	Model        *modelSpec  `json:"model"`

	// Bare-model fields, populated when no wrapper is present.
	modelSpec
}

type scalerSpec struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type modelSpec struct {
	Type         string     `json:"type"`
	Coefficients []float64  `json:"coefficients"`
	Intercept    float64    `json:"intercept"`
	Trees        []treeSpec `json:"trees"`
}

type treeSpec struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// artifact is a decoded, validated model bundle.
type artifact struct {
	version      string
	featureNames []string
	scaler       *Scaler
	predictor    Predictor
}

func parseArtifact(raw []byte) (*artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}

	spec := file.Model
	if spec == nil {
		spec = &file.modelSpec
	}

	predictor, err := buildPredictor(spec)
	if err != nil {
		return nil, err
	}

	art := &artifact{
		version:      file.Version,
		featureNames: file.FeatureNames,
		predictor:    predictor,
	}
	if art.version == "" {
		art.version = "unversioned"
	}
	if file.Scaler != nil {
		art.scaler = &Scaler{Mean: file.Scaler.Mean, Scale: file.Scaler.Scale}
	}
	return art, nil
}

func buildPredictor(spec *modelSpec) (Predictor, error) {
	switch spec.Type {
	case "stub", "":
		return NewStub(), nil
	case "linear":
		if len(spec.Coefficients) == 0 {
			return nil, fmt.Errorf("linear model carries no coefficients")
		}
		return &LinearModel{Coefficients: spec.Coefficients, Intercept: spec.Intercept}, nil
	case "forest", "random_forest":
		trees := make([]Tree, len(spec.Trees))
		for i, ts := range spec.Trees {
			trees[i] = Tree{
				ChildrenLeft:  ts.ChildrenLeft,
				ChildrenRight: ts.ChildrenRight,
				Feature:       ts.Feature,
				Threshold:     ts.Threshold,
				Value:         ts.Value,
			}
			if err := trees[i].validate(); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
		forest := &ForestModel{Trees: trees}
		if len(forest.Trees) == 0 {
			return nil, fmt.Errorf("forest model carries no trees")
		}
		return forest, nil
	default:
		return nil, fmt.Errorf("unknown model type %q", spec.Type)
	}
}
