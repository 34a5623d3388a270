package model

import (
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/features"
)

// Loader owns the active predictor. Load never fails: any problem with the
// artifact file installs the stub instead, and a predictor failure at call
// time substitutes a stub prediction for that call only. Callers can always
// score.
type Loader struct {
	path   string
	logger *zap.Logger

	predictor    Predictor
	scaler       *Scaler
	version      string
	featureNames []string
	fromArtifact bool

	stub *StubModel
}

// NewLoader creates a loader for the artifact at path. Call Load before
// Predict.
func NewLoader(path string, logger *zap.Logger) *Loader {
	return &Loader{
		path:   path,
		logger: logger.Named("model"),
		stub:   NewStub(),
	}
}

// Load reads and installs the artifact, or the stub when the file is
// missing or malformed.
func (l *Loader) Load() {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Warn("model artifact unavailable, using stub",
			zap.String("path", l.path), zap.Error(err))
		l.installStub()
		return
	}

	art, err := parseArtifact(raw)
	if err != nil {
		l.logger.Warn("model artifact malformed, using stub",
			zap.String("path", l.path), zap.Error(err))
		l.installStub()
		return
	}

	l.predictor = art.predictor
	l.scaler = art.scaler
	l.version = art.version
	l.featureNames = art.featureNames
	l.fromArtifact = true
	if len(l.featureNames) == 0 {
		l.featureNames = features.Names()
	}
	l.logger.Info("model artifact loaded",
		zap.String("path", l.path),
		zap.String("version", l.version),
		zap.String("kind", l.predictor.Kind()))
}

func (l *Loader) installStub() {
	l.predictor = l.stub
	l.scaler = nil
	l.version = StubVersion
	l.featureNames = features.Names()
	l.fromArtifact = false
}

// Loaded reports whether a predictor is installed. True even for the stub.
func (l *Loader) Loaded() bool { return l.predictor != nil }

// FromArtifact reports whether the active predictor came from a real
// artifact file rather than the built-in stub.
func (l *Loader) FromArtifact() bool { return l.fromArtifact }

// Version returns the active model version string.
func (l *Loader) Version() string { return l.version }

// FeatureNames returns the feature names the active model was trained on.
func (l *Loader) FeatureNames() []string { return l.featureNames }

// Predict scores feature rows, clamped to [0,1]. A scaler that does not fit
// the rows is skipped; a predictor failure falls back to the stub for this
// call without touching loader state. The returned version identifies the
// predictor that actually scored: the installed one's, or StubVersion when
// the call was substituted.
func (l *Loader) Predict(rows [][]float64) ([]float64, string) {
	if len(rows) == 0 {
		return nil, l.version
	}

	scored := rows
	if l.scaler != nil {
		scaled, err := l.scaler.Transform(rows)
		if err != nil {
			l.logger.Warn("scaler does not fit feature rows, scoring unscaled", zap.Error(err))
		} else {
			scored = scaled
		}
	}

	version := l.version
	out, err := l.predictor.Predict(scored)
	if err != nil {
		l.logger.Warn("prediction failed, substituting stub for this call",
			zap.String("kind", l.predictor.Kind()), zap.Error(err))
		version = StubVersion
		out, err = l.stub.Predict(rows)
		if err != nil {
			l.logger.Error("stub prediction failed", zap.Error(err))
			out = make([]float64, len(rows))
			for i := range out {
				out[i] = 0.5
			}
		}
	}

	for i, s := range out {
		out[i] = math.Max(0.0, math.Min(1.0, s))
	}
	return out, version
}
