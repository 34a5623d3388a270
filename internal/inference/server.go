// Package inference is the standalone scoring service. It exposes the
// engine over HTTP for extenders running in remote mode, plus health and
// metrics surfaces.
package inference

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/scoring"
	"github.com/nfsched/placement-extender/internal/types"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inference_predictions_total",
		Help: "Prediction requests by outcome.",
	}, []string{"status"})

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inference_prediction_duration_seconds",
		Help:    "Prediction request latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// Server serves predictions from the in-process scoring engine.
type Server struct {
	engine *scoring.Engine
	logger *zap.Logger
}

// NewServer builds the inference HTTP server.
func NewServer(engine *scoring.Engine, logger *zap.Logger) *Server {
	return &Server{engine: engine, logger: logger.Named("inference")}
}

// Routes returns the HTTP mux with all inference endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req types.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		predictionsTotal.WithLabelValues("malformed").Inc()
		s.logger.Warn("malformed prediction request",
			zap.String("request_id", requestID), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	resp, err := s.engine.Score(r.Context(), &req)
	predictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		predictionsTotal.WithLabelValues("error").Inc()
		s.logger.Error("scoring failed",
			zap.String("request_id", requestID),
			zap.String("pod", req.Pod.Name),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scoring failed"})
		return
	}

	predictionsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("prediction served",
		zap.String("request_id", requestID),
		zap.String("pod", req.Pod.Name),
		zap.String("recommended", resp.RecommendedNode),
		zap.String("model_version", resp.ModelVersion),
		zap.Int("candidates", len(req.CandidateNodes)))
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth always answers 200; status is "degraded" while scoring runs
// on the stub instead of a trained artifact.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.engine.ModelFromArtifact() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                  status,
		"model_loaded":            true,
		"feature_extractor_ready": true,
		"model_version":           s.engine.ModelVersion(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "placement-inference",
		"endpoints": []string{"/predict", "/health", "/metrics"},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		return
	}
}
