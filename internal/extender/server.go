// Package extender is the HTTP surface kube-scheduler calls through its
// extender webhook: filter, prioritize, bind and health. Every handler
// answers 200 with a best-effort body; a scheduling cycle must never stall
// on this service.
package extender

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nfsched/placement-extender/internal/inventory"
	"github.com/nfsched/placement-extender/internal/scoring"
	"github.com/nfsched/placement-extender/internal/types"
)

// neutralScore is the uniform 0-10 score returned when scoring is
// impossible; it leaves the scheduler's own ranking untouched.
const neutralScore = 5

// Server implements the extender webhook endpoints.
type Server struct {
	backend scoring.Backend
	inv     inventory.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewServer builds the webhook server. timeout bounds the downstream work
// of one prioritize call.
func NewServer(backend scoring.Backend, inv inventory.Client, timeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		backend: backend,
		inv:     inv,
		timeout: timeout,
		logger:  logger.Named("extender"),
	}
}

// Routes returns the HTTP mux with all extender endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/filter", s.handleFilter)
	mux.HandleFunc("/prioritize", s.handlePrioritize)
	mux.HandleFunc("/bind", s.handleBind)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	defer s.observe("filter", time.Now())
	requestID := uuid.NewString()

	var args types.ExtenderArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		s.logger.Warn("malformed filter request",
			zap.String("request_id", requestID), zap.Error(err))
		msg := err.Error()
		writeJSON(w, types.ExtenderFilterResult{
			Nodes:       corev1NodeListEmpty(),
			FailedNodes: []types.FailedNode{},
			Error:       &msg,
		})
		return
	}

	accepted, failed := filterNodes(args.Pod, args.Nodes)
	filteredNodes.WithLabelValues("accepted").Add(float64(len(accepted.Items)))
	filteredNodes.WithLabelValues("rejected").Add(float64(len(failed)))

	s.logger.Info("filtered candidate nodes",
		zap.String("request_id", requestID),
		zap.String("pod", podName(args.Pod)),
		zap.Int("accepted", len(accepted.Items)),
		zap.Int("rejected", len(failed)))

	writeJSON(w, types.ExtenderFilterResult{
		Nodes:       accepted,
		FailedNodes: failed,
		Error:       nil,
	})
}

func (s *Server) handlePrioritize(w http.ResponseWriter, r *http.Request) {
	defer s.observe("prioritize", time.Now())
	requestID := uuid.NewString()

	var args types.ExtenderArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		s.logger.Warn("malformed prioritize request",
			zap.String("request_id", requestID), zap.Error(err))
		writeJSON(w, types.ExtenderPrioritizeResult{HostPriorities: []types.HostPriority{}})
		return
	}

	candidates := candidatesFrom(args.Nodes)
	if len(candidates) == 0 {
		writeJSON(w, types.ExtenderPrioritizeResult{HostPriorities: []types.HostPriority{}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	pod := podRequestFrom(args.Pod)
	req := &types.PredictionRequest{
		Pod:            pod,
		CandidateNodes: candidates,
		ExistingPods:   s.harvestExistingPods(ctx, pod.Namespace, requestID),
	}

	resp, err := s.backend.Score(ctx, req)
	if err != nil {
		s.logger.Warn("scoring backend failed, returning uniform scores",
			zap.String("request_id", requestID),
			zap.String("pod", req.Pod.Name),
			zap.Error(err))
		uniformFallbacks.Inc()
		writeJSON(w, uniformPriorities(candidates))
		return
	}

	priorities := make([]types.HostPriority, 0, len(candidates))
	for _, node := range candidates {
		score, ok := resp.NodeScores[node.Name]
		if !ok {
			priorities = append(priorities, types.HostPriority{Host: node.Name, Score: neutralScore})
			continue
		}
		priorities = append(priorities, types.HostPriority{
			Host:  node.Name,
			Score: int(math.Round(score * 10)),
		})
	}

	s.logger.Info("prioritized candidate nodes",
		zap.String("request_id", requestID),
		zap.String("pod", req.Pod.Name),
		zap.String("pod_type", string(req.Pod.PodType)),
		zap.String("recommended", resp.RecommendedNode),
		zap.String("model_version", resp.ModelVersion),
		zap.Int("candidates", len(candidates)))

	writeJSON(w, types.ExtenderPrioritizeResult{HostPriorities: priorities})
}

func (s *Server) handleBind(w http.ResponseWriter, r *http.Request) {
	defer s.observe("bind", time.Now())

	// Pass-through: the default binder performs the actual bind.
	var args types.ExtenderBindingArgs
	if err := json.NewDecoder(r.Body).Decode(&args); err == nil {
		s.logger.Info("bind pass-through",
			zap.String("pod", args.PodName),
			zap.String("namespace", args.PodNamespace),
			zap.String("node", args.Node))
	}
	writeJSON(w, types.ExtenderBindingResult{Error: nil})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	defer s.observe("health", time.Now())

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	writeJSON(w, map[string]any{
		"status":                     "ok",
		"inference_server_available": s.backend.Healthy(ctx),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"service":   "placement-extender",
		"endpoints": []string{"/filter", "/prioritize", "/bind", "/health", "/metrics"},
	})
}

// harvestExistingPods lists the placed pods in the pod's own namespace for
// the affinity and density features; same-type counting is namespace-scoped.
// Best effort: an inventory failure degrades the features, never the
// request.
func (s *Server) harvestExistingPods(ctx context.Context, namespace, requestID string) []types.ExistingPod {
	if s.inv == nil {
		return nil
	}
	pods, err := s.inv.ExistingPods(ctx, namespace)
	if err != nil {
		s.logger.Debug("existing pod harvest failed",
			zap.String("request_id", requestID), zap.Error(err))
		return nil
	}
	return pods
}

func (s *Server) observe(endpoint string, start time.Time) {
	requestsTotal.WithLabelValues(endpoint).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func uniformPriorities(candidates []types.NodeCandidate) types.ExtenderPrioritizeResult {
	priorities := make([]types.HostPriority, 0, len(candidates))
	for _, node := range candidates {
		priorities = append(priorities, types.HostPriority{Host: node.Name, Score: neutralScore})
	}
	return types.ExtenderPrioritizeResult{HostPriorities: priorities}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Connection-level failure; nothing useful left to do.
		return
	}
}
