package types

import (
	corev1 "k8s.io/api/core/v1"
)

// PodType is the network-function workload category attached to a pod via the
// pod_type label. It is a priority signal for scoring, not an admission gate.
type PodType string

const (
	PodTypeUPF   PodType = "UPF"
	PodTypeSMF   PodType = "SMF"
	PodTypeCU    PodType = "CU"
	PodTypeDU    PodType = "DU"
	PodTypeUnset PodType = ""
)

// PodTypeFromLabel maps the raw pod_type label value onto the known types.
// Unknown values are kept as-is so same-type counting still works for them;
// only the type score falls back to neutral.
func PodTypeFromLabel(value string) PodType {
	return PodType(value)
}

// PodRequest describes the pod being placed. Immutable, built once per request.
type PodRequest struct {
	Name          string            `json:"name"`
	Namespace     string            `json:"namespace"`
	CPURequest    float64           `json:"cpu_request"`
	MemoryRequest float64           `json:"memory_request"`
	Labels        map[string]string `json:"labels,omitempty"`
	Annotations   map[string]string `json:"annotations,omitempty"`
	PodType       PodType           `json:"pod_type,omitempty"`
}

// NodeCandidate describes one node under evaluation. NetworkLatency is in
// milliseconds; nil means unmeasured, which the feature pipeline maps to an
// explicit neutral rather than a zero.
type NodeCandidate struct {
	Name            string            `json:"name"`
	CPUAvailable    float64           `json:"cpu_available"`
	MemoryAvailable float64           `json:"memory_available"`
	CPUCapacity     float64           `json:"cpu_capacity"`
	MemoryCapacity  float64           `json:"memory_capacity"`
	Labels          map[string]string `json:"labels,omitempty"`
	Taints          []corev1.Taint    `json:"taints,omitempty"`
	NetworkLatency  *float64          `json:"network_latency,omitempty"`
}

// ExistingPod is a pod already scheduled somewhere in the cluster, used for
// pod-density and same-type affinity features.
type ExistingPod struct {
	Name          string  `json:"name"`
	Namespace     string  `json:"namespace"`
	Node          string  `json:"node"`
	Type          PodType `json:"type,omitempty"`
	CPURequest    float64 `json:"cpu_request"`
	MemoryRequest float64 `json:"memory_request"`
}

// PredictionRequest is the scoring backend contract: one pod, its candidate
// set, and the already-placed pods for context.
type PredictionRequest struct {
	Pod            PodRequest      `json:"pod"`
	CandidateNodes []NodeCandidate `json:"candidate_nodes"`
	ExistingPods   []ExistingPod   `json:"existing_pods,omitempty"`
}

// PredictionResponse carries node scores in [0,1], higher is better.
// RecommendedNode is the argmax, first occurrence winning ties.
type PredictionResponse struct {
	NodeScores      map[string]float64 `json:"node_scores"`
	RecommendedNode string             `json:"recommended_node,omitempty"`
	ModelVersion    string             `json:"model_version"`
	FeaturesUsed    []string           `json:"features_used,omitempty"`
}

// ExtenderArgs is the request body kube-scheduler posts to /filter and
// /prioritize.
type ExtenderArgs struct {
	Pod   *corev1.Pod      `json:"pod,omitempty"`
	Nodes *corev1.NodeList `json:"nodes,omitempty"`
}

// FailedNode reports one node rejected by the admission filter.
type FailedNode struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ExtenderFilterResult is the /filter response body.
type ExtenderFilterResult struct {
	Nodes       corev1.NodeList `json:"nodes"`
	FailedNodes []FailedNode    `json:"failedNodes"`
	Error       *string         `json:"error"`
}

// HostPriority is one entry of the /prioritize response; Score is the
// scheduler-visible integer in [0,10].
type HostPriority struct {
	Host  string `json:"host"`
	Score int    `json:"score"`
}

// ExtenderPrioritizeResult is the /prioritize response body.
type ExtenderPrioritizeResult struct {
	HostPriorities []HostPriority `json:"hostPriorities"`
	Error          *string        `json:"error"`
}

// ExtenderBindingArgs is the request body kube-scheduler posts to /bind.
type ExtenderBindingArgs struct {
	PodName      string `json:"podName"`
	PodNamespace string `json:"podNamespace"`
	PodUID       string `json:"podUID"`
	Node         string `json:"node"`
}

// ExtenderBindingResult is the /bind response body. Binding is a
// pass-through here; the default binder performs the actual bind.
type ExtenderBindingResult struct {
	Error *string `json:"error"`
}
