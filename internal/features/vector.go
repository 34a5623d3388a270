package features

// Dim is the fixed width of a feature vector.
const Dim = 11

// Vector is the per-(pod,node) feature set. Field order is a binding
// contract shared by the heuristic scorer, trained model artifacts and the
// exported feature-name list; reordering breaks every trained model.
type Vector struct {
	CPUAvailableRatio          float64
	MemoryAvailableRatio       float64
	NetworkLatencyNormalized   float64
	CPULoadAvg                 float64
	MemoryLoadAvg              float64
	PodDensity                 float64
	BalanceScore               float64
	OverloadPenalty            float64
	LabelCompatibility         float64
	PodTypeScore               float64
	SameTypePodCountNormalized float64
}

// Values returns the vector as a slice in the contract order.
func (v Vector) Values() []float64 {
	return []float64{
		v.CPUAvailableRatio,
		v.MemoryAvailableRatio,
		v.NetworkLatencyNormalized,
		v.CPULoadAvg,
		v.MemoryLoadAvg,
		v.PodDensity,
		v.BalanceScore,
		v.OverloadPenalty,
		v.LabelCompatibility,
		v.PodTypeScore,
		v.SameTypePodCountNormalized,
	}
}

// FromValues rebuilds a Vector from a slice in the contract order. The
// second return is false when the slice has the wrong width.
func FromValues(values []float64) (Vector, bool) {
	if len(values) != Dim {
		return Vector{}, false
	}
	return Vector{
		CPUAvailableRatio:          values[0],
		MemoryAvailableRatio:       values[1],
		NetworkLatencyNormalized:   values[2],
		CPULoadAvg:                 values[3],
		MemoryLoadAvg:              values[4],
		PodDensity:                 values[5],
		BalanceScore:               values[6],
		OverloadPenalty:            values[7],
		LabelCompatibility:         values[8],
		PodTypeScore:               values[9],
		SameTypePodCountNormalized: values[10],
	}, true
}

// Names returns the feature names in the contract order.
func Names() []string {
	return []string{
		"cpu_available_ratio",
		"memory_available_ratio",
		"network_latency_normalized",
		"cpu_load_avg",
		"memory_load_avg",
		"pod_density",
		"balance_score",
		"overload_penalty",
		"label_compatibility",
		"pod_type_score",
		"same_type_pod_count_normalized",
	}
}
