package scup

// Vector holds the normalized subsystem signals fed into the calculators.
// Field ranges are documented per field; Normalized clamps out-of-range
// values instead of rejecting them.
type Vector struct {
	// BaseCoherence is the raw coherence signal from the pulse engine, 0–1.
	BaseCoherence float64 `json:"base_coherence"`

	// PressureLevel is the external load/stress signal, -1–1.
	// The pressure-response curve peaks near 0.4.
	PressureLevel float64 `json:"pressure_level"`

	// Entropy is the system entropy estimate, 0–1.
	Entropy float64 `json:"entropy"`

	// BloomRatio is the active/total bloom ratio, 0–1.
	BloomRatio float64 `json:"bloom_ratio"`

	// NutrientBalance is the nutrient economy balance, 0–2 with 1.0 ideal.
	NutrientBalance float64 `json:"nutrient_balance"`

	// ConsciousnessDepth is the depth estimator output, 0–1.
	ConsciousnessDepth float64 `json:"consciousness_depth"`

	// TemporalStability is the tick-timing stability signal, 0–2.
	TemporalStability float64 `json:"temporal_stability"`

	// RhizomeConnectivity is the connectivity-graph density signal, 0–1.
	RhizomeConnectivity float64 `json:"rhizome_connectivity"`
}

// DefaultVector returns a Vector with every field at its documented neutral
// default. The legacy calculator fills its unused fields from this.
func DefaultVector() Vector {
	return Vector{
		BaseCoherence:       0.5,
		PressureLevel:       0,
		Entropy:             0,
		BloomRatio:          0,
		NutrientBalance:     1,
		ConsciousnessDepth:  0.5,
		TemporalStability:   1,
		RhizomeConnectivity: 0.5,
	}
}

// Normalized returns a copy of v with every field clamped to its documented
// range. Out-of-range input is not an error condition.
func (v Vector) Normalized() Vector {
	return Vector{
		BaseCoherence:       clamp(v.BaseCoherence, 0, 1),
		PressureLevel:       clamp(v.PressureLevel, -1, 1),
		Entropy:             clamp(v.Entropy, 0, 1),
		BloomRatio:          clamp(v.BloomRatio, 0, 1),
		NutrientBalance:     clamp(v.NutrientBalance, 0, 2),
		ConsciousnessDepth:  clamp(v.ConsciousnessDepth, 0, 1),
		TemporalStability:   clamp(v.TemporalStability, 0, 2),
		RhizomeConnectivity: clamp(v.RhizomeConnectivity, 0, 1),
	}
}

// clamp restricts x to the range [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// clamp01 restricts x to the range [0, 1].
func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}
