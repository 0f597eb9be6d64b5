package scup

import (
	"math"
	"testing"
)

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestBasic_Formula(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want float64
	}{
		{
			name: "optimal pressure, zero entropy",
			// pressure_response = 1.0, entropy_factor = 1.0
			v:    Vector{BaseCoherence: 0.8, PressureLevel: 0.4},
			want: 0.8,
		},
		{
			name: "zero pressure attenuates",
			// pressure_response = 1 - 0.4*1.5 = 0.4
			v:    Vector{BaseCoherence: 0.5, PressureLevel: 0},
			want: 0.2,
		},
		{
			name: "full entropy kills the score",
			// entropy_factor = 1 - 1^1.5 = 0
			v:    Vector{BaseCoherence: 1.0, PressureLevel: 0.4, Entropy: 1.0},
			want: 0,
		},
		{
			name: "pressure response floor",
			// |(-1) - 0.4| * 1.5 = 2.1 > 1 — floored at 0.1
			v:    Vector{BaseCoherence: 1.0, PressureLevel: -1},
			want: 0.1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Basic(tc.v)
			if !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("Basic = %.12f, want %.12f", got, tc.want)
			}
		})
	}
}

// TestEnhanced_GoldenValue pins the enhanced score on all-default inputs.
// Any change to the formula or its constants must move this value and is
// therefore caught here.
func TestEnhanced_GoldenValue(t *testing.T) {
	const want = 0.3748723901898832

	got := Enhanced(DefaultVector())
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("Enhanced(defaults) = %.16f, want %.16f", got, want)
	}
}

func TestCalculators_Bounded(t *testing.T) {
	// Sweep a grid of extreme and mid-range inputs; every calculator must
	// stay inside [0,1].
	grid := []float64{-2, -1, 0, 0.25, 0.5, 0.75, 1, 2}

	for _, bc := range grid {
		for _, p := range grid {
			for _, e := range grid {
				v := Vector{
					BaseCoherence:       bc,
					PressureLevel:       p,
					Entropy:             e,
					BloomRatio:          e,
					NutrientBalance:     bc + 1,
					ConsciousnessDepth:  p,
					TemporalStability:   e + 0.5,
					RhizomeConnectivity: bc,
				}.Normalized()

				for name, got := range map[string]float64{
					"Basic":    Basic(v),
					"Enhanced": Enhanced(v),
					"Recovery": Recovery(v, []float64{0.1, 0.2, 0.3}),
				} {
					if got < 0 || got > 1 {
						t.Fatalf("%s(%+v) = %v out of [0,1]", name, v, got)
					}
				}
			}
		}
	}
}

func TestRecovery_EmptyHistory(t *testing.T) {
	v := DefaultVector()
	if got, want := Recovery(v, nil), Enhanced(v); got != want {
		t.Errorf("Recovery with no history = %v, want Enhanced value %v", got, want)
	}
}

// TestRecovery_BoostDuringClimb checks the core recovery property: while the
// rolling average is depressed (<0.3) and the instantaneous score is
// climbing, Recovery must exceed Enhanced at every step.
func TestRecovery_BoostDuringClimb(t *testing.T) {
	var history []float64

	for i := 0; i < 8; i++ {
		v := Vector{
			BaseCoherence:       0.1 + 0.1*float64(i),
			PressureLevel:       0,
			Entropy:             0.9,
			NutrientBalance:     1,
			ConsciousnessDepth:  0.5,
			TemporalStability:   1,
			RhizomeConnectivity: 0.5,
		}.Normalized()

		enhanced := Enhanced(v)
		recovered := Recovery(v, history)

		if enhanced >= 0.3 {
			t.Fatalf("step %d: enhanced score %v escaped the depressed band — bad fixture", i, enhanced)
		}
		if len(history) > 0 && recovered <= enhanced {
			t.Errorf("step %d: Recovery = %v, want > Enhanced %v", i, recovered, enhanced)
		}

		history = append(history, recovered)
	}
}

func TestRecovery_PlateauBonus(t *testing.T) {
	// Average 0.7, current within 0.1 of it: flat +0.05, then the momentum
	// bonus on top since the boosted value exceeds the previous sample.
	history := []float64{0.7, 0.7, 0.7, 0.7, 0.7}

	v := DefaultVector()
	v.BaseCoherence = 0.95
	v.PressureLevel = 0.4
	nv := v.Normalized()

	enhanced := Enhanced(nv)
	if d := math.Abs(enhanced - 0.7); d >= 0.1 {
		t.Fatalf("fixture drifted: Enhanced = %v, want within 0.1 of 0.7", enhanced)
	}

	got := Recovery(nv, history)
	boosted := enhanced + 0.05
	want := boosted + (boosted-history[len(history)-1])*momentumWeight
	if want > 1 {
		want = 1
	}
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("Recovery = %.12f, want %.12f", got, want)
	}
}

// TestRecovery_NoMomentumPenalty pins the asymmetric momentum term: a score
// falling below the previous sample takes no deduction.
func TestRecovery_NoMomentumPenalty(t *testing.T) {
	// History is mid-band (avg 0.45): neither the recovery boost nor the
	// plateau bonus applies, isolating the momentum term.
	history := []float64{0.5, 0.45, 0.4}

	v := DefaultVector() // Enhanced(defaults) ≈ 0.375, below history[-1]
	nv := v.Normalized()

	if got, want := Recovery(nv, history), Enhanced(nv); got != want {
		t.Errorf("Recovery with negative momentum = %v, want unchanged %v", got, want)
	}
}

func TestLegacy_MatchesBasicWithDefaults(t *testing.T) {
	got := Legacy(0.8, 0.3, 0.2)

	v := DefaultVector()
	v.BaseCoherence = 0.8
	v.Entropy = 0.3
	v.PressureLevel = 0.2
	want := Basic(v)

	if got != want {
		t.Errorf("Legacy = %v, want %v", got, want)
	}
}

func TestNormalized_Clamps(t *testing.T) {
	v := Vector{
		BaseCoherence:       1.7,
		PressureLevel:       -3,
		Entropy:             -0.2,
		BloomRatio:          2,
		NutrientBalance:     5,
		ConsciousnessDepth:  -1,
		TemporalStability:   9,
		RhizomeConnectivity: 1.1,
	}.Normalized()

	want := Vector{
		BaseCoherence:       1,
		PressureLevel:       -1,
		Entropy:             0,
		BloomRatio:          1,
		NutrientBalance:     2,
		ConsciousnessDepth:  0,
		TemporalStability:   2,
		RhizomeConnectivity: 1,
	}
	if v != want {
		t.Errorf("Normalized = %+v, want %+v", v, want)
	}
}
