package scup

import "math"

// Tuning constants for the pressure-response curve. Coherence survives best
// under moderate pressure; the curve peaks at optimalPressure and falls off
// linearly on both sides, never below pressureFloor.
const (
	optimalPressure = 0.4
	pressureFalloff = 1.5
	pressureFloor   = 0.1
	entropyExponent = 1.5
)

// Factor weights for the enhanced calculator.
const (
	bloomFactorBase    = 0.7
	bloomFactorSpan    = 0.3
	nutrientPenalty    = 0.5
	temporalFactorBase = 0.8
	temporalFactorSpan = 0.2
	depthBonusWeight   = 0.2
	connectivityWeight = 0.15
	squashGain         = 1.2
	squashScale        = 0.9
	squashOffset       = 0.05
)

// Recovery-boost constants. The boost activates when the recent average is
// depressed and the instantaneous score is already climbing; the plateau
// bonus rewards holding a high, steady score.
const (
	recoveryWindow      = 10
	lowAverageThreshold = 0.3
	recoveryBoostFactor = 0.5
	plateauThreshold    = 0.6
	plateauBand         = 0.1
	plateauBonus        = 0.05
	momentumWeight      = 0.1
)

// Basic computes the three-factor SCUP score: base coherence attenuated by
// the pressure-response curve and the entropy factor. Result is in [0,1].
func Basic(v Vector) float64 {
	pressureResponse := math.Max(1.0-math.Abs(v.PressureLevel-optimalPressure)*pressureFalloff, pressureFloor)
	entropyFactor := 1.0 - math.Pow(v.Entropy, entropyExponent)
	return clamp01(v.BaseCoherence * pressureResponse * entropyFactor)
}

// Enhanced extends Basic with the bloom, nutrient and temporal factors, the
// depth and connectivity bonuses, and a tanh squash that keeps the result
// away from the hard 0/1 rails. Result is in [0,1].
func Enhanced(v Vector) float64 {
	score := Basic(v)

	score *= bloomFactorBase + bloomFactorSpan*v.BloomRatio
	score *= 1.0 - math.Abs(v.NutrientBalance-1.0)*nutrientPenalty
	score *= temporalFactorBase + temporalFactorSpan*v.TemporalStability

	score += v.ConsciousnessDepth * depthBonusWeight
	score += v.RhizomeConnectivity * connectivityWeight

	score = math.Tanh(score*squashGain)*squashScale + squashOffset
	return clamp01(score)
}

// Recovery computes Enhanced and then applies history-aware corrections:
// a recovery boost when climbing out of a depressed stretch, a plateau bonus
// when holding steady at a high level, and a momentum bonus when the score
// improved since the previous sample. The momentum term is deliberately
// asymmetric — decline carries no penalty.
//
// history is the value buffer oldest-first; an empty history returns
// Enhanced(v) unchanged. Result is in [0,1].
func Recovery(v Vector, history []float64) float64 {
	current := Enhanced(v)
	if len(history) == 0 {
		return current
	}

	recent := history
	if len(recent) > recoveryWindow {
		recent = recent[len(recent)-recoveryWindow:]
	}
	var sum float64
	for _, s := range recent {
		sum += s
	}
	avg := sum / float64(len(recent))

	switch {
	case avg < lowAverageThreshold && current > avg:
		current += (current - avg) * recoveryBoostFactor
	case avg > plateauThreshold && math.Abs(current-avg) < plateauBand:
		current += plateauBonus
	}

	if len(history) >= 2 {
		if momentum := current - history[len(history)-1]; momentum > 0 {
			current += momentum * momentumWeight
		}
	}

	return clamp01(current)
}

// Legacy computes the score from the original three-argument signature.
// The remaining vector fields take their documented defaults.
func Legacy(baseCoherence, entropy, pressure float64) float64 {
	v := DefaultVector()
	v.BaseCoherence = baseCoherence
	v.Entropy = entropy
	v.PressureLevel = pressure
	return Basic(v.Normalized())
}
