package scup

// Input thresholds for the signal-based recommendation rules.
const (
	lowNutrientThreshold     = 0.5
	lowConnectivityThreshold = 0.3
	lowTemporalThreshold     = 0.5
	highEntropyThreshold     = 0.6
	lowStabilityThreshold    = 0.5
	lowPressureThreshold     = 0.2
)

// Recommend evaluates the rule table top to bottom and returns every
// matching rule's text in order. Rules are not mutually exclusive; the
// result may be empty.
//
// input may be nil when the caller tracked a bare score; the input-dependent
// rules are then skipped.
func Recommend(zone Zone, stability float64, input *Vector) []string {
	var recs []string

	switch zone {
	case ZoneCritical:
		recs = append(recs,
			"URGENT: Reduce entropy sources and stabilize pressure",
			"Activate recovery protocols",
		)
	case ZoneTurbulent:
		recs = append(recs, "Monitor closely and reduce system variability")
		if input != nil && input.Entropy > highEntropyThreshold {
			recs = append(recs, "High entropy detected - consider entropy reduction")
		}
	case ZoneAdaptive:
		recs = append(recs, "System adapting well - maintain current trajectory")
		if stability < lowStabilityThreshold {
			recs = append(recs, "Improve stability through consistent operations")
		}
	case ZoneFlow:
		recs = append(recs, "Optimal flow state - maintain current parameters")
	case ZoneCrystalline:
		recs = append(recs, "Excellent coherence - system performing optimally")
		if input != nil && input.PressureLevel < lowPressureThreshold {
			recs = append(recs, "Consider slight pressure increase for optimal performance")
		}
	}

	if input != nil {
		if input.NutrientBalance < lowNutrientThreshold {
			recs = append(recs, "Replenish nutrient reserves")
		}
		if input.RhizomeConnectivity < lowConnectivityThreshold {
			recs = append(recs, "Strengthen rhizome connections")
		}
		if input.TemporalStability < lowTemporalThreshold {
			recs = append(recs, "Synchronize temporal processes")
		}
	}

	return recs
}
