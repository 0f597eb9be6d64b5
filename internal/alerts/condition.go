package alerts

import (
	"strconv"
	"strings"

	"github.com/scuplab/scupd/internal/scup"
)

// evalCondition evaluates a rule condition string against a score result.
//
// Supported expressions (field operator value):
//
//	value < 0.2
//	stability < 0.3
//	volatility > 0.25
//	recovery_potential < 0.4
//	pressure_response < 0.5
//	coherence_gradient < -0.1
//	zone == critical
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, res *scup.Result) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "zone" {
		if op == "==" {
			return res.Zone.String() == rhs, res.Value
		}
		return false, 0
	}

	v, ok := numericField(field, res)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the result.
func numericField(field string, res *scup.Result) (float64, bool) {
	switch field {
	case "value":
		return res.Value, true
	case "stability":
		return res.StabilityIndex, true
	case "volatility":
		return res.Diagnostics.Volatility, true
	case "recovery_potential":
		return res.RecoveryPotential, true
	case "pressure_response":
		return res.PressureResponse, true
	case "coherence_gradient":
		return res.CoherenceGradient, true
	case "zone_stability":
		return res.Diagnostics.ZoneStability, true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
