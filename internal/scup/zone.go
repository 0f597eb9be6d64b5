package scup

import (
	"fmt"
	"math"
)

// Zone is the qualitative classification of a SCUP score.
type Zone int

// Zones in ascending order of health. ZoneTranscendent sits outside the
// ladder — it requires both a near-perfect score and near-zero pressure.
const (
	ZoneCritical Zone = iota
	ZoneTurbulent
	ZoneAdaptive
	ZoneFlow
	ZoneCrystalline
	ZoneTranscendent
)

// Score thresholds for the classification ladder.
const (
	crystallineThreshold  = 0.8
	flowThreshold         = 0.6
	adaptiveThreshold     = 0.4
	turbulentThreshold    = 0.2
	transcendentThreshold = 0.95
	transcendentPressure  = 0.1
)

var zoneNames = [...]string{
	ZoneCritical:     "critical",
	ZoneTurbulent:    "turbulent",
	ZoneAdaptive:     "adaptive",
	ZoneFlow:         "flow",
	ZoneCrystalline:  "crystalline",
	ZoneTranscendent: "transcendent",
}

// String returns the canonical lowercase zone name.
func (z Zone) String() string {
	if z < 0 || int(z) >= len(zoneNames) {
		return fmt.Sprintf("zone(%d)", int(z))
	}
	return zoneNames[z]
}

// MarshalText implements encoding.TextMarshaler so zones serialize as their
// canonical lowercase names in JSON and YAML.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (z *Zone) UnmarshalText(text []byte) error {
	for i, name := range zoneNames {
		if name == string(text) {
			*z = Zone(i)
			return nil
		}
	}
	return fmt.Errorf("scup: unknown zone %q", text)
}

// Classify maps a score and pressure level to a Zone.
//
// The transcendent check runs first and overrides the ladder: it requires
// score above 0.95 with absolute pressure below 0.1. Otherwise the score
// falls through the threshold ladder. Classification is pure and stateless;
// transition bookkeeping lives in the Tracker.
func Classify(score, pressure float64) Zone {
	if score > transcendentThreshold && math.Abs(pressure) < transcendentPressure {
		return ZoneTranscendent
	}
	switch {
	case score >= crystallineThreshold:
		return ZoneCrystalline
	case score >= flowThreshold:
		return ZoneFlow
	case score >= adaptiveThreshold:
		return ZoneAdaptive
	case score >= turbulentThreshold:
		return ZoneTurbulent
	default:
		return ZoneCritical
	}
}
