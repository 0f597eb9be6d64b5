package scup

import (
	"math"
	"time"
)

// Minimum sample counts below which each analytic returns its neutral
// default instead of computing. Underflow is never an error.
const (
	minSamplesStability  = 10
	minSamplesRecovery   = 5
	minSamplesGradient   = 2
	minSamplesResponse   = 2
	minSamplesVolatility = 10
	minSamplesZoneStable = 10
)

// Window lengths for the history-derived analytics.
const (
	stabilityWindow  = 50
	trendWindow      = 20
	volatilityWindow = 30
	zoneWindow       = 30

	shortAvgWindow = 60 * time.Second
	longAvgWindow  = 300 * time.Second
)

// Neutral defaults returned when the history is too short.
const (
	neutralMidpoint = 0.5 // stability, recovery potential, pressure response
	neutralZero     = 0.0 // gradient, volatility
)

// stabilityIndex measures how settled the recent score history is: 1 minus
// the (scaled, capped) variance of the last stabilityWindow values.
func stabilityIndex(values []float64) float64 {
	if len(values) < minSamplesStability {
		return neutralMidpoint
	}
	recent := tail(values, stabilityWindow)
	v := variance(recent)
	return 1.0 - math.Min(v*10, 1.0)
}

// recoveryPotential estimates headroom for the score to climb, combining the
// recent trend with the distance from a perfect score. Negative trends pull
// the estimate down.
func recoveryPotential(values []float64, current float64) float64 {
	if len(values) < minSamplesRecovery {
		return neutralMidpoint
	}
	recent := tail(values, trendWindow)
	trend := (recent[len(recent)-1] - recent[0]) / float64(len(recent))
	return clamp01(0.5 + trend*5 + (1.0-current)*0.3)
}

// coherenceGradient is the instantaneous score delta: latest minus previous.
func coherenceGradient(values []float64) float64 {
	if len(values) < minSamplesGradient {
		return neutralZero
	}
	return values[len(values)-1] - values[len(values)-2]
}

// pressureResponse measures how little the score moved relative to the
// applied pressure. Under near-zero pressure the raw score change is scaled
// up instead, so an idle system still reports its jitter.
func pressureResponse(values []float64, input *Vector) float64 {
	if input == nil || len(values) < minSamplesResponse {
		return neutralMidpoint
	}
	change := math.Abs(values[len(values)-1] - values[len(values)-2])
	pressure := math.Abs(input.PressureLevel)

	var response float64
	if pressure > 0.1 {
		response = 1.0 - change/pressure
	} else {
		response = 1.0 - change*10
	}
	return clamp01(response)
}

// volatility is the mean absolute step between adjacent samples over the
// last volatilityWindow values.
func volatility(values []float64) float64 {
	if len(values) < minSamplesVolatility {
		return neutralZero
	}
	recent := tail(values, volatilityWindow)
	var sum float64
	for i := 1; i < len(recent); i++ {
		sum += math.Abs(recent[i] - recent[i-1])
	}
	return sum / float64(len(recent)-1)
}

// zoneStability scores how few distinct zones appeared in the recent window:
// one zone scores 1.0, each additional zone costs 0.2.
func zoneStability(zones []Zone) float64 {
	if len(zones) < minSamplesZoneStable {
		return neutralMidpoint
	}
	recent := zones
	if len(recent) > zoneWindow {
		recent = recent[len(recent)-zoneWindow:]
	}
	var seen [len(zoneNames)]bool
	unique := 0
	for _, z := range recent {
		if !seen[z] {
			seen[z] = true
			unique++
		}
	}
	return clamp01(1.0 - float64(unique-1)/5.0)
}

// timeInZone reports how long the current zone has been held: the span from
// the earliest contiguous matching sample to now. Zero with no history.
func timeInZone(zones []Zone, stamps []time.Time, now time.Time) time.Duration {
	if len(zones) == 0 {
		return 0
	}
	current := zones[len(zones)-1]
	entered := stamps[len(stamps)-1]
	for i := len(zones) - 1; i >= 0 && zones[i] == current; i-- {
		entered = stamps[i]
	}
	return now.Sub(entered)
}

// windowedAverage is the mean of values whose timestamp falls within window
// of now, scanning backward until the boundary is exceeded. Falls back to
// the single latest value when nothing lands in the window.
func windowedAverage(values []float64, stamps []time.Time, now time.Time, window time.Duration) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	n := 0
	for i := len(values) - 1; i >= 0; i-- {
		if now.Sub(stamps[i]) > window {
			break
		}
		sum += values[i]
		n++
	}
	if n == 0 {
		return values[len(values)-1]
	}
	return sum / float64(n)
}

// tail returns the last n elements of values, or all of them if shorter.
func tail(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}

// variance is the population variance of values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
