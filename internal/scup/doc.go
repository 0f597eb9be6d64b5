// Package scup implements the SCUP (Semantic Coherence Under Pressure)
// scoring and classification engine.
//
// vector.go defines the 8-field input vector and its clamping normalizer.
// score.go provides the pure calculators: Basic (coherence × pressure-response
// × entropy), Enhanced (adds bloom/nutrient/temporal factors, depth and
// connectivity bonuses, tanh squash) and Recovery (Enhanced plus history-based
// recovery boost and momentum bonus). All return values in [0,1].
//
// zone.go maps (score, pressure) to one of six zones. The ladder is
// crystalline ≥0.8, flow ≥0.6, adaptive ≥0.4, turbulent ≥0.2, critical below
// — with a transcendent override for score >0.95 under near-zero pressure.
//
// tracker.go holds the bounded FIFO history (values, zones, timestamps, a
// transition event log) behind a single mutex; Track() is atomic end to end.
// analytics.go derives stability, volatility, recovery potential, gradient,
// pressure response, zone stability, time-in-zone and windowed averages from
// the tracker's buffers, each with an explicit neutral default when the
// history is too short.
//
// engine.go is the facade callers hold: Compute runs calculator → tracker →
// analytics → recommendations in one call; Report summarizes the session;
// Log emits a value with its zone and invokes the anomaly hook below 0.2.
package scup
