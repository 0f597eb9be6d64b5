// Package metrics exposes the session state as a Prometheus text exposition.
//
// New(engine) returns the handler mounted at /metrics. Each scrape renders:
//
//	scup_value                      gauge — most recent composite score
//	scup_stability_index            gauge — inverse-variance stability
//	scup_volatility                 gauge — mean absolute score delta
//	scup_zone_stability             gauge — zone-diversity stability
//	scup_zone{zone="..."}           gauge — current zone (constant 1)
//	scup_time_in_zone_seconds       gauge
//	scup_session_duration_seconds   gauge
//	scup_total_calculations_total   counter
//	scup_zone_transitions_total     counter
//
// The families are encoded with expfmt rather than a registry: every value
// already lives in the engine's tracker, so a second copy behind
// prometheus.Collector would only drift.
package metrics
