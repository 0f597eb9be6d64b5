// Package alerts implements the threshold alert engine for scupd.
//
// Engine.Evaluate tests every configured rule against a score result.
// Conditions are simple "field operator value" expressions over the result
// fields (value, stability, volatility, recovery_potential,
// pressure_response, coherence_gradient, zone_stability) plus
// "zone == <name>". Firing alerts deduplicate per rule name, respect a
// per-rule cooldown (default 15m) and resolve automatically when the
// condition clears.
//
// Engine.Anomaly raises a synthetic critical alert outside the rule table;
// the scoring engine's low-value hook is wired to it. No rule condition
// covers these alerts, so they resolve by TTL (10m) instead.
//
// Webhook delivery supports slack, teams and plain http targets; URLs are
// resolved from environment variables so they never live in config files.
package alerts
