// Package api implements the HTTP REST API for scupd.
//
// New(engine, alerts) returns an http.Handler that serves:
//
//	POST /api/v1/compute  — score one input vector, track it, return the result
//	GET  /api/v1/report   — session summary; 404 until the first compute
//	GET  /api/v1/zone     — current zone and time spent in it
//	GET  /api/v1/events   — recent zone-transition events (?n= to bound)
//	GET  /api/v1/alerts   — firing alerts plus recently resolved ones
//	GET  /api/v1/legacy   — original three-argument calculator, untracked
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for unsupported methods
//   - Return errors as {"error": "..."}
//
// Before any vector has been computed, report and zone answer 404 with the
// body {"error": "No data tracked yet"} so dashboards can show an empty state
// instead of zeros. JSON types are defined in types.go. No external HTTP
// framework is used.
package api
