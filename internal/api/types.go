package api

import (
	"github.com/scuplab/scupd/internal/scup"
)

// errorResponse is the JSON error shape used by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// noDataMessage is the sentinel body served while the tracker is empty.
// Callers branch on this exact shape.
const noDataMessage = "No data tracked yet"

// ComputeRequest is the body of POST /api/v1/compute: the 8-field input
// vector plus an optional calculator selection. Omitted use_recovery means
// the engine's configured default.
type ComputeRequest struct {
	scup.Vector
	UseRecovery *bool `json:"use_recovery"`
}

// ResultResponse is the JSON form of one computed score result.
type ResultResponse struct {
	Value             float64             `json:"value"`
	Zone              string              `json:"zone"`
	StabilityIndex    float64             `json:"stability_index"`
	RecoveryPotential float64             `json:"recovery_potential"`
	CoherenceGradient float64             `json:"coherence_gradient"`
	PressureResponse  float64             `json:"pressure_response"`
	Recommendations   []string            `json:"recommendations"`
	Diagnostics       DiagnosticsResponse `json:"diagnostics"`
}

// DiagnosticsResponse carries the windowed metrics with durations in seconds.
type DiagnosticsResponse struct {
	Avg1Min                float64 `json:"avg_1min"`
	Avg5Min                float64 `json:"avg_5min"`
	Volatility             float64 `json:"volatility"`
	ZoneStability          float64 `json:"zone_stability"`
	TimeInZoneSeconds      float64 `json:"time_in_zone_seconds"`
	SessionDurationSeconds float64 `json:"session_duration_seconds"`
}

// ReportResponse is the JSON form of the session report.
type ReportResponse struct {
	SessionID              string   `json:"session_id"`
	CurrentScup            float64  `json:"current_scup"`
	AverageScup            float64  `json:"average_scup"`
	MinScup                float64  `json:"min_scup"`
	MaxScup                float64  `json:"max_scup"`
	Zone                   string   `json:"zone"`
	TotalCalculations      int64    `json:"total_calculations"`
	ZoneTransitions        int64    `json:"zone_transitions"`
	SessionDurationSeconds float64  `json:"session_duration_seconds"`
	Volatility             float64  `json:"volatility"`
	Stability              float64  `json:"stability"`
	ZoneStability          float64  `json:"zone_stability"`
	TimeInZoneSeconds      float64  `json:"time_in_zone_seconds"`
	RecentEvents           []string `json:"recent_events"`
}

// ZoneResponse is the JSON form of GET /api/v1/zone.
type ZoneResponse struct {
	Zone              string  `json:"zone"`
	TimeInZoneSeconds float64 `json:"time_in_zone_seconds"`
}

// LegacyResponse is the JSON form of GET /api/v1/legacy.
type LegacyResponse struct {
	Scup float64 `json:"scup"`
}

// EventsResponse is the JSON form of GET /api/v1/events.
type EventsResponse struct {
	Events []string `json:"events"`
}

// toResultResponse converts a scup.Result to its JSON form.
func toResultResponse(res scup.Result) ResultResponse {
	recs := res.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return ResultResponse{
		Value:             res.Value,
		Zone:              res.Zone.String(),
		StabilityIndex:    res.StabilityIndex,
		RecoveryPotential: res.RecoveryPotential,
		CoherenceGradient: res.CoherenceGradient,
		PressureResponse:  res.PressureResponse,
		Recommendations:   recs,
		Diagnostics: DiagnosticsResponse{
			Avg1Min:                res.Diagnostics.Avg1Min,
			Avg5Min:                res.Diagnostics.Avg5Min,
			Volatility:             res.Diagnostics.Volatility,
			ZoneStability:          res.Diagnostics.ZoneStability,
			TimeInZoneSeconds:      res.Diagnostics.TimeInZone.Seconds(),
			SessionDurationSeconds: res.Diagnostics.SessionDuration.Seconds(),
		},
	}
}

// BuildReport converts the engine's session report to its JSON form.
// The returned error is scup.ErrNoData while the tracker is empty.
func BuildReport(e *scup.Engine) (ReportResponse, error) {
	rep, err := e.Report()
	if err != nil {
		return ReportResponse{}, err
	}
	events := rep.RecentEvents
	if events == nil {
		events = []string{}
	}
	return ReportResponse{
		SessionID:              rep.SessionID,
		CurrentScup:            rep.Current,
		AverageScup:            rep.Average,
		MinScup:                rep.Min,
		MaxScup:                rep.Max,
		Zone:                   rep.Zone.String(),
		TotalCalculations:      rep.TotalCalculations,
		ZoneTransitions:        rep.ZoneTransitions,
		SessionDurationSeconds: rep.SessionDuration.Seconds(),
		Volatility:             rep.Volatility,
		Stability:              rep.Stability,
		ZoneStability:          rep.ZoneStability,
		TimeInZoneSeconds:      rep.TimeInZone.Seconds(),
		RecentEvents:           events,
	}, nil
}
