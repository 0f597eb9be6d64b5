package scup

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrNoData is returned by Report before the first Track call.
var ErrNoData = errors.New("no data tracked yet")

// criticalValueThreshold is the score below which Log invokes the anomaly hook.
const criticalValueThreshold = 0.2

// reportEventCount is how many recent events Report includes.
const reportEventCount = 5

// AnomalyFunc receives out-of-band notifications about critically low
// values. kind is a stable machine-readable tag, message is human-readable.
type AnomalyFunc func(kind, message string)

// Options configures an Engine. The zero value selects all defaults.
type Options struct {
	// HistorySize is the FIFO capacity of the score/zone/timestamp buffers.
	HistorySize int

	// EventLogSize is the capacity of the transition event log.
	EventLogSize int

	// UseRecovery selects the recovery-aware calculator by default.
	UseRecovery bool

	// Anomaly is invoked by Log for values below 0.2. Optional.
	Anomaly AnomalyFunc
}

// Engine orchestrates calculator, tracker, analytics and recommendations
// behind one handle. Construct it once at process start and share it by
// reference; all methods are safe for concurrent use.
type Engine struct {
	tracker     *Tracker
	useRecovery bool
	anomaly     AnomalyFunc
	sessionID   string
}

// NewEngine returns an Engine configured by opts.
func NewEngine(opts Options) *Engine {
	return &Engine{
		tracker:     NewTracker(opts.HistorySize, opts.EventLogSize),
		useRecovery: opts.UseRecovery,
		anomaly:     opts.Anomaly,
		sessionID:   uuid.NewString(),
	}
}

// SessionID returns the identifier assigned to this engine instance.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Tracker exposes the engine's history tracker for read-only consumers
// (metrics exposition, event listing).
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// Compute normalizes v, scores it with the recovery-aware calculator (or
// Enhanced when useRecovery is false), tracks the score and returns the
// composite result.
func (e *Engine) Compute(v Vector, useRecovery bool) Result {
	nv := v.Normalized()

	var score float64
	if useRecovery {
		score = Recovery(nv, e.tracker.Values())
	} else {
		score = Enhanced(nv)
	}
	return e.tracker.Track(score, &nv)
}

// ComputeDefault runs Compute with the engine's configured calculator choice.
func (e *Engine) ComputeDefault(v Vector) Result {
	return e.Compute(v, e.useRecovery)
}

// LegacyCompute scores the original three-argument input with the basic
// calculator. It bypasses tracking entirely.
func (e *Engine) LegacyCompute(baseCoherence, entropy, pressure float64) float64 {
	return Legacy(baseCoherence, entropy, pressure)
}

// Report summarizes the session so far.
type Report struct {
	SessionID         string        `json:"session_id"`
	Current           float64       `json:"current_scup"`
	Average           float64       `json:"average_scup"`
	Min               float64       `json:"min_scup"`
	Max               float64       `json:"max_scup"`
	Zone              Zone          `json:"zone"`
	TotalCalculations int64         `json:"total_calculations"`
	ZoneTransitions   int64         `json:"zone_transitions"`
	SessionDuration   time.Duration `json:"session_duration"`
	Volatility        float64       `json:"volatility"`
	Stability         float64       `json:"stability"`
	ZoneStability     float64       `json:"zone_stability"`
	TimeInZone        time.Duration `json:"time_in_zone"`
	RecentEvents      []string      `json:"recent_events"`
}

// Report returns the session summary, or ErrNoData before the first Track
// call. Callers must branch on the error rather than expect a panic.
func (e *Engine) Report() (Report, error) {
	t := e.tracker
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.values) == 0 {
		return Report{}, ErrNoData
	}

	now := t.now()
	min, max := t.values[0], t.values[0]
	var sum float64
	for _, v := range t.values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	events := t.events
	if len(events) > reportEventCount {
		events = events[len(events)-reportEventCount:]
	}
	recent := make([]string, len(events))
	copy(recent, events)

	return Report{
		SessionID:         e.sessionID,
		Current:           t.values[len(t.values)-1],
		Average:           sum / float64(len(t.values)),
		Min:               min,
		Max:               max,
		Zone:              t.lastZone,
		TotalCalculations: t.totalCalculations,
		ZoneTransitions:   t.zoneTransitions,
		SessionDuration:   now.Sub(t.sessionStart),
		Volatility:        volatility(t.values),
		Stability:         stabilityIndex(t.values),
		ZoneStability:     zoneStability(t.zones),
		TimeInZone:        timeInZone(t.zones, t.stamps, now),
		RecentEvents:      recent,
	}, nil
}

// Log emits value with its computed zone and context, and invokes the
// anomaly hook when value falls below the critical threshold.
func (e *Engine) Log(value float64, context string) {
	zone := Classify(value, 0)
	slog.Info("scup", "value", value, "zone", zone.String(), "context", context)

	if value < criticalValueThreshold && e.anomaly != nil {
		e.anomaly("scup_critical",
			fmt.Sprintf("SCUP value critically low: %.3f (%s)", value, context))
	}
}
