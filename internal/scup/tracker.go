package scup

import (
	"fmt"
	"sync"
	"time"
)

// Default buffer capacities. History eviction is oldest-first FIFO, so
// memory is O(1) amortized per call.
const (
	DefaultHistorySize  = 1000
	DefaultEventLogSize = 100
)

// Result is the composite output of one Track call: the tracked score, its
// zone, the seven derived analytics and the matching recommendations.
type Result struct {
	Value             float64     `json:"value"`
	Zone              Zone        `json:"zone"`
	StabilityIndex    float64     `json:"stability_index"`
	RecoveryPotential float64     `json:"recovery_potential"`
	CoherenceGradient float64     `json:"coherence_gradient"`
	PressureResponse  float64     `json:"pressure_response"`
	Recommendations   []string    `json:"recommendations"`
	Diagnostics       Diagnostics `json:"diagnostics"`
}

// Diagnostics holds the windowed and session-level metrics attached to
// every Result.
type Diagnostics struct {
	Avg1Min         float64       `json:"avg_1min"`
	Avg5Min         float64       `json:"avg_5min"`
	Volatility      float64       `json:"volatility"`
	ZoneStability   float64       `json:"zone_stability"`
	TimeInZone      time.Duration `json:"time_in_zone"`
	SessionDuration time.Duration `json:"session_duration"`
}

// Tracker holds the bounded score history and its running counters.
//
// Every Track call runs under one exclusive lock covering history mutation,
// transition detection, event logging and analytics — the whole call is
// serialized, so no partial interleaving is observable. All exported methods
// are safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	capacity int
	eventCap int

	values []float64
	zones  []Zone
	stamps []time.Time
	events []string

	totalCalculations int64
	zoneTransitions   int64
	lastZone          Zone
	hasZone           bool

	sessionStart time.Time
	now          func() time.Time // injectable for deterministic tests
}

// NewTracker returns a Tracker with the given buffer capacities.
// Non-positive capacities fall back to the defaults.
func NewTracker(historySize, eventLogSize int) *Tracker {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	if eventLogSize <= 0 {
		eventLogSize = DefaultEventLogSize
	}
	t := &Tracker{
		capacity: historySize,
		eventCap: eventLogSize,
		values:   make([]float64, 0, historySize),
		zones:    make([]Zone, 0, historySize),
		stamps:   make([]time.Time, 0, historySize),
		now:      time.Now,
	}
	t.sessionStart = t.now()
	return t
}

// Track appends score to the history, updates counters and the transition
// event log, and returns the fully derived Result. input carries the raw
// signals for zone classification, pressure response and the input-based
// recommendation rules; it may be nil when only a bare score is known.
func (t *Tracker) Track(score float64, input *Vector) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.totalCalculations++

	var pressure float64
	if input != nil {
		pressure = input.PressureLevel
	}
	zone := Classify(score, pressure)

	if t.hasZone && zone != t.lastZone {
		t.zoneTransitions++
		t.appendEvent(fmt.Sprintf("Zone transition: %s -> %s", t.lastZone, zone))
	}
	t.lastZone = zone
	t.hasZone = true

	t.values = appendBounded(t.values, score, t.capacity)
	t.zones = appendBounded(t.zones, zone, t.capacity)
	t.stamps = appendBounded(t.stamps, now, t.capacity)

	stability := stabilityIndex(t.values)

	return Result{
		Value:             score,
		Zone:              zone,
		StabilityIndex:    stability,
		RecoveryPotential: recoveryPotential(t.values, score),
		CoherenceGradient: coherenceGradient(t.values),
		PressureResponse:  pressureResponse(t.values, input),
		Recommendations:   Recommend(zone, stability, input),
		Diagnostics: Diagnostics{
			Avg1Min:         windowedAverage(t.values, t.stamps, now, shortAvgWindow),
			Avg5Min:         windowedAverage(t.values, t.stamps, now, longAvgWindow),
			Volatility:      volatility(t.values),
			ZoneStability:   zoneStability(t.zones),
			TimeInZone:      timeInZone(t.zones, t.stamps, now),
			SessionDuration: now.Sub(t.sessionStart),
		},
	}
}

// Values returns a copy of the score history, oldest first.
func (t *Tracker) Values() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]float64, len(t.values))
	copy(out, t.values)
	return out
}

// Events returns the most recent n transition events, oldest first.
// n <= 0 returns all retained events.
func (t *Tracker) Events(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := t.events
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	out := make([]string, len(events))
	copy(out, events)
	return out
}

// Len returns the number of samples currently held.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.values)
}

// TotalCalculations returns the lifetime Track call count.
func (t *Tracker) TotalCalculations() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalCalculations
}

// ZoneTransitions returns the lifetime count of zone changes.
func (t *Tracker) ZoneTransitions() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.zoneTransitions
}

// SessionStart returns the tracker construction time.
func (t *Tracker) SessionStart() time.Time {
	return t.sessionStart
}

// appendEvent pushes msg onto the bounded event log. Caller holds t.mu.
func (t *Tracker) appendEvent(msg string) {
	t.events = append(t.events, msg)
	if len(t.events) > t.eventCap {
		t.events = t.events[len(t.events)-t.eventCap:]
	}
}

// appendBounded appends v to buf, evicting the oldest element when buf is
// at capacity. Insertion order is preserved.
func appendBounded[T any](buf []T, v T, capacity int) []T {
	if len(buf) >= capacity {
		copy(buf, buf[1:])
		buf = buf[:len(buf)-1]
	}
	return append(buf, v)
}
