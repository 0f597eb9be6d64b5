package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scuplab/scupd/internal/config"
	"github.com/scuplab/scupd/internal/scup"
)

const (
	defaultCooldown   = 15 * time.Minute
	maxHistoryLen     = 200
	recentWindowHours = 1

	// anomalyTTL bounds how long an Anomaly-raised alert stays firing. No
	// rule condition covers these, so without a TTL nothing would ever
	// resolve them.
	anomalyTTL = 10 * time.Minute
)

// Alert represents a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"` // "firing" | "resolved"

	// anomaly marks alerts raised through Anomaly rather than the rule
	// table; they resolve by TTL instead of by condition.
	anomaly bool
}

// Engine evaluates alert rules against score results and delivers webhook
// notifications when rules fire or resolve. It also serves as the engine's
// anomaly hook: Anomaly raises a one-shot critical alert outside the rule
// table.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	rules    []config.AlertRule
	webhooks []config.WebhookConfig
	active   map[string]*Alert    // key: rule name
	lastFire map[string]time.Time // last fire time per rule (for cooldown)
	history  []*Alert             // recently resolved alerts
	client   *http.Client
	now      func() time.Time // injectable for deterministic tests
}

// New creates an Engine from the alert configuration.
// An Engine with empty rules is valid — Evaluate becomes a no-op.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// SetConfig replaces the rule table and webhook targets. Active alerts and
// cooldown state survive a reload.
func (e *Engine) SetConfig(cfg config.AlertsConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = cfg.Rules
	e.webhooks = cfg.Webhooks
}

// Evaluate tests all configured rules against res.
// Alerts that fire are stored and webhook delivery is triggered
// asynchronously. Alerts that were firing but whose condition is now false
// are resolved.
func (e *Engine) Evaluate(res *scup.Result) {
	now := e.now()

	e.mu.Lock()
	e.expireAnomalies(now)
	rules := e.rules
	e.mu.Unlock()
	if len(rules) == 0 {
		return
	}
	for _, rule := range rules {
		fires, value := evalCondition(rule.Condition, res)

		e.mu.Lock()

		if fires {
			cooldown := rule.Cooldown
			if cooldown <= 0 {
				cooldown = defaultCooldown
			}
			if now.Sub(e.lastFire[rule.Name]) > cooldown {
				sev := rule.Severity
				if sev == "" {
					sev = "warning"
				}
				a := &Alert{
					ID:       uuid.NewString(),
					RuleName: rule.Name,
					Severity: sev,
					Value:    value,
					Message: fmt.Sprintf("[%s] %s fired — %s = %.3f (zone %s)",
						sev, rule.Name, rule.Condition, value, res.Zone),
					FiredAt: now,
					State:   "firing",
				}
				e.active[rule.Name] = a
				e.lastFire[rule.Name] = now
				alertCopy := *a
				e.mu.Unlock()

				slog.Warn("alert fired",
					"rule", rule.Name,
					"value", value,
					"zone", res.Zone.String(),
					"severity", sev,
				)
				go e.deliver(&alertCopy)
			} else {
				e.mu.Unlock()
			}
		} else {
			if a, ok := e.active[rule.Name]; ok && a.State == "firing" {
				resolved := now
				a.State = "resolved"
				a.ResolvedAt = &resolved
				delete(e.active, rule.Name)

				e.history = append(e.history, a)
				if len(e.history) > maxHistoryLen {
					e.history = e.history[len(e.history)-maxHistoryLen:]
				}
				alertCopy := *a
				e.mu.Unlock()

				slog.Info("alert resolved", "rule", rule.Name)
				go e.deliver(&alertCopy)
			} else {
				e.mu.Unlock()
			}
		}
	}
}

// Anomaly raises a synthetic critical alert outside the rule table. It
// implements the scoring engine's anomaly hook for critically low values.
// The alert stays firing for anomalyTTL, then resolves on its own.
func (e *Engine) Anomaly(kind, message string) {
	now := e.now()
	a := &Alert{
		ID:       uuid.NewString(),
		RuleName: kind,
		Severity: "critical",
		Message:  message,
		FiredAt:  now,
		State:    "firing",
		anomaly:  true,
	}

	e.mu.Lock()
	e.active[kind] = a
	e.lastFire[kind] = now
	alertCopy := *a
	e.mu.Unlock()

	slog.Warn("anomaly reported", "kind", kind, "message", message)
	go e.deliver(&alertCopy)
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour.
func (e *Engine) Active() []*Alert {
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.expireAnomalies(now)

	cutoff := now.Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

// expireAnomalies resolves anomaly alerts that have outlived their TTL and
// moves them to the history. Caller holds e.mu.
func (e *Engine) expireAnomalies(now time.Time) {
	for name, a := range e.active {
		if !a.anomaly || now.Sub(a.FiredAt) < anomalyTTL {
			continue
		}
		resolved := now
		a.State = "resolved"
		a.ResolvedAt = &resolved
		delete(e.active, name)

		e.history = append(e.history, a)
		if len(e.history) > maxHistoryLen {
			e.history = e.history[len(e.history)-maxHistoryLen:]
		}
		slog.Info("anomaly alert expired", "kind", name)
	}
}
