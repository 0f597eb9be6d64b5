package metrics

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/scuplab/scupd/internal/scup"
)

// Handler serves the session state as a Prometheus text exposition.
type Handler struct {
	engine *scup.Engine
}

// New returns the handler for GET /metrics.
func New(e *scup.Engine) *Handler {
	return &Handler{engine: e}
}

// ServeHTTP writes the current metric families in Prometheus text format.
// Before the first computed vector the body is empty: absent series are more
// honest than zeros for gauges like scup_value.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))

	rep, err := h.engine.Report()
	if err != nil {
		return
	}

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families(rep) {
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

// families builds the exposition from one session report.
func families(rep scup.Report) []*dto.MetricFamily {
	return []*dto.MetricFamily{
		gauge("scup_value", "Most recent composite SCUP score.", rep.Current),
		gauge("scup_stability_index", "Inverse-variance stability of the recent score history.", rep.Stability),
		gauge("scup_volatility", "Mean absolute delta across the recent score history.", rep.Volatility),
		gauge("scup_zone_stability", "Zone-diversity stability over the recent window.", rep.ZoneStability),
		zoneInfo(rep.Zone.String()),
		gauge("scup_time_in_zone_seconds", "Seconds spent in the current zone.", rep.TimeInZone.Seconds()),
		gauge("scup_session_duration_seconds", "Seconds since the tracker was created.", rep.SessionDuration.Seconds()),
		counter("scup_total_calculations_total", "Lifetime count of tracked score computations.", float64(rep.TotalCalculations)),
		counter("scup_zone_transitions_total", "Lifetime count of zone changes.", float64(rep.ZoneTransitions)),
	}
}

func gauge(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: f64Ptr(value)}},
		},
	}
}

func counter(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: f64Ptr(value)}},
		},
	}
}

// zoneInfo exposes the current zone as a labeled constant-1 gauge, the usual
// pattern for categorical state.
func zoneInfo(zone string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: strPtr("scup_zone"),
		Help: strPtr("Current zone as a labeled constant."),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{
				Label: []*dto.LabelPair{
					{Name: strPtr("zone"), Value: strPtr(zone)},
				},
				Gauge: &dto.Gauge{Value: f64Ptr(1)},
			},
		},
	}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
