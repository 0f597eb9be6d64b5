package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/scuplab/scupd/internal/alerts"
	"github.com/scuplab/scupd/internal/scup"
)

// defaultEventCount is how many events GET /api/v1/events returns when the
// caller does not pass n.
const defaultEventCount = 20

// Handler is the HTTP handler for all /api/v1/* endpoints. It scores vectors
// through the engine and reads session state back out of it.
type Handler struct {
	engine *scup.Engine
	alerts *alerts.Engine
	mux    *http.ServeMux
}

// New creates a Handler wired to the given engines and registers all routes.
// al may be nil when alerting is disabled.
func New(e *scup.Engine, al *alerts.Engine) http.Handler {
	h := &Handler{engine: e, alerts: al, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/compute", h.compute)
	h.mux.HandleFunc("/api/v1/report", h.report)
	h.mux.HandleFunc("/api/v1/zone", h.zone)
	h.mux.HandleFunc("/api/v1/events", h.events)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/legacy", h.legacy)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// compute handles POST /api/v1/compute — score one input vector, track it and
// return the composite result.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req := ComputeRequest{Vector: scup.DefaultVector()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var res scup.Result
	if req.UseRecovery != nil {
		res = h.engine.Compute(req.Vector, *req.UseRecovery)
	} else {
		res = h.engine.ComputeDefault(req.Vector)
	}

	if h.alerts != nil {
		h.alerts.Evaluate(&res)
	}

	jsonResp(w, http.StatusOK, toResultResponse(res))
}

// report handles GET /api/v1/report — the session summary, or 404 with the
// no-data sentinel before the first compute.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rep, err := BuildReport(h.engine)
	if err != nil {
		jsonErr(w, http.StatusNotFound, noDataMessage)
		return
	}
	jsonResp(w, http.StatusOK, rep)
}

// zone handles GET /api/v1/zone — the current zone and time spent in it.
func (h *Handler) zone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rep, err := h.engine.Report()
	if err != nil {
		jsonErr(w, http.StatusNotFound, noDataMessage)
		return
	}
	jsonResp(w, http.StatusOK, ZoneResponse{
		Zone:              rep.Zone.String(),
		TimeInZoneSeconds: rep.TimeInZone.Seconds(),
	})
}

// events handles GET /api/v1/events?n= — the most recent transition events,
// newest last.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	n := defaultEventCount
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			jsonErr(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	events := h.engine.Tracker().Events(n)
	if events == nil {
		events = []string{}
	}
	jsonResp(w, http.StatusOK, EventsResponse{Events: events})
}

// listAlerts handles GET /api/v1/alerts — firing alerts plus recently
// resolved ones.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// legacy handles GET /api/v1/legacy?base=&entropy=&pressure= — the original
// three-argument calculator, untracked.
func (h *Handler) legacy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	base, err := queryFloat(q.Get("base"), 0.5)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "base must be a number")
		return
	}
	entropy, err := queryFloat(q.Get("entropy"), 0.5)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "entropy must be a number")
		return
	}
	pressure, err := queryFloat(q.Get("pressure"), 0)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "pressure must be a number")
		return
	}

	jsonResp(w, http.StatusOK, LegacyResponse{
		Scup: h.engine.LegacyCompute(base, entropy, pressure),
	})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// queryFloat parses a query parameter, falling back to def when absent.
func queryFloat(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}
