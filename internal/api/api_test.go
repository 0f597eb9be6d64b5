package api_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/scuplab/scupd/internal/api"
	"github.com/scuplab/scupd/internal/scup"
)

// --- test helpers -----------------------------------------------------------

func newHandler() http.Handler {
	return api.New(scup.NewEngine(scup.Options{}), nil)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/compute --------------------------------------------------------

func TestCompute_DefaultVector(t *testing.T) {
	h := newHandler()
	rr := post(t, h, "/api/v1/compute", `{}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)

	if got := resp["value"].(float64); math.Abs(got-0.3748723901898832) > 1e-9 {
		t.Errorf("value: got %v, want 0.3748723901898832", got)
	}
	if resp["zone"] != "turbulent" {
		t.Errorf("zone: got %v, want turbulent", resp["zone"])
	}
	if resp["recommendations"] == nil {
		t.Error("recommendations: got null, want array")
	}
	diag := resp["diagnostics"].(map[string]interface{})
	if diag["session_duration_seconds"] == nil {
		t.Error("diagnostics.session_duration_seconds: missing")
	}
}

func TestCompute_ExplicitFields(t *testing.T) {
	h := newHandler()
	rr := post(t, h, "/api/v1/compute",
		`{"base_coherence": 0.9, "entropy": 0.1, "pressure_level": 0.4, "temporal_stability": 1.0}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)

	got := resp["value"].(float64)
	if got <= 0 || got > 1 {
		t.Errorf("value: got %v, want in (0,1]", got)
	}
	// Favorable inputs should land well above the default vector's score.
	if got < 0.5 {
		t.Errorf("value: got %v, want >= 0.5 for favorable inputs", got)
	}
}

func TestCompute_UseRecoveryOverride(t *testing.T) {
	h := newHandler()

	// Seed history so the recovery calculator has something to work with.
	for i := 0; i < 3; i++ {
		post(t, h, "/api/v1/compute", `{"entropy": 0.95}`)
	}

	rr := post(t, h, "/api/v1/compute", `{"entropy": 0.5, "use_recovery": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	if got := resp["value"].(float64); got < 0 || got > 1 {
		t.Errorf("value: got %v, want in [0,1]", got)
	}
}

func TestCompute_BadBody(t *testing.T) {
	h := newHandler()
	rr := post(t, h, "/api/v1/compute", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestCompute_MethodNotAllowed(t *testing.T) {
	h := newHandler()
	rr := get(t, h, "/api/v1/compute")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/report ---------------------------------------------------------

func TestReport_NoData(t *testing.T) {
	h := newHandler()
	rr := get(t, h, "/api/v1/report")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	if resp["error"] != "No data tracked yet" {
		t.Errorf("error: got %v, want %q", resp["error"], "No data tracked yet")
	}
}

func TestReport_AfterCompute(t *testing.T) {
	h := newHandler()
	post(t, h, "/api/v1/compute", `{}`)
	rr := get(t, h, "/api/v1/report")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)

	if got := resp["current_scup"].(float64); math.Abs(got-0.3748723901898832) > 1e-9 {
		t.Errorf("current_scup: got %v", got)
	}
	if resp["total_calculations"].(float64) != 1 {
		t.Errorf("total_calculations: got %v, want 1", resp["total_calculations"])
	}
	if resp["session_id"] == "" || resp["session_id"] == nil {
		t.Error("session_id: missing")
	}
	if resp["zone"] != "turbulent" {
		t.Errorf("zone: got %v, want turbulent", resp["zone"])
	}
	if resp["recent_events"] == nil {
		t.Error("recent_events: got null, want array")
	}
}

func TestReport_MethodNotAllowed(t *testing.T) {
	h := newHandler()
	rr := post(t, h, "/api/v1/report", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/zone -----------------------------------------------------------

func TestZone_NoData(t *testing.T) {
	h := newHandler()
	rr := get(t, h, "/api/v1/zone")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestZone_AfterCompute(t *testing.T) {
	h := newHandler()
	post(t, h, "/api/v1/compute", `{}`)
	rr := get(t, h, "/api/v1/zone")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	if resp["zone"] != "turbulent" {
		t.Errorf("zone: got %v, want turbulent", resp["zone"])
	}
	if _, ok := resp["time_in_zone_seconds"].(float64); !ok {
		t.Errorf("time_in_zone_seconds: got %v, want number", resp["time_in_zone_seconds"])
	}
}

// --- /api/v1/events ---------------------------------------------------------

func TestEvents_Empty(t *testing.T) {
	h := newHandler()
	rr := get(t, h, "/api/v1/events")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string][]string
	decode(t, rr, &resp)
	if resp["events"] == nil {
		t.Error("events: got null, want []")
	}
	if len(resp["events"]) != 0 {
		t.Errorf("events: got %d items, want 0", len(resp["events"]))
	}
}

func TestEvents_RecordsTransitions(t *testing.T) {
	h := newHandler()
	// First vector lands in turbulent, second in critical.
	post(t, h, "/api/v1/compute", `{}`)
	post(t, h, "/api/v1/compute", `{"base_coherence": 0.0, "entropy": 1.0, "nutrient_balance": 0.0, "consciousness_depth": 0.0, "rhizome_connectivity": 0.0}`)

	rr := get(t, h, "/api/v1/events")
	var resp map[string][]string
	decode(t, rr, &resp)

	if len(resp["events"]) != 1 {
		t.Fatalf("events: got %d items, want 1 (%v)", len(resp["events"]), resp["events"])
	}
	if want := "Zone transition: turbulent -> critical"; resp["events"][0] != want {
		t.Errorf("event: got %q, want %q", resp["events"][0], want)
	}
}

func TestEvents_BadCount(t *testing.T) {
	h := newHandler()
	for _, q := range []string{"?n=0", "?n=-3", "?n=abc"} {
		rr := get(t, h, "/api/v1/events"+q)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s status: got %d, want 400", q, rr.Code)
		}
	}
}

// --- /api/v1/alerts ---------------------------------------------------------

func TestAlerts_NoEngineReturnsEmptyArray(t *testing.T) {
	h := newHandler()
	rr := get(t, h, "/api/v1/alerts")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp []interface{}
	decode(t, rr, &resp)
	if resp == nil {
		t.Error("alerts: got null, want []")
	}
	if len(resp) != 0 {
		t.Errorf("alerts: got %d items, want 0", len(resp))
	}
}

// --- /api/v1/legacy ---------------------------------------------------------

func TestLegacy_KnownValue(t *testing.T) {
	h := newHandler()
	// coherence 1, entropy 0, pressure 0: 1 * max(1-0.4*1.5, 0.1) * 1 = 0.4.
	rr := get(t, h, "/api/v1/legacy?base=1&entropy=0&pressure=0")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var resp map[string]float64
	decode(t, rr, &resp)
	if math.Abs(resp["scup"]-0.4) > 1e-9 {
		t.Errorf("scup: got %v, want 0.4", resp["scup"])
	}
}

func TestLegacy_Defaults(t *testing.T) {
	h := newHandler()
	rr := get(t, h, "/api/v1/legacy")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]float64
	decode(t, rr, &resp)
	if resp["scup"] < 0 || resp["scup"] > 1 {
		t.Errorf("scup: got %v, want in [0,1]", resp["scup"])
	}
}

func TestLegacy_BadParam(t *testing.T) {
	h := newHandler()
	rr := get(t, h, "/api/v1/legacy?base=abc")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestLegacy_DoesNotTrack(t *testing.T) {
	h := newHandler()
	get(t, h, "/api/v1/legacy?base=1&entropy=0&pressure=0")

	rr := get(t, h, "/api/v1/report")
	if rr.Code != http.StatusNotFound {
		t.Errorf("report after legacy: got %d, want 404", rr.Code)
	}
}

// --- Content-Type -----------------------------------------------------------

func TestContentTypeJSON(t *testing.T) {
	h := newHandler()
	for _, path := range []string{
		"/api/v1/report",
		"/api/v1/zone",
		"/api/v1/events",
		"/api/v1/alerts",
		"/api/v1/legacy",
	} {
		rr := get(t, h, path)
		ct := rr.Header().Get("Content-Type")
		if ct != "application/json" {
			t.Errorf("%s Content-Type: got %q, want application/json", path, ct)
		}
	}
}
