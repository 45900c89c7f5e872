package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Trax/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, state StateReader) *httptest.Server {
	t.Helper()
	h := NewHandler(Config{State: state, Logger: discardLogger()})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, domain.NewRunState())

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMetricsExposed(t *testing.T) {
	srv := newTestServer(t, domain.NewRunState())

	// Один запрос к status, чтобы счётчик появился в выдаче.
	if resp, err := http.Get(srv.URL + "/api/v1/status"); err == nil {
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "trax_api_http_requests_total") {
		t.Error("metrics output has no trax_api_http_requests_total")
	}
}

func TestStatus(t *testing.T) {
	state := domain.NewRunState()
	state.SetWallets(3)
	state.MarkBonusClaimed()
	state.RecordSweep(domain.SweepSummary{Number: 1, Wallets: 3, Succeeded: 2, Failed: 1, BonusRound: true})

	srv := newTestServer(t, state)

	resp, err := http.Get(srv.URL + "/api/v1/status")
	if err != nil {
		t.Fatalf("GET /api/v1/status: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Data StatusResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := body.Data
	if !got.BonusClaimed {
		t.Error("BonusClaimed = false, want true")
	}
	if got.Sweeps != 1 {
		t.Errorf("Sweeps = %d, want 1", got.Sweeps)
	}
	if got.Wallets != 3 {
		t.Errorf("Wallets = %d, want 3", got.Wallets)
	}
	if got.LastSweep == nil || got.LastSweep.Failed != 1 {
		t.Errorf("LastSweep = %+v", got.LastSweep)
	}
	if got.UptimeSeconds < 0 {
		t.Errorf("UptimeSeconds = %v", got.UptimeSeconds)
	}
}

func TestStatus_NoState(t *testing.T) {
	h := NewHandler(Config{Logger: discardLogger()})
	rec := httptest.NewRecorder()

	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestStatus_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, domain.NewRunState())

	resp, err := http.Post(srv.URL+"/api/v1/status", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	var captured int
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	outer := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrap(w)
			next.ServeHTTP(rw, r)
			captured = rw.status
		})
	}

	Chain(outer, Logging(discardLogger()))(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if captured != http.StatusTeapot {
		t.Errorf("captured = %d, want 418", captured)
	}
}

func TestUptime(t *testing.T) {
	state := domain.NewRunState()
	h := NewHandler(Config{State: state, Logger: discardLogger()})
	h.now = func() time.Time { return state.Snapshot().StartedAt.Add(90 * time.Second) }

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	var body struct {
		Data StatusResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.UptimeSeconds != 90 {
		t.Errorf("UptimeSeconds = %v, want 90", body.Data.UptimeSeconds)
	}
}
