package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dananet/mutasi-bot/store"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	local, err := store.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return NewHandlers(local, store.New(local, nil), nil)
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewMux(newTestHandlers(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if corr := resp.Header.Get("X-Correlation-ID"); corr == "" {
		t.Error("missing correlation id header")
	}
}

func TestReadyz(t *testing.T) {
	srv := httptest.NewServer(NewMux(newTestHandlers(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ready" {
		t.Errorf("status = %q, want ready", body["status"])
	}
}

func TestStatus(t *testing.T) {
	h := newTestHandlers(t)
	if err := h.storage.AddAccount(context.Background(), "081234567890", "1234", ""); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}

	srv := httptest.NewServer(NewMux(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Accounts       int  `json:"accounts"`
		ActiveAccounts int  `json:"active_accounts"`
		ActiveCap      int  `json:"active_cap"`
		SheetEnabled   bool `json:"sheet_enabled"`
		CacheEnabled   bool `json:"cache_enabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Accounts != 1 || body.ActiveAccounts != 1 {
		t.Errorf("counts = %+v", body)
	}
	if body.ActiveCap != 8 {
		t.Errorf("active_cap = %d, want 8", body.ActiveCap)
	}
	if body.SheetEnabled || body.CacheEnabled {
		t.Errorf("backends should be disabled in this test: %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewMux(newTestHandlers(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
