package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/dananet/mutasi-bot/account"
	"github.com/dananet/mutasi-bot/store"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	local   *store.Local
	storage *store.Store
	cache   *redis.Client // nil when the ephemeral store is unconfigured
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(local *store.Local, storage *store.Store, cacheClient *redis.Client) *Handlers {
	return &Handlers{local: local, storage: storage, cache: cacheClient}
}

// HandleHealthz responds to liveness probes by checking that the local
// store, the durability guarantee of last resort, is readable.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.local.Load(); err != nil {
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleReadyz responds to readiness probes with detailed system checks.
// Only the local store is required; the cache check runs when configured.
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"local_store", func() error {
			_, err := h.local.Load()
			return err
		}},
		{"cache", func() error {
			if h.cache == nil {
				return nil
			}
			return h.cache.Ping(r.Context()).Err()
		}},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
				"error":        err.Error(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// HandleStatus reports account counts and which backends are wired in.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.storage.GetAccounts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("load accounts: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"accounts":        len(accounts),
		"active_accounts": account.CountActive(accounts),
		"active_cap":      account.MaxActive,
		"sheet_enabled":   h.storage.RemoteEnabled(),
		"cache_enabled":   h.cache != nil,
	})
}
