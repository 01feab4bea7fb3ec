package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/api"
	"shopfront/internal/localstore"
)

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return api.NewClient(srv.URL, 5*time.Second), srv
}

func newTestLocal(t *testing.T) *localstore.Store {
	t.Helper()

	local, err := localstore.Initialize(":memory:", "test-secret")
	if err != nil {
		t.Fatal("Failed to initialize local store:", err)
	}
	t.Cleanup(func() { local.Close() })

	return local
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Error("Failed to encode response:", err)
	}
}
