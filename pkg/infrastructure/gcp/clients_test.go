package gcp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"
)

// newTestClients points every client at the fake control plane.
func newTestClients(t *testing.T, handler http.Handler) *Clients {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	clients, err := NewClients(context.Background(), "",
		option.WithEndpoint(ts.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewClients: %v", err)
	}
	return clients
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		t.Errorf("writing fake response: %v", err)
	}
}
