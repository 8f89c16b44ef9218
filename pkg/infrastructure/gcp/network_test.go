package gcp

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestAttachSharedVPC(t *testing.T) {
	attachCalls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/global/networks/uat-shared-vpc"):
			writeJSON(t, w, http.StatusOK, `{"name": "uat-shared-vpc"}`)
		case strings.HasSuffix(r.URL.Path, "/getXpnResources"):
			writeJSON(t, w, http.StatusOK, `{"resources": []}`)
		case strings.HasSuffix(r.URL.Path, "/enableXpnResource"):
			attachCalls++
			writeJSON(t, w, http.StatusOK, `{"name": "op-attach", "status": "RUNNING"}`)
		case strings.Contains(r.URL.Path, "/global/operations/op-attach"):
			writeJSON(t, w, http.StatusOK, `{"name": "op-attach", "status": "DONE"}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
	clients := newTestClients(t, handler)

	err := clients.AttachSharedVPC(context.Background(), "prj-host", "uat-shared-vpc", "prj-svc", testLogger())
	if err != nil {
		t.Fatalf("AttachSharedVPC: %v", err)
	}
	if attachCalls != 1 {
		t.Errorf("attach calls = %d, want 1", attachCalls)
	}
}

func TestAttachSharedVPCAlreadyAttached(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/global/networks/"):
			writeJSON(t, w, http.StatusOK, `{"name": "uat-shared-vpc"}`)
		case strings.HasSuffix(r.URL.Path, "/getXpnResources"):
			writeJSON(t, w, http.StatusOK, `{"resources": [{"id": "prj-svc", "type": "PROJECT"}]}`)
		default:
			t.Errorf("attach must not be issued when already a service project: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
	clients := newTestClients(t, handler)

	err := clients.AttachSharedVPC(context.Background(), "prj-host", "uat-shared-vpc", "prj-svc", testLogger())
	if err != nil {
		t.Fatalf("AttachSharedVPC: %v", err)
	}
}

func TestAttachSharedVPCMissingNetwork(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, `{"error": {"code": 404, "message": "network not found"}}`)
	})
	clients := newTestClients(t, handler)

	err := clients.AttachSharedVPC(context.Background(), "prj-host", "no-such-vpc", "prj-svc", testLogger())
	if err == nil {
		t.Fatal("missing shared VPC must fail the step")
	}
}
