package gcp

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func readyService() string {
	return `{
		"metadata": {"name": "navigator", "namespace": "prj-test", "resourceVersion": "5"},
		"status": {"conditions": [{"type": "Ready", "status": "True"}]}
	}`
}

func TestDeployAppCreatesMissingService(t *testing.T) {
	created := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/services/navigator"):
			if !created {
				writeJSON(t, w, http.StatusNotFound, `{"error": {"code": 404, "message": "not found"}}`)
				return
			}
			writeJSON(t, w, http.StatusOK, readyService())
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/services"):
			created = true
			writeJSON(t, w, http.StatusOK, readyService())
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
	clients := newTestClients(t, handler)

	spec := AppSpec{ServiceName: "navigator", Image: "gcr.io/prj-test/navigator:v1", Port: 8080}
	if err := clients.DeployApp(context.Background(), "prj-test", spec, testLogger()); err != nil {
		t.Fatalf("DeployApp: %v", err)
	}
	if !created {
		t.Error("service should have been created")
	}
}

func TestDeployAppReplacesExistingService(t *testing.T) {
	replaced := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/services/navigator"):
			writeJSON(t, w, http.StatusOK, readyService())
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/services/navigator"):
			replaced = true
			writeJSON(t, w, http.StatusOK, readyService())
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
	clients := newTestClients(t, handler)

	spec := AppSpec{ServiceName: "navigator", Image: "gcr.io/prj-test/navigator:v2"}
	if err := clients.DeployApp(context.Background(), "prj-test", spec, testLogger()); err != nil {
		t.Fatalf("DeployApp: %v", err)
	}
	if !replaced {
		t.Error("existing service should have been replaced")
	}
}

func TestDeployAppFailsWhenNotReady(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, `{
				"metadata": {"name": "navigator", "namespace": "prj-test", "resourceVersion": "5"},
				"status": {"conditions": [{"type": "Ready", "status": "False", "message": "image pull failed"}]}
			}`)
		case http.MethodPut:
			writeJSON(t, w, http.StatusOK, readyService())
		default:
			http.NotFound(w, r)
		}
	})
	clients := newTestClients(t, handler)

	spec := AppSpec{ServiceName: "navigator", Image: "gcr.io/prj-test/navigator:bad"}
	err := clients.DeployApp(context.Background(), "prj-test", spec, testLogger())
	if err == nil {
		t.Fatal("a False Ready condition must fail the deploy")
	}
	if !strings.Contains(err.Error(), "image pull failed") {
		t.Errorf("error should carry the condition message, got %v", err)
	}
}
