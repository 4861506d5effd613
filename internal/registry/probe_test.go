package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPackageURL(t *testing.T) {
	tests := []struct {
		base, name, want string
	}{
		{"https://registry.npmjs.org", "express", "https://registry.npmjs.org/express"},
		{"https://registry.npmjs.org/", "express", "https://registry.npmjs.org/express"},
		{"https://registry.npmjs.org", "@types/node", "https://registry.npmjs.org/@types%2Fnode"},
	}
	for _, tt := range tests {
		if got := PackageURL(tt.base, tt.name); got != tt.want {
			t.Errorf("PackageURL(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}

func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch r.URL.EscapedPath() {
		case "/express", "/@types%2Fnode":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"x"}`))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "/slow":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPProberExists(t *testing.T) {
	srv := newRegistryServer(t)
	p := NewHTTPProber(srv.URL, srv.Client())
	ctx := context.Background()

	tests := []struct {
		name    string
		exists  bool
		wantErr bool
	}{
		{"express", true, false},
		{"@types/node", true, false},
		{"ghost-package", false, false},
		{"broken", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := p.Exists(ctx, tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Exists() error = %v, wantErr %v", err, tt.wantErr)
			}
			if exists != tt.exists {
				t.Errorf("Exists() = %v, want %v", exists, tt.exists)
			}
		})
	}
}

func TestProbeFailuresReportedAsNotFound(t *testing.T) {
	srv := newRegistryServer(t)
	root := t.TempDir()
	writeTemplate(t, root, "node", "app", map[string]any{
		"name":        "App",
		"description": "d",
		"packages": []any{
			pkg("express", "^4.0.0"),
			pkg("broken", "^1.0.0"),
			pkg("slow", "^1.0.0"),
		},
	}, nil)

	r := New(root,
		WithRegistryURL(srv.URL, srv.Client()),
		WithProbeTimeout(100*time.Millisecond),
		WithConcurrency(2),
	)
	e, err := r.ValidateAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	res := e.Results[0]
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %v, want 2", res.Errors)
	}
	// Errors follow sorted package name order: broken, slow.
	if !strings.Contains(res.Errors[0].Message, `"broken"`) || !strings.Contains(res.Errors[0].Message, "treated as not found") {
		t.Errorf("first error = %q", res.Errors[0].Message)
	}
	if !strings.Contains(res.Errors[1].Message, `"slow"`) || !strings.Contains(res.Errors[1].Message, "timed out") {
		t.Errorf("second error = %q", res.Errors[1].Message)
	}
}
