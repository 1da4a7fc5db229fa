package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestNew_Validation(t *testing.T) {
	for _, raw := range []string{"", "  ", "ftp://host", "://bad"} {
		if _, err := New(raw, Options{}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	c, err := New("http://host/api/", Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.BaseURL() != "http://host/api" {
		t.Fatalf("unexpected base %q", c.BaseURL())
	}
}

func TestClient_Do(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	c, err := New(server.URL+"/api", Options{
		Headers: map[string]string{"Authorization": "Bearer token"},
		Logger:  &logger,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	err = c.Do(context.Background(), http.MethodPost, url.Values{"kind": {"MQTTButton"}},
		map[string]any{"spec": map[string]any{"name": "x"}}, &out, "entities", "MQTTButton", "my ns")
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if !out.OK {
		t.Fatalf("response not decoded")
	}
	if gotPath != "/api/entities/MQTTButton/my%20ns" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "kind=MQTTButton" || gotAuth != "Bearer token" || gotType != "application/json" {
		t.Fatalf("unexpected request %q %q %q", gotQuery, gotAuth, gotType)
	}
	if diff := cmp.Diff(map[string]any{"spec": map[string]any{"name": "x"}}, gotBody); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), `"status":200`) {
		t.Fatalf("expected request log, got %q", logs.String())
	}
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"entity not found"}`))
		case "/text":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	c, err := New(server.URL, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	cases := map[string]Error{
		"json":  {Status: http.StatusNotFound, Message: "entity not found"},
		"text":  {Status: http.StatusBadGateway, Message: "upstream down"},
		"empty": {Status: http.StatusInternalServerError, Message: "Internal Server Error"},
	}
	for path, want := range cases {
		err := c.Do(context.Background(), http.MethodGet, nil, nil, nil, path)
		apiErr, ok := err.(*Error)
		if !ok {
			t.Fatalf("%s: expected *Error, got %T", path, err)
		}
		if diff := cmp.Diff(want, *apiErr); diff != "" {
			t.Fatalf("%s: error mismatch (-want +got):\n%s", path, diff)
		}
		if !IsStatus(err, want.Status) {
			t.Fatalf("%s: IsStatus mismatch", path)
		}
	}
}
