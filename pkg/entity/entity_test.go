package entity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Desk Lamp":      "desk-lamp",
		"kitchen_light":  "kitchen-light",
		"a  b!!c":        "a--b--c",
		"already-ok-123": "already-ok-123",
		"Ünïcode":        "-n-code",
		"":               "",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
	if err := ValidateName("Desk Lamp"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if err := ValidateName(""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for empty name, got %v", err)
	}
	if err := ValidateName("desk-lamp"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPreview(t *testing.T) {
	out, err := Preview(Resource{
		APIVersion: "mqtt.home-assistant.io/v1alpha1",
		Kind:       "MQTTButton",
		Metadata:   Metadata{Namespace: "home"},
		Spec:       map[string]any{"name": "Doorbell", "commandTopic": "home/door"},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	want := `apiVersion: mqtt.home-assistant.io/v1alpha1
kind: MQTTButton
metadata:
    name: <name>
    namespace: home
spec:
    commandTopic: home/door
    name: Doorbell
`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
}

func TestMergePatch(t *testing.T) {
	original := map[string]any{"name": "Lamp", "qos": float64(1), "device": map[string]any{"name": "Hub"}}

	patch, err := MergePatch(original, original)
	if err != nil || !EmptyPatch(patch) {
		t.Fatalf("expected empty patch, got %s %v", patch, err)
	}

	modified := map[string]any{"name": "Desk Lamp", "device": map[string]any{"name": "Hub"}}
	patch, err = MergePatch(original, modified)
	if err != nil {
		t.Fatalf("merge patch: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(patch, &got); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Desk Lamp", "qos": nil}, got); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}

	applied, err := ApplyPatch(original, patch)
	if err != nil {
		t.Fatalf("apply patch: %v", err)
	}
	if diff := cmp.Diff(modified, applied); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_Published(t *testing.T) {
	r := Resource{Status: map[string]any{"conditions": []any{
		map[string]any{"type": "Ready", "status": "True"},
		map[string]any{"type": "Published", "status": "True"},
	}}}
	if !r.Published() {
		t.Fatalf("expected published")
	}
	if (Resource{}).Published() {
		t.Fatalf("empty status is not published")
	}
}

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

func newEntityServer(t *testing.T, log *[]recorded) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		*log = append(*log, rec)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/entities":
			_, _ = w.Write([]byte(`{"items":[{"kind":"MQTTButton","name":"door","namespace":"home","published":true}],"total":1}`))
		case r.URL.Path == "/api/namespaces":
			_, _ = w.Write([]byte(`{"namespaces":[{"name":"home","status":"Active"}],"total":1}`))
		case r.URL.Path == "/api/entities/MQTTButton/home/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"entity not found"}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			resp := map[string]any{
				"apiVersion": "mqtt.home-assistant.io/v1alpha1",
				"kind":       "MQTTButton",
				"metadata":   map[string]any{"name": "door", "namespace": "home", "resourceVersion": "7"},
				"spec":       map[string]any{"commandTopic": "home/door"},
			}
			if rec.Body != nil {
				resp["spec"] = rec.Body["spec"]
			}
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusCreated)
			}
			_ = json.NewEncoder(w).Encode(resp)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_CRUD(t *testing.T) {
	var log []recorded
	server := newEntityServer(t, &log)
	client, err := NewClient(server.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	list, err := client.List(ctx, "MQTTButton", "home")
	if err != nil || list.Total != 1 || !list.Items[0].Published {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
	namespaces, err := client.Namespaces(ctx)
	if err != nil || len(namespaces) != 1 || namespaces[0].Name != "home" {
		t.Fatalf("unexpected namespaces %+v %v", namespaces, err)
	}

	got, err := client.Get(ctx, "MQTTButton", "home", "door")
	if err != nil || got.Metadata.ResourceVersion != "7" {
		t.Fatalf("unexpected get %+v %v", got, err)
	}

	spec := map[string]any{"commandTopic": "home/door", "name": "Door"}
	created, err := client.Create(ctx, "MQTTButton", "home", "door", spec)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if diff := cmp.Diff(spec, created.Spec); diff != "" {
		t.Fatalf("created spec mismatch (-want +got):\n%s", diff)
	}
	if _, err := client.Update(ctx, "MQTTButton", "home", "door", nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := client.Delete(ctx, "MQTTButton", "home", "door"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []recorded{
		{Method: http.MethodGet, Path: "/api/entities", Query: "kind=MQTTButton&namespace=home"},
		{Method: http.MethodGet, Path: "/api/namespaces"},
		{Method: http.MethodGet, Path: "/api/entities/MQTTButton/home/door"},
		{Method: http.MethodPost, Path: "/api/entities/MQTTButton/home", Body: map[string]any{
			"metadata": map[string]any{"name": "door", "namespace": "home"},
			"spec":     map[string]any{"commandTopic": "home/door", "name": "Door"},
		}},
		{Method: http.MethodPut, Path: "/api/entities/MQTTButton/home/door", Body: map[string]any{
			"metadata": map[string]any{"name": "door", "namespace": "home"},
			"spec":     map[string]any{},
		}},
		{Method: http.MethodDelete, Path: "/api/entities/MQTTButton/home/door"},
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Errors(t *testing.T) {
	var log []recorded
	server := newEntityServer(t, &log)
	client, err := NewClient(server.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	_, err = client.Get(ctx, "MQTTButton", "home", "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "entity not found" {
		t.Fatalf("expected APIError 404, got %v", err)
	}

	if _, err := client.Create(ctx, "MQTTButton", "home", "Door Bell", nil); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := client.Get(ctx, "", "home", "door"); err == nil {
		t.Fatalf("expected missing kind error")
	}
	if len(log) != 1 {
		t.Fatalf("invalid calls should not reach the server, got %d requests", len(log))
	}
}
