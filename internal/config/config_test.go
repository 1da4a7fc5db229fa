package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		APIURL:      "http://localhost:8080/api",
		RegistryURL: "http://localhost:8080/api",
		Timeout:     10 * time.Second,
		LogLevel:    "info",
		LogFormat:   "console",
		Namespace:   "default",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ENTITYFORM_API_URL":      "https://entities.example.com/api",
		"ENTITYFORM_REGISTRY_URL": "https://schemas.example.com",
		"ENTITYFORM_TIMEOUT":      "2s",
		"ENTITYFORM_LOG_FORMAT":   "json",
		"ENTITYFORM_NAMESPACE":    "home",
		"ENTITYFORM_CRD_DIR":      "config/crd",
		"API_URL":                 "http://ignored",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://entities.example.com/api" || cfg.RegistryURL != "https://schemas.example.com" {
		t.Fatalf("unexpected urls %+v", cfg)
	}
	if cfg.Timeout != 2*time.Second || cfg.LogFormat != "json" || cfg.Namespace != "home" || cfg.CRDDir != "config/crd" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"ENTITYFORM_TIMEOUT": "soon"}); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("expected parse error, got %v", err)
	}
	_, err := LoadFrom(map[string]string{
		"ENTITYFORM_API_URL": "ftp://example.com",
		"ENTITYFORM_TIMEOUT": "-1s",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid api url") || !strings.Contains(err.Error(), "timeout must be positive") {
		t.Fatalf("expected validation errors, got %v", err)
	}
}
