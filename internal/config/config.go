// Package config loads the CLI configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "ENTITYFORM_"

// Config holds CLI settings. Flags override these values.
type Config struct {
	APIURL string `env:"API_URL" envDefault:"http://localhost:8080/api"`
	// RegistryURL defaults to APIURL.
	RegistryURL string        `env:"REGISTRY_URL"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"console"`
	Namespace   string        `env:"NAMESPACE" envDefault:"default"`
	// CRDDir points at generated CRD manifests used instead of the registry.
	CRDDir string `env:"CRD_DIR"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the configuration from environ, or from the process
// environment when environ is nil.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg, environ); err != nil {
		return Config{}, err
	}
	if cfg.RegistryURL == "" {
		cfg.RegistryURL = cfg.APIURL
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv fills target from ENTITYFORM_ prefixed variables.
func ParseEnv(target any, environ map[string]string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{"api url": c.APIURL, "registry url": c.RegistryURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("config: invalid %s %q", name, raw))
		}
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("config: timeout must be positive, got %s", c.Timeout))
	}
	if c.Namespace == "" {
		errs = append(errs, errors.New("config: namespace is required"))
	}
	return errors.Join(errs...)
}
