package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-entityform/internal/config"
	"github.com/goliatone/go-entityform/internal/logging"
	"github.com/goliatone/go-entityform/internal/schema/loader"
	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/openapi"
	"github.com/goliatone/go-entityform/pkg/registry"
	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/renderers/html"
	"github.com/goliatone/go-entityform/pkg/renderers/tui"
	"github.com/goliatone/go-entityform/pkg/schema"
)

type app struct {
	cfg    config.Config
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer

	// schemaRef is a file path or URL overriding the registry.
	schemaRef string
	// driver is nil in production, which selects the survey driver.
	driver tui.PromptDriver
	// noColor disables colored console logs.
	noColor bool
}

// testDriver lets tests script the terminal.
var testDriver tui.PromptDriver

func newApp(environ map[string]string, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.LoadFrom(environ)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: zerolog.Nop(), stdout: stdout, stderr: stderr, driver: testDriver}, nil
}

// flags returns a flag set carrying the shared connection and logging flags.
// Values default to the environment configuration.
func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&a.cfg.APIURL, "api-url", a.cfg.APIURL, "persistence API base URL")
	fs.StringVar(&a.cfg.RegistryURL, "registry-url", a.cfg.RegistryURL, "schema registry base URL (defaults to -api-url)")
	fs.StringVar(&a.cfg.Namespace, "namespace", a.cfg.Namespace, "resource namespace")
	fs.DurationVar(&a.cfg.Timeout, "timeout", a.cfg.Timeout, "HTTP timeout")
	fs.StringVar(&a.cfg.CRDDir, "crd-dir", a.cfg.CRDDir, "read schemas from CRD manifests in this directory")
	fs.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level")
	fs.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format (console or json)")
	fs.StringVar(&a.schemaRef, "schema", "", "schema file or URL, bypassing the registry")
	fs.BoolVar(&a.noColor, "no-color", false, "disable colored logs")
	return fs
}

// parse parses args and finishes configuration.
func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["api-url"] && !set["registry-url"] {
		a.cfg.RegistryURL = a.cfg.APIURL
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:   a.cfg.LogLevel,
		Format:  logging.Format(a.cfg.LogFormat),
		Writer:  a.stderr,
		NoColor: a.noColor,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// schemas picks the schema source: an explicit file or URL, CRD manifests,
// or the schema registry. Directory and registry sources are cached.
func (a *app) schemas() (registry.Source, error) {
	if a.schemaRef != "" {
		src, err := schema.ParseSource(a.schemaRef)
		if err != nil {
			return nil, err
		}
		ld := loader.New(schema.NewLoaderOptions(schema.WithHTTPFallback(a.cfg.Timeout)))
		return documentSource{loader: ld, source: src}, nil
	}
	cacheLogger := registry.WithCacheLogger(a.logger)
	if a.cfg.CRDDir != "" {
		return registry.NewCache(registry.CRDSource{Files: os.DirFS(a.cfg.CRDDir)}, cacheLogger), nil
	}
	client, err := a.registryClient()
	if err != nil {
		return nil, err
	}
	return registry.NewCache(client, cacheLogger), nil
}

func (a *app) registryClient() (*registry.Client, error) {
	return registry.NewClient(a.cfg.RegistryURL,
		registry.WithTimeout(a.cfg.Timeout),
		registry.WithLogger(a.logger),
	)
}

func (a *app) entities() (*entity.Client, error) {
	return entity.NewClient(a.cfg.APIURL,
		entity.WithTimeout(a.cfg.Timeout),
		entity.WithLogger(a.logger),
	)
}

func (a *app) renderers(out tui.OutputFormat, templatesDir string) (*render.Registry, error) {
	htmlRenderer, err := html.New(html.WithTemplatesDir(templatesDir))
	if err != nil {
		return nil, err
	}
	tuiRenderer, err := tui.New(
		tui.WithPromptDriver(a.driver),
		tui.WithOutput(a.stdout),
		tui.WithOutputFormat(out),
	)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, tuiRenderer)
}

// prompts returns the driver used for the CLI's own questions.
func (a *app) prompts() tui.PromptDriver {
	if a.driver != nil {
		return a.driver
	}
	return tui.NewSurveyDriver(a.stdout)
}

// documentSource serves schemas from one document: a registry envelope, a
// bare schema node, or an OpenAPI document whose component schemas are
// named after the kinds.
type documentSource struct {
	loader *loader.Loader
	source schema.Source
}

func (d documentSource) Schema(ctx context.Context, kind string) (schema.EntitySchema, error) {
	doc, err := d.loader.Load(ctx, d.source)
	if err != nil {
		return schema.EntitySchema{}, err
	}
	if isOpenAPI(doc.Raw()) {
		return d.component(ctx, doc.Raw(), kind)
	}
	es, err := doc.EntitySchema()
	if err != nil {
		return schema.EntitySchema{}, fmt.Errorf("%s: %w", d.source.Location(), err)
	}
	if es.Kind == "" {
		es.Kind = kind
	}
	if kind != "" && !strings.EqualFold(es.Kind, kind) {
		return schema.EntitySchema{}, fmt.Errorf("%w: %s describes %s", registry.ErrUnknownKind, d.source.Location(), es.Kind)
	}
	return es, nil
}

func (d documentSource) component(ctx context.Context, raw []byte, kind string) (schema.EntitySchema, error) {
	doc, err := openapi.Load(ctx, raw)
	if err != nil {
		return schema.EntitySchema{}, fmt.Errorf("%s: %w", d.source.Location(), err)
	}
	for _, name := range doc.SchemaNames() {
		if !strings.EqualFold(name, kind) {
			continue
		}
		node, err := doc.Schema(name)
		if err != nil {
			return schema.EntitySchema{}, err
		}
		return schema.EntitySchema{Kind: kind, APIVersion: registry.APIVersion(), Description: node.Description, Schema: node}, nil
	}
	return schema.EntitySchema{}, fmt.Errorf("%w: %s has no component schema %s", registry.ErrUnknownKind, d.source.Location(), kind)
}

func isOpenAPI(raw []byte) bool {
	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	return yaml.Unmarshal(raw, &probe) == nil && probe.OpenAPI != ""
}

// readSpec reads a JSON or YAML spec file and normalizes it to JSON types.
func readSpec(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if decoded == nil {
		return map[string]any{}, nil
	}
	normalized, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	var spec map[string]any
	if err := json.Unmarshal(normalized, &spec); err != nil {
		return nil, fmt.Errorf("decode %s: spec must be an object", path)
	}
	return spec, nil
}

func requireKind(kind string) (string, error) {
	if kind == "" {
		return "", errors.New("-kind is required")
	}
	if t, ok := registry.Lookup(kind); ok {
		return t.Kind, nil
	}
	return kind, nil
}
