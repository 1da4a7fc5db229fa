// Package session runs the create/edit flow of one entity form: it loads the
// schema and resource for a target, owns the current value snapshot and
// submits the sanitized spec.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/formstate"
	"github.com/goliatone/go-entityform/pkg/registry"
	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/sanitize"
	"github.com/goliatone/go-entityform/pkg/validation"
)

// ErrNotOpen is returned by operations that need a loaded target.
var ErrNotOpen = errors.New("session: no target open")

// Store persists resources. *entity.Client satisfies it.
type Store interface {
	Get(ctx context.Context, kind, namespace, name string) (entity.Resource, error)
	Create(ctx context.Context, kind, namespace, name string, spec map[string]any) (entity.Resource, error)
	Update(ctx context.Context, kind, namespace, name string, spec map[string]any) (entity.Resource, error)
}

// Mode distinguishes creating a resource from editing an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ValidationError carries the issues that blocked a submit.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Result.Issues))
	for _, issue := range e.Result.Issues {
		if issue.Field == "" {
			messages = append(messages, issue.Message)
			continue
		}
		messages = append(messages, issue.Field+": "+issue.Message)
	}
	return "session: invalid spec: " + strings.Join(messages, "; ")
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSanitizeOptions forwards options to sanitize.Sanitize on submit.
func WithSanitizeOptions(opts ...sanitize.Option) Option {
	return func(s *Session) {
		s.sanitize = append(s.sanitize, opts...)
	}
}

// Session edits one target at a time. It is safe for concurrent use; opening
// a new target makes in-flight results for the previous one stale.
type Session struct {
	schemas  registry.Source
	store    Store
	guard    Guard
	logger   zerolog.Logger
	sanitize []sanitize.Option

	mu    sync.Mutex
	state *state
}

type state struct {
	ticket Ticket
	// target follows the ticket's target; Name is filled in once a
	// created resource is stored.
	target     Target
	mode       Mode
	apiVersion string
	schema     render.Form
	original   map[string]any
	value      formstate.Value
	version    string
}

// New builds a session over a schema source and a resource store.
func New(schemas registry.Source, store Store, opts ...Option) (*Session, error) {
	if schemas == nil {
		return nil, errors.New("session: schema source is required")
	}
	if store == nil {
		return nil, errors.New("session: store is required")
	}
	s := &Session{schemas: schemas, store: store, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Open loads the schema for target and, when target names a resource, its
// current spec. It returns ErrStale if another Open started meanwhile.
func (s *Session) Open(ctx context.Context, target Target) (render.Form, error) {
	if target.Kind == "" || target.Namespace == "" {
		return render.Form{}, errors.New("session: kind and namespace are required")
	}
	ticket := s.guard.Begin(target)
	log := s.logger.With().Str("target", target.String()).Logger()

	es, err := s.schemas.Schema(ctx, target.Kind)
	if err != nil {
		return render.Form{}, fmt.Errorf("session: load schema: %w", err)
	}
	if err := s.guard.Check(ticket); err != nil {
		log.Debug().Msg("discarding stale schema")
		return render.Form{}, err
	}

	next := &state{
		ticket:     ticket,
		target:     target,
		mode:       ModeCreate,
		apiVersion: es.APIVersion,
		schema:     render.Form{Kind: target.Kind, Schema: es.Schema},
		original:   map[string]any{},
	}
	if next.apiVersion == "" {
		next.apiVersion = registry.APIVersion()
	}
	if target.Name != "" {
		res, err := s.store.Get(ctx, target.Kind, target.Namespace, target.Name)
		if err != nil {
			return render.Form{}, fmt.Errorf("session: load resource: %w", err)
		}
		next.mode = ModeEdit
		next.original = res.Spec
		next.version = res.Metadata.ResourceVersion
		if res.APIVersion != "" {
			next.apiVersion = res.APIVersion
		}
	}
	if next.original == nil {
		next.original = map[string]any{}
	}
	// Engine operations copy on write, so the loaded spec can be shared.
	next.value = next.original

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard.Check(ticket); err != nil {
		log.Debug().Msg("discarding stale resource")
		return render.Form{}, err
	}
	s.state = next
	log.Info().Str("mode", string(next.mode)).Msg("session opened")
	return next.form(), nil
}

// Form returns the current form.
func (s *Session) Form() (render.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return render.Form{}, ErrNotOpen
	}
	return s.state.form(), nil
}

// Mode reports whether the open target is being created or edited.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.mode
}

// Replace stores a new value snapshot, typically one returned by a
// renderer or by a Field setter.
func (s *Session) Replace(value formstate.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ErrNotOpen
	}
	s.state.value = value
	return nil
}

// Validate checks the sanitized current value against the schema.
func (s *Session) Validate() (validation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return validation.Result{}, ErrNotOpen
	}
	return validation.Validate(s.state.schema.Schema, s.state.spec(s.sanitize)), nil
}

// Preview renders the resource that Submit would store as YAML.
func (s *Session) Preview(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, ErrNotOpen
	}
	target := s.state.target
	if s.state.mode == ModeEdit {
		name = target.Name
	}
	return entity.Preview(entity.Resource{
		APIVersion: s.state.apiVersion,
		Kind:       target.Kind,
		Metadata:   entity.Metadata{Name: name, Namespace: target.Namespace},
		Spec:       s.state.spec(s.sanitize),
	})
}

// Diff returns the merge patch from the loaded spec to the sanitized current
// value. It is "{}" when nothing changed.
func (s *Session) Diff() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, ErrNotOpen
	}
	return entity.MergePatch(s.state.original, s.state.spec(s.sanitize))
}

// Submit validates and stores the sanitized spec. name is only used when
// creating; it must already be normalized (see entity.NormalizeName).
// Invalid specs return a *ValidationError without contacting the store.
func (s *Session) Submit(ctx context.Context, name string) (entity.Resource, error) {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return entity.Resource{}, ErrNotOpen
	}
	st := *s.state
	spec := st.spec(s.sanitize)
	s.mu.Unlock()

	if err := s.guard.Check(st.ticket); err != nil {
		return entity.Resource{}, err
	}
	target := st.target
	if st.mode == ModeEdit {
		name = target.Name
	}
	if err := entity.ValidateName(name); err != nil {
		return entity.Resource{}, err
	}
	if result := validation.Validate(st.schema.Schema, spec); !result.Valid {
		return entity.Resource{}, &ValidationError{Result: result}
	}

	log := s.logger.With().Str("target", target.String()).Str("name", name).Logger()
	var (
		res entity.Resource
		err error
	)
	if st.mode == ModeEdit {
		res, err = s.store.Update(ctx, target.Kind, target.Namespace, name, spec)
	} else {
		res, err = s.store.Create(ctx, target.Kind, target.Namespace, name, spec)
	}
	if err != nil {
		log.Warn().Err(err).Msg("submit failed")
		return entity.Resource{}, fmt.Errorf("session: submit: %w", err)
	}
	log.Info().Str("mode", string(st.mode)).Msg("submitted")

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard.Current(st.ticket) || s.state == nil || s.state.ticket != st.ticket {
		return res, ErrStale
	}
	// Later edits are diffed against what was stored.
	s.state.mode = ModeEdit
	s.state.target.Name = name
	s.state.original = spec
	s.state.version = res.Metadata.ResourceVersion
	return res, nil
}

func (st *state) form() render.Form {
	form := st.schema
	form.Value = st.value
	return form
}

func (st *state) spec(opts []sanitize.Option) map[string]any {
	spec, ok := sanitize.Sanitize(st.value, opts...).(map[string]any)
	if !ok || spec == nil {
		return map[string]any{}
	}
	return spec
}
