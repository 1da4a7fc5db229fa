package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-entityform/pkg/entity"
	"github.com/goliatone/go-entityform/pkg/registry"
	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/renderers/tui"
	"github.com/goliatone/go-entityform/pkg/sanitize"
	"github.com/goliatone/go-entityform/pkg/session"
	"github.com/goliatone/go-entityform/pkg/validation"
)

var errInvalidSpec = errors.New("spec is invalid")

func runKinds(ctx context.Context, a *app, args []string) error {
	fs := a.flags("kinds")
	remote := fs.Bool("remote", false, "ask the schema registry instead of the built-in catalog")
	category := fs.String("category", "", "only show this category")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	groups := registry.ByCategory(registry.Catalog)
	if *remote {
		client, err := a.registryClient()
		if err != nil {
			return err
		}
		listing, err := client.EntityTypes(ctx)
		if err != nil {
			return err
		}
		groups = listing.Categories
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, name := range categoryOrder(groups) {
		if *category != "" && !strings.EqualFold(*category, name) {
			continue
		}
		fmt.Fprintf(w, "%s\n", name)
		for _, t := range groups[name] {
			fmt.Fprintf(w, "  %s\t%s\n", t.Kind, t.Description)
		}
	}
	return w.Flush()
}

// categoryOrder lists the known categories first, then any others sorted.
func categoryOrder(groups map[string][]registry.EntityType) []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range registry.Categories {
		if len(groups[name]) > 0 {
			out = append(out, name)
		}
		seen[name] = true
	}
	var extra []string
	for name := range groups {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func runFields(ctx context.Context, a *app, args []string) error {
	fs := a.flags("fields")
	kind := fs.String("kind", "", "entity kind")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	k, err := requireKind(*kind)
	if err != nil {
		return err
	}
	schemas, err := a.schemas()
	if err != nil {
		return err
	}
	es, err := schemas.Schema(ctx, k)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, section := range render.Sections(es.Schema, nil) {
		fmt.Fprintf(w, "%s (%s)\n", section.Title, section.ID)
		for _, field := range section.Fields {
			required := ""
			if field.Required {
				required = "required"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", field.Name, field.Widget, required)
		}
	}
	return w.Flush()
}

func runEdit(ctx context.Context, a *app, args []string) error {
	fs := a.flags("edit")
	kind := fs.String("kind", "", "entity kind")
	name := fs.String("name", "", "resource to edit; empty creates a new one")
	sections := fs.String("sections", "", "comma separated section IDs to edit")
	dryRun := fs.Bool("dry-run", false, "print the result without saving")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	k, err := requireKind(*kind)
	if err != nil {
		return err
	}
	schemas, err := a.schemas()
	if err != nil {
		return err
	}
	store, err := a.entities()
	if err != nil {
		return err
	}
	sess, err := session.New(schemas, store, session.WithLogger(a.logger))
	if err != nil {
		return err
	}
	form, err := sess.Open(ctx, session.Target{Kind: k, Namespace: a.cfg.Namespace, Name: *name})
	if err != nil {
		return err
	}
	renderers, err := a.renderers(tui.OutputFormatJSON, "")
	if err != nil {
		return err
	}
	prompts := a.prompts()

	opts := render.Options{Sections: splitList(*sections), Expansion: render.NewExpansion()}
	for {
		out, err := renderers.Render(ctx, "tui", form, opts)
		if err != nil {
			return err
		}
		var spec map[string]any
		if err := json.Unmarshal(out, &spec); err != nil {
			return fmt.Errorf("decode edited spec: %w", err)
		}
		if err := sess.Replace(spec); err != nil {
			return err
		}
		result, err := sess.Validate()
		if err != nil {
			return err
		}
		if result.Valid {
			break
		}
		if err := showIssues(ctx, prompts, result); err != nil {
			return err
		}
		again, err := prompts.Confirm(ctx, tui.ConfirmConfig{Message: "Fix the errors?", Default: true})
		if err != nil {
			return err
		}
		if !again {
			return errInvalidSpec
		}
		opts.Errors = result.Fields()
		if form, err = sess.Form(); err != nil {
			return err
		}
	}

	resourceName := *name
	if sess.Mode() == session.ModeCreate && !*dryRun {
		form, _ := sess.Form()
		if resourceName, err = askName(ctx, prompts, form); err != nil {
			return err
		}
	}

	preview, err := sess.Preview(resourceName)
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, string(preview))

	if sess.Mode() == session.ModeEdit {
		patch, err := sess.Diff()
		if err != nil {
			return err
		}
		if entity.EmptyPatch(patch) {
			return prompts.Info(ctx, "No changes.")
		}
		if err := prompts.Info(ctx, "Changes: "+string(patch)); err != nil {
			return err
		}
	}
	if *dryRun {
		return nil
	}

	submit, err := prompts.Confirm(ctx, tui.ConfirmConfig{Message: fmt.Sprintf("Save %s %s?", k, resourceName), Default: true})
	if err != nil {
		return err
	}
	if !submit {
		return prompts.Info(ctx, "Discarded.")
	}
	res, err := sess.Submit(ctx, resourceName)
	if err != nil {
		return err
	}
	return prompts.Info(ctx, fmt.Sprintf("Saved %s/%s/%s.", res.Kind, res.Metadata.Namespace, res.Metadata.Name))
}

// askName prompts for the name of a new resource, suggesting one derived
// from the spec's display name. An empty answer takes the suggestion.
func askName(ctx context.Context, prompts tui.PromptDriver, form render.Form) (string, error) {
	suggestion := ""
	if spec, ok := form.Value.(map[string]any); ok {
		if display, ok := spec["name"].(string); ok {
			suggestion = entity.NormalizeName(display)
		}
	}
	for {
		answer, err := prompts.Input(ctx, tui.InputConfig{
			Message: "Resource name",
			Default: suggestion,
			Help:    "lowercase letters, digits and hyphens",
		})
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = suggestion
		}
		if err := entity.ValidateName(answer); err != nil {
			if answer != "" {
				suggestion = entity.NormalizeName(answer)
			}
			if err := prompts.Info(ctx, err.Error()); err != nil {
				return "", err
			}
			continue
		}
		return answer, nil
	}
}

func showIssues(ctx context.Context, prompts tui.PromptDriver, result validation.Result) error {
	for _, issue := range result.Issues {
		msg := issue.Message
		if issue.Field != "" {
			msg = issue.Field + ": " + msg
		}
		if err := prompts.Info(ctx, "invalid "+msg); err != nil {
			return err
		}
	}
	return nil
}

func runRender(ctx context.Context, a *app, args []string) error {
	fs := a.flags("render")
	kind := fs.String("kind", "", "entity kind")
	name := fs.String("name", "", "resource name written into the hidden fields")
	valuePath := fs.String("value", "", "JSON or YAML spec to prefill")
	errorsPath := fs.String("errors", "", "JSON error payload to show, keyed by field path")
	sections := fs.String("sections", "", "comma separated section IDs to render")
	title := fs.String("title", "", "form heading")
	rendererName := fs.String("renderer", "html", "renderer name")
	templatesDir := fs.String("templates", "", "directory holding form.tpl to use instead of the bundled templates")
	output := fs.String("o", "", "output file (stdout if empty)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	k, err := requireKind(*kind)
	if err != nil {
		return err
	}
	renderers, err := a.renderers(tui.OutputFormatJSON, *templatesDir)
	if err != nil {
		return err
	}
	if !contains(renderers.List(), *rendererName) {
		return fmt.Errorf("unknown renderer %q (available: %s)", *rendererName, strings.Join(renderers.List(), ", "))
	}
	schemas, err := a.schemas()
	if err != nil {
		return err
	}
	es, err := schemas.Schema(ctx, k)
	if err != nil {
		return err
	}
	spec, err := readSpec(*valuePath)
	if err != nil {
		return err
	}

	payload := map[string][]string{}
	if *valuePath != "" {
		for field, messages := range validation.Validate(es.Schema, sanitize.Object(spec)).Fields() {
			payload[field] = append(payload[field], messages...)
		}
	}
	var formErrors []string
	if *errorsPath != "" {
		server, err := readErrors(*errorsPath)
		if err != nil {
			return err
		}
		for field, messages := range server.Fields {
			payload[field] = append(payload[field], messages...)
		}
		formErrors = server.Form
	}
	mapping := render.MapErrorPayload(es.Schema, payload)

	opts := render.Options{
		Title:      *title,
		Sections:   splitList(*sections),
		Hidden:     render.MergeHiddenFields(nil, render.IdentityFields(k, a.cfg.Namespace, *name)...),
		Errors:     mapping.Fields,
		FormErrors: render.MergeFormErrors(formErrors, mapping.Form...),
	}
	out, err := renderers.Render(ctx, *rendererName, render.Form{Kind: k, Schema: es.Schema, Value: spec}, opts)
	if err != nil {
		return err
	}
	if *output == "" {
		_, err = a.stdout.Write(out)
		return err
	}
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "Form written to %s\n", *output)
	return nil
}

type errorPayload struct {
	Fields map[string][]string
	Form   []string
}

// readErrors reads a server error body. Either {"error": "..."} or an object
// of field paths to messages (or a single message) is accepted.
func readErrors(path string) (errorPayload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errorPayload{}, err
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return errorPayload{}, fmt.Errorf("decode %s: %w", path, err)
	}
	out := errorPayload{Fields: map[string][]string{}}
	for key, value := range body {
		var messages []string
		switch v := value.(type) {
		case string:
			messages = []string{v}
		case []any:
			for _, item := range v {
				if text, ok := item.(string); ok {
					messages = append(messages, text)
				}
			}
		}
		if key == "error" || key == "message" {
			out.Form = append(out.Form, messages...)
			continue
		}
		out.Fields[key] = append(out.Fields[key], messages...)
	}
	return out, nil
}

func runPreview(ctx context.Context, a *app, args []string) error {
	fs := a.flags("preview")
	kind := fs.String("kind", "", "entity kind")
	name := fs.String("name", "", "resource name")
	valuePath := fs.String("value", "", "JSON or YAML spec")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	k, err := requireKind(*kind)
	if err != nil {
		return err
	}
	schemas, err := a.schemas()
	if err != nil {
		return err
	}
	es, err := schemas.Schema(ctx, k)
	if err != nil {
		return err
	}
	raw, err := readSpec(*valuePath)
	if err != nil {
		return err
	}

	spec := sanitize.Object(raw)
	if result := validation.Validate(es.Schema, spec); !result.Valid {
		for _, issue := range result.Issues {
			fmt.Fprintf(a.stderr, "%s: %s\n", orRoot(issue.Field), issue.Message)
		}
		return errInvalidSpec
	}
	apiVersion := es.APIVersion
	if apiVersion == "" {
		apiVersion = registry.APIVersion()
	}
	out, err := entity.Preview(entity.Resource{
		APIVersion: apiVersion,
		Kind:       k,
		Metadata:   entity.Metadata{Name: entity.NormalizeName(*name), Namespace: a.cfg.Namespace},
		Spec:       spec,
	})
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(out)
	return err
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := a.flags("list")
	kind := fs.String("kind", "", "only list this kind")
	all := fs.Bool("all", false, "list every namespace")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	client, err := a.entities()
	if err != nil {
		return err
	}
	namespace := a.cfg.Namespace
	if *all {
		namespace = ""
	}
	list, err := client.List(ctx, *kind, namespace)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tNAMESPACE\tPUBLISHED\tCREATED")
	for _, item := range list.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", item.Name, item.Kind, item.Namespace, item.Published, item.CreatedAt)
	}
	return w.Flush()
}

func runNamespaces(ctx context.Context, a *app, args []string) error {
	fs := a.flags("namespaces")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	client, err := a.entities()
	if err != nil {
		return err
	}
	namespaces, err := client.Namespaces(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS")
	for _, ns := range namespaces {
		fmt.Fprintf(w, "%s\t%s\n", ns.Name, ns.Status)
	}
	return w.Flush()
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := a.flags("delete")
	kind := fs.String("kind", "", "entity kind")
	name := fs.String("name", "", "resource name")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	k, err := requireKind(*kind)
	if err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}
	client, err := a.entities()
	if err != nil {
		return err
	}
	if !*yes {
		ok, err := a.prompts().Confirm(ctx, tui.ConfirmConfig{Message: fmt.Sprintf("Delete %s %s/%s?", k, a.cfg.Namespace, *name)})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	if err := client.Delete(ctx, k, a.cfg.Namespace, *name); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "deleted %s %s/%s\n", k, a.cfg.Namespace, *name)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func orRoot(field string) string {
	if field == "" {
		return "(root)"
	}
	return field
}
