package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/schema"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, "input:"+cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, "password:"+cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, "confirm:"+cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, "select:"+cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, "textarea:"+cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type abortDriver struct{ stubDriver }

func (a *abortDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}

func buttonForm() render.Form {
	return render.Form{
		Kind: "MQTTButton",
		Schema: schema.Object(
			schema.Prop("commandTopic", schema.Scalar(schema.TypeString)),
			schema.Prop("name", schema.Scalar(schema.TypeString)),
			schema.Prop("qos", schema.Scalar(schema.TypeInteger)),
		).WithRequired("commandTopic"),
	}
}

func decodeJSON(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode output %q: %v", raw, err)
	}
	return out
}

func TestRender_RequiredAndSkippedSection(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"", "home/btn", ""},
		confirm: []bool{false},
	}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), buttonForm(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"commandTopic": "home/btn"}, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	wantPrompts := []string{
		"input:Command Topic",
		"input:Command Topic",
		"input:Name",
		"confirm:Edit Advanced MQTT Settings?",
	}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if !contains(driver.infoMessages, "! Invalid Command Topic: required") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
}

func TestRender_NumberRangeChoiceAndToggle(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"0", "abc", "100"},
		selectIdx: []int{2},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := render.Form{
		Kind: "MQTTLight",
		Schema: schema.Object(
			schema.Prop("brightnessScale", schema.Scalar(schema.TypeInteger).WithRange(schema.Float(1), schema.Float(255))),
			schema.Prop("colorMode", schema.Scalar(schema.TypeString).WithEnum("rgb", "hs")),
			schema.Prop("optimistic", schema.Scalar(schema.TypeBoolean)),
		).WithRequired("brightnessScale"),
	}

	out, err := r.Render(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := map[string]any{"brightnessScale": float64(100), "colorMode": "hs", "optimistic": true}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{
		"Entity Configuration",
		"Invalid Brightness Scale: must be at least 1",
		"Invalid Brightness Scale: not a number",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ListLoop(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{true, false},
		inputs:    []string{"Hub 2", "hub-1", "hub-2"},
		selectIdx: []int{1, 1, 3, 0, 0},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := render.Form{
		Kind: "MQTTSensor",
		Schema: schema.Object(
			schema.Prop("device", schema.Object(
				schema.Prop("name", schema.Scalar(schema.TypeString)),
				schema.Prop("identifiers", schema.Array(schema.Scalar(schema.TypeString))),
			)),
			schema.Prop("availability", schema.Array(schema.Object(
				schema.Prop("topic", schema.Scalar(schema.TypeString)),
			))),
		),
		Value: map[string]any{"device": map[string]any{"name": "Hub"}},
	}

	tree, err := r.Edit(context.Background(), form, render.Options{})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := map[string]any{
		"device": map[string]any{
			"name":        "Hub 2",
			"identifiers": []any{"hub-2"},
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if !contains(driver.prompts, "select:Remove which item?") {
		t.Fatalf("expected remove prompt, got %v", driver.prompts)
	}
	if form.Value.(map[string]any)["device"].(map[string]any)["name"] != "Hub" {
		t.Fatalf("input snapshot mutated")
	}
}

func TestRender_ListOfGroups(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1, 0},
		inputs:    []string{"lamp/status"},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	exp := render.NewExpansion()
	form := render.Form{
		Schema: schema.Object(
			schema.Prop("availability", schema.Array(schema.Object(
				schema.Prop("topic", schema.Scalar(schema.TypeString)),
			))),
		),
	}
	exp.ToggleSection(render.Sections(form.Schema, nil)[0])

	tree, err := r.Edit(context.Background(), form, render.Options{Expansion: exp})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := map[string]any{"availability": []any{map[string]any{"topic": "lamp/status"}}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_YAMLAndTransformer(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"home/btn", ""},
		confirm: []bool{false},
	}
	r, err := New(
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatYAML),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			values["uniqueId"] = "btn-1"
			return values, nil
		}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "application/yaml" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), buttonForm(), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "commandTopic: home/btn\nuniqueId: btn-1\n" {
		t.Fatalf("unexpected yaml %q", got)
	}
}

func TestRender_ErrorsAndDocuments(t *testing.T) {
	driver := &stubDriver{
		textAreas: []string{"[1]", `{"mode":"fast"}`},
	}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := render.Form{
		Schema: schema.Object(schema.Prop("extra", schema.Object())),
	}

	tree, err := r.Edit(context.Background(), form, render.Options{
		Errors: map[string][]string{"extra": {"unexpected property"}},
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"extra": map[string]any{"mode": "fast"}}, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{"! unexpected property", "! Invalid Extra: expected a JSON object"} {
		if !contains(driver.infoMessages, want) {
			t.Fatalf("missing info %q in %v", want, driver.infoMessages)
		}
	}
}

func TestRender_Aborted(t *testing.T) {
	r, err := New(WithPromptDriver(&abortDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), buttonForm(), render.Options{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
