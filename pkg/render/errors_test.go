package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/schema"
)

func TestMapErrorPayload(t *testing.T) {
	node := schema.Object(
		schema.Prop("name", schema.Scalar(schema.TypeString)),
		schema.Prop("device", schema.Object(
			schema.Prop("manufacturer", schema.Scalar(schema.TypeString)),
			schema.Prop("identifiers", schema.Array(schema.Scalar(schema.TypeString))),
		)),
		schema.Prop("availability", schema.Array(schema.Object(
			schema.Prop("topic", schema.Scalar(schema.TypeString)),
		))),
	)

	payload := map[string][]string{
		"/spec/name":                      {"Name is required"},
		"spec.device.manufacturer":        {"Manufacturer invalid", " Manufacturer invalid "},
		"$.device.identifiers[1]":         {"Identifiers must be unique"},
		"#/availability/0/topic":          {"Topic malformed"},
		"body/device/unknown":             {"Falls back to the device group"},
		"metadata.name":                   {"Name already taken"},
		"":                                {"Unscoped form error"},
		"spec/availability/2/payloadFoo/": {"Falls back to the element"},
	}

	mapped := render.MapErrorPayload(node, payload)

	wantFields := map[string][]string{
		"name":                  {"Name is required"},
		"device.manufacturer":   {"Manufacturer invalid"},
		"device.identifiers[1]": {"Identifiers must be unique"},
		"availability[0].topic": {"Topic malformed"},
		"device":                {"Falls back to the device group"},
		"availability[2]":       {"Falls back to the element"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Name already taken", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
