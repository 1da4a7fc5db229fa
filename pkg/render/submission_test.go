package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		append(render.IdentityFields("MQTTButton", "home", ""),
			render.Hidden("resourceVersion", 4),
			render.Hidden("  ", "skip"),
		)...,
	)

	wantMerged := map[string]string{
		"existing":           "keep",
		"kind":               "MQTTButton",
		"metadata.namespace": "home",
		"resourceVersion":    "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "existing", Value: "keep"},
		{Name: "kind", Value: "MQTTButton"},
		{Name: "metadata.namespace", Value: "home"},
		{Name: "resourceVersion", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	if got := render.MergeHiddenFields(nil); got != nil {
		t.Fatalf("expected nil for empty merge, got %v", got)
	}
}
