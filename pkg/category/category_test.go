package category

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/schema"
)

func TestCategorize_Precedence(t *testing.T) {
	table := NewTable([]string{"qos", "commandTopic"})
	got := table.Categorize([]string{
		"name", "commandTopic", "device", "payloadPress", "qos", "availability",
		"retain", "icon", "deviceRef", "availabilityMode", "stateTopic",
	})

	want := Buckets{
		Required:       {"commandTopic", "qos"},
		Common:         {"name", "icon"},
		Device:         {"device", "deviceRef"},
		Availability:   {"availability", "availabilityMode"},
		Advanced:       {"retain"},
		EntitySpecific: {"payloadPress", "stateTopic"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestCategorize_RequiredOverridesCommon(t *testing.T) {
	table := NewTableFrom(map[string]Category{"status": Common}, []string{"status"})
	got := table.Categorize([]string{"status", "other"})
	want := Buckets{Required: {"status"}, EntitySpecific: {"other"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestCategorize_EveryNameExactlyOnce(t *testing.T) {
	names := []string{"name", "uniqueId", "icon", "entityCategory", "enabledByDefault", "objectId",
		"device", "deviceRef", "availability", "availabilityMode", "qos", "retain", "encoding",
		"jsonAttributesTopic", "jsonAttributesTemplate", "rediscoverInterval", "x", "y"}
	for _, required := range [][]string{nil, {"name"}, {"x", "qos", "ghost"}} {
		buckets := NewTable(required).Categorize(names)
		if buckets.Len() != len(names) {
			t.Fatalf("required=%v: expected %d names, got %d", required, len(names), buckets.Len())
		}
		seen := map[string]int{}
		for _, bucket := range buckets {
			for _, name := range bucket {
				seen[name]++
			}
		}
		for _, name := range names {
			if seen[name] != 1 {
				t.Fatalf("required=%v: %s placed %d times", required, name, seen[name])
			}
		}
		if _, ok := seen["ghost"]; ok {
			t.Fatalf("unmatched required name surfaced")
		}
	}
}

func TestCategorize_Node(t *testing.T) {
	node := schema.Object(
		schema.Prop("commandTopic", schema.Scalar(schema.TypeString)),
		schema.Prop("name", schema.Scalar(schema.TypeString)),
		schema.Prop("payloadPress", schema.Scalar(schema.TypeString)),
	).WithRequired("commandTopic")

	got := Categorize(node)
	want := Buckets{
		Required:       {"commandTopic"},
		Common:         {"name"},
		EntitySpecific: {"payloadPress"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("buckets mismatch (-want +got):\n%s", diff)
	}

	if got := Categorize(schema.Object()); got.Len() != 0 {
		t.Fatalf("object without properties should yield no fields, got %v", got)
	}
	if got := Categorize(nil); got.Len() != 0 {
		t.Fatalf("nil node should yield no fields")
	}
}

func TestSections(t *testing.T) {
	buckets := Buckets{
		Required:       {"commandTopic"},
		EntitySpecific: {"payloadPress"},
		Advanced:       {"qos", "retain"},
	}
	want := []Section{
		{ID: "entity", Title: "Entity Configuration", Fields: []string{"commandTopic", "payloadPress"}, Open: true},
		{ID: "advanced", Title: "Advanced MQTT Settings", Fields: []string{"qos", "retain"}},
	}
	if diff := cmp.Diff(want, Sections(buckets)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if got := Sections(Buckets{}); got != nil {
		t.Fatalf("expected no sections, got %v", got)
	}
}
