package openapi

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/schema"
)

const componentsDoc = `
openapi: 3.0.3
info:
  title: entities
  version: 1.0.0
paths: {}
components:
  schemas:
    Device:
      type: object
      properties:
        name:
          type: string
        identifiers:
          type: array
          items:
            type: string
    MQTTNumberSpec:
      allOf:
        - $ref: '#/components/schemas/Common'
      type: object
      required: [commandTopic]
      properties:
        commandTopic:
          type: string
        mode:
          type: string
          enum: [auto, box, slider]
        step:
          type: number
          minimum: 0.001
          default: 1
        device:
          $ref: '#/components/schemas/Device'
    Common:
      type: object
      required: [name]
      properties:
        name:
          type: string
        qos:
          type: integer
          enum: [0, 1, 2]
`

func TestDocument_Schema(t *testing.T) {
	doc, err := Load(context.Background(), []byte(componentsDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Common", "Device", "MQTTNumberSpec"}, doc.SchemaNames()); diff != "" {
		t.Fatalf("schema names mismatch (-want +got):\n%s", diff)
	}

	node, err := doc.Schema("MQTTNumberSpec")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	wantProps := []string{"commandTopic", "device", "mode", "name", "qos", "step"}
	if diff := cmp.Diff(wantProps, node.PropertyNames()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"commandTopic", "name"}, node.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	qos, _ := node.Property("qos")
	if diff := cmp.Diff(schema.Enum{"0", "1", "2"}, qos.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	step, _ := node.Property("step")
	if step.Minimum == nil || *step.Minimum != 0.001 {
		t.Fatalf("expected step minimum, got %+v", step.Minimum)
	}
	device, _ := node.Property("device")
	if !device.Is(schema.TypeObject) || len(device.PropertyNames()) != 2 {
		t.Fatalf("expected resolved device reference, got %+v", device)
	}

	if _, err := doc.Schema("Missing"); err == nil {
		t.Fatalf("expected error for missing component")
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := Load(context.Background(), []byte("{not yaml")); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}

func TestToOpenAPI(t *testing.T) {
	node := schema.Object(
		schema.Prop("commandTopic", schema.Scalar(schema.TypeString)),
		schema.Prop("qos", schema.Scalar(schema.TypeInteger).WithEnum("0", "1", "2")),
		schema.Prop("retain", schema.Scalar(schema.TypeBoolean)),
		schema.Prop("options", schema.Array(schema.Scalar(schema.TypeString))),
	).WithRequired("commandTopic", "ghost")

	out := ToOpenAPI(node)
	if !out.Type.Is("object") {
		t.Fatalf("expected object type, got %v", out.Type)
	}
	if diff := cmp.Diff([]string{"commandTopic"}, out.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	qos := out.Properties["qos"].Value
	if diff := cmp.Diff([]any{float64(0), float64(1), float64(2)}, qos.Enum); diff != "" {
		t.Fatalf("typed enum mismatch (-want +got):\n%s", diff)
	}
	if items := out.Properties["options"].Value.Items; items == nil || !items.Value.Type.Is("string") {
		t.Fatalf("expected string items, got %+v", items)
	}

	if err := out.VisitJSON(map[string]any{"commandTopic": "home/num", "qos": float64(1)}); err != nil {
		t.Fatalf("expected value to validate: %v", err)
	}
	if err := out.VisitJSON(map[string]any{"qos": float64(1)}); err == nil {
		t.Fatalf("expected missing commandTopic to fail")
	}
}

func TestToOpenAPI_UnknownTypeIsUntyped(t *testing.T) {
	out := ToOpenAPI(schema.Object(schema.Prop("blob", schema.Scalar("weird"))))
	blob := out.Properties["blob"].Value
	if blob.Type != nil {
		t.Fatalf("expected unknown type to be dropped, got %v", blob.Type)
	}
	if err := out.VisitJSON(map[string]any{"blob": "anything"}); err != nil {
		t.Fatalf("expected untyped field to accept any value: %v", err)
	}
}

func TestRoundTrip_PreservesShape(t *testing.T) {
	node := schema.Object(
		schema.Prop("availability", schema.Array(schema.Object(
			schema.Prop("topic", schema.Scalar(schema.TypeString)),
		))),
		schema.Prop("brightnessScale", schema.Scalar(schema.TypeInteger).WithRange(schema.Float(1), schema.Float(255))),
	)
	back := FromSchemaRef(schemaRef(ToOpenAPI(node)))

	if diff := cmp.Diff(node.PropertyNames(), back.PropertyNames()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	scale, _ := back.Property("brightnessScale")
	if *scale.Minimum != 1 || *scale.Maximum != 255 {
		t.Fatalf("bounds lost: %+v", scale)
	}
	availability, _ := back.Property("availability")
	if topic, ok := availability.ItemSchema().Property("topic"); !ok || !topic.Is(schema.TypeString) {
		t.Fatalf("nested item schema lost: %+v", availability.Items)
	}
}
