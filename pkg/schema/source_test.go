package schema

import "testing"

func TestParseSource(t *testing.T) {
	cases := []struct {
		in   string
		kind SourceKind
		loc  string
	}{
		{in: "https://example.com/entity-types/MQTTButton/schema", kind: SourceKindURL, loc: "https://example.com/entity-types/MQTTButton/schema"},
		{in: " ./schemas/../schemas/button.yaml ", kind: SourceKindFile, loc: "schemas/button.yaml"},
	}
	for _, tc := range cases {
		src, err := ParseSource(tc.in)
		if err != nil {
			t.Fatalf("ParseSource(%q): %v", tc.in, err)
		}
		if src.Kind() != tc.kind || src.Location() != tc.loc {
			t.Fatalf("ParseSource(%q) = %s %s", tc.in, src.Kind(), src.Location())
		}
	}

	if _, err := ParseSource(""); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestNewDocument(t *testing.T) {
	if _, err := NewDocument(nil, []byte("{}")); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := NewDocument(SourceFromFS("a.json"), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	raw := []byte(`{"type":"object","properties":{"name":{"type":"string"}}}`)
	doc := MustNewDocument(SourceFromFS("a.json"), raw)
	raw[0] = 'x'
	node, err := doc.Node()
	if err != nil {
		t.Fatalf("document should hold its own copy: %v", err)
	}
	if doc.Location() != "a.json" || len(node.PropertyNames()) != 1 {
		t.Fatalf("unexpected document %q %v", doc.Location(), node.PropertyNames())
	}
}
