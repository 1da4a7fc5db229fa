package formstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		in   string
		want Path
	}{
		{in: "", want: Path{}},
		{in: "name", want: Path{Key("name")}},
		{in: "device.identifiers[0]", want: Path{Key("device"), Key("identifiers"), Index(0)}},
		{in: "device.connections[1][0]", want: Path{Key("device"), Key("connections"), Index(1), Index(0)}},
		{in: "availability[2].topic", want: Path{Key("availability"), Index(2), Key("topic")}},
		{in: "[3]", want: Path{Index(3)}},
	}
	for _, tc := range cases {
		got, err := ParsePath(tc.in)
		if err != nil {
			t.Fatalf("ParsePath(%q): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParsePath(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
		if got.String() != tc.in {
			t.Fatalf("String() = %q, want %q", got.String(), tc.in)
		}
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, in := range []string{".a", "a.", "a..b", "a[", "a[x]", "a[-1]", "a[0]b", "a]"} {
		if _, err := ParsePath(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestPointer(t *testing.T) {
	path := Path{Key("device"), Key("a/b~c"), Index(2)}
	if got := path.Pointer(); got != "/device/a~1b~0c/2" {
		t.Fatalf("unexpected pointer %q", got)
	}
	back, err := ParsePointer("#" + path.Pointer())
	if err != nil {
		t.Fatalf("ParsePointer: %v", err)
	}
	if diff := cmp.Diff(path, back); diff != "" {
		t.Fatalf("pointer round trip mismatch (-want +got):\n%s", diff)
	}
	if _, err := ParsePointer("device"); err == nil {
		t.Fatalf("expected error for relative pointer")
	}
	if root, _ := ParsePointer(""); len(root) != 0 {
		t.Fatalf("empty pointer should be root")
	}
}

func TestPath_ExtendDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = Key("device")
	a := base.Key("name")
	b := base.Key("model")
	if a[1].Name != "name" || b[1].Name != "model" {
		t.Fatalf("extended paths share storage: %v %v", a, b)
	}
}
