package flatten_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/viewlint/viewlint/flatten"
)

func compact(t *testing.T, in string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(in)); err != nil {
		t.Fatalf("compacting fixture: %v", err)
	}
	return buf.String()
}

func TestFlattenRoundTrip(t *testing.T) {
	cases := map[string]string{
		"flat object":     `{"b": 1, "a": 2}`,
		"nested":          `{"root": {"meta": {"name": "root"}, "children": [{"meta": {"name": "A"}}, {"meta": {"name": "B"}}]}}`,
		"arrays":          `{"xs": [1, "two", true, null, [3, 4], {"k": "v"}]}`,
		"empty object":    `{}`,
		"empty array":     `[]`,
		"empty members":   `{"a": {}, "b": [], "c": {"d": []}}`,
		"numbers":         `{"i": 42, "f": 3.25, "e": 1e3, "neg": -7}`,
		"top-level array": `[{"a": 1}, 2, []]`,
		"dotted keys":     `{"props.text": {"binding": 1}, "a.b[0]": 2}`,
		"unicode":         `{"héllo": "wörld"}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := flatten.FlattenBytes([]byte(in))
			if err != nil {
				t.Fatalf("Flatten: %v", err)
			}
			out, err := flatten.Unflatten(doc)
			if err != nil {
				t.Fatalf("Unflatten: %v", err)
			}
			if diff := cmp.Diff(compact(t, in), string(out)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlattenOrderPreserved(t *testing.T) {
	in := `{"z": 1, "a": {"m": 2, "b": 3}, "k": [10, 20]}`
	doc, err := flatten.FlattenBytes([]byte(in))
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	var got []string
	for _, p := range doc {
		got = append(got, p.Path.String())
	}
	want := []string{"z", "a.m", "a.b", "k[0]", "k[1]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("emission order (-want +got):\n%s", diff)
	}
}

func TestFlattenValues(t *testing.T) {
	in := `{"s": "x", "n": 1.5, "t": true, "nil": null, "o": {}, "a": []}`
	doc, err := flatten.FlattenBytes([]byte(in))
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if v, _ := doc.Lookup("s"); v != "x" {
		t.Errorf("s = %v", v)
	}
	if v, _ := doc.Lookup("n"); v != json.Number("1.5") {
		t.Errorf("n = %v (%T)", v, v)
	}
	if v, _ := doc.Lookup("t"); v != true {
		t.Errorf("t = %v", v)
	}
	if v, ok := doc.Lookup("nil"); !ok || v != nil {
		t.Errorf("nil = %v ok=%v", v, ok)
	}
	if v, _ := doc.Lookup("o"); v != (flatten.EmptyObject{}) {
		t.Errorf("o = %v (%T)", v, v)
	}
	if v, _ := doc.Lookup("a"); v != (flatten.EmptyArray{}) {
		t.Errorf("a = %v (%T)", v, v)
	}
}

func TestFlattenTopLevelScalar(t *testing.T) {
	for _, in := range []string{`42`, `"hello"`, `true`, `null`} {
		_, err := flatten.FlattenBytes([]byte(in))
		var pe *flatten.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Flatten(%s): want ParseError, got %v", in, err)
		}
	}
}

func TestFlattenMalformed(t *testing.T) {
	_, err := flatten.FlattenBytes([]byte(`{"a": `))
	var pe *flatten.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %v", err)
	}
}

func TestFlattenDuplicateKey(t *testing.T) {
	_, err := flatten.FlattenBytes([]byte(`{"a": 1, "a": 2}`))
	var pe *flatten.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError for duplicate key, got %v", err)
	}
}

func TestFlattenDepthLimit(t *testing.T) {
	in := `{"a": {"b": {"c": {"d": 1}}}}`
	if _, err := flatten.FlattenBytes([]byte(in), flatten.Options{MaxDepth: 3}); err == nil {
		t.Fatal("want depth error, got nil")
	}
	if _, err := flatten.FlattenBytes([]byte(in), flatten.Options{MaxDepth: 10}); err != nil {
		t.Fatalf("within limit: %v", err)
	}
}

func TestStdJSONDriverParity(t *testing.T) {
	in := []byte(`{"a": {"b": [1, 2.5, "x"]}, "c": null}`)
	def, err := flatten.FlattenBytes(in)
	if err != nil {
		t.Fatalf("default driver: %v", err)
	}
	std, err := flatten.Flatten(flatten.StdJSONDriver().NewBytes(in))
	if err != nil {
		t.Fatalf("stdjson driver: %v", err)
	}
	if len(def) != len(std) {
		t.Fatalf("pair count: %d vs %d", len(def), len(std))
	}
	for i := range def {
		if def[i].Path.String() != std[i].Path.String() || def[i].Value != std[i].Value {
			t.Errorf("pair %d: %v=%v vs %v=%v", i,
				def[i].Path, def[i].Value, std[i].Path, std[i].Value)
		}
	}
}

func TestUnflattenRejectsArbitraryPaths(t *testing.T) {
	doc := flatten.Document{
		{Path: flatten.NewPath(flatten.Field("a")), Value: "x"},
		{Path: flatten.NewPath(flatten.Field("a"), flatten.Field("b")), Value: "y"},
	}
	if _, err := flatten.Unflatten(doc); err == nil {
		t.Fatal("want error for conflicting paths, got nil")
	}
}
