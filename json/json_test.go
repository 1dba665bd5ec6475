package json

import (
	"testing"
)

func TestContentType(t *testing.T) {
	if got := New().ContentType(); got != "application/json" {
		t.Errorf("ContentType() = %q, want %q", got, "application/json")
	}
}

func TestMapRoundTrip(t *testing.T) {
	c := New()

	original := map[string]any{
		"prop1":  "one",
		"nested": map[string]any{"key": "value"},
		"list":   []any{"a", "b"},
	}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored map[string]any
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored["prop1"] != "one" {
		t.Errorf("prop1 = %v, want %q", restored["prop1"], "one")
	}
	nested, ok := restored["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested = %T, want map[string]any", restored["nested"])
	}
	if nested["key"] != "value" {
		t.Errorf("nested.key = %v, want %q", nested["key"], "value")
	}
	list, ok := restored["list"].([]any)
	if !ok || len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Errorf("list = %#v, want [a b]", restored["list"])
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v map[string]any
	if err := New().Unmarshal([]byte(`{"name":`), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestMarshalNil(t *testing.T) {
	data, err := New().Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestUnmarshalExactIntegers(t *testing.T) {
	c := New()

	var m map[string]any
	data := []byte(`{"max":9223372036854775807,"big":9007199254740993,"neg":-3,"frac":1.5,"huge":1e300,"list":[1,2.5],"obj":{"n":7}}`)
	if err := c.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	checks := map[string]any{
		"max":  int64(9223372036854775807),
		"big":  int64(9007199254740993),
		"neg":  int64(-3),
		"frac": 1.5,
		"huge": 1e300,
	}
	for k, want := range checks {
		if m[k] != want {
			t.Errorf("%s = %#v, want %#v", k, m[k], want)
		}
	}
	list, ok := m["list"].([]any)
	if !ok || len(list) != 2 || list[0] != int64(1) || list[1] != 2.5 {
		t.Errorf("list = %#v, want [1 2.5]", m["list"])
	}
	obj, ok := m["obj"].(map[string]any)
	if !ok || obj["n"] != int64(7) {
		t.Errorf("obj = %#v, want n=7", m["obj"])
	}
}

func TestUnmarshalGenericTargets(t *testing.T) {
	c := New()

	var s []any
	if err := c.Unmarshal([]byte(`[1,"a"]`), &s); err != nil {
		t.Fatalf("Unmarshal([]any) error: %v", err)
	}
	if len(s) != 2 || s[0] != int64(1) || s[1] != "a" {
		t.Errorf("slice = %#v", s)
	}

	var a any
	if err := c.Unmarshal([]byte(`42`), &a); err != nil {
		t.Fatalf("Unmarshal(any) error: %v", err)
	}
	if a != int64(42) {
		t.Errorf("any = %#v, want int64(42)", a)
	}

	var m map[string]any
	if err := c.Unmarshal([]byte(`null`), &m); err != nil {
		t.Fatalf("Unmarshal(null) error: %v", err)
	}
	if m != nil {
		t.Errorf("Unmarshal(null) = %#v, want nil map", m)
	}

	if err := c.Unmarshal([]byte(`{"a":1} {"b":2}`), &m); err == nil {
		t.Error("Unmarshal(trailing value) should return error")
	}
}

func TestUnmarshalStruct(t *testing.T) {
	var v struct {
		N int64 `json:"n"`
	}
	if err := New().Unmarshal([]byte(`{"n":9223372036854775807}`), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.N != 9223372036854775807 {
		t.Errorf("N = %d, want max int64", v.N)
	}
}
