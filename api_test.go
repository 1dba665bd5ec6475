package dt0

import (
	"errors"
	"testing"
)

func TestDirection_String(t *testing.T) {
	tests := map[Direction]string{
		Read:         "read",
		Write:        "write",
		Direction(0): "unknown",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("Direction(%d).String() = %q, want %q", d, got, want)
		}
	}
}

func TestCasterFunc(t *testing.T) {
	var seen Direction
	c := CasterFunc(func(dir Direction, v any) (any, error) {
		seen = dir
		return v, nil
	})

	got, err := c.Cast(Write, "x")
	if err != nil || got != "x" || seen != Write {
		t.Errorf("Cast() = %v, %v (dir %s)", got, err, seen)
	}
}

func TestConfigFunc(t *testing.T) {
	cfg := ConfigFunc(func(name string) (string, error) {
		if name == "app.key" {
			return "k", nil
		}
		return "", errors.New("unknown")
	})

	if v, err := cfg.Lookup("app.key"); err != nil || v != "k" {
		t.Errorf("Lookup(app.key) = %q, %v", v, err)
	}
	if _, err := cfg.Lookup("other"); err == nil {
		t.Error("Lookup(other) should fail")
	}
}

func TestMapConfig(t *testing.T) {
	cfg := MapConfig{"set": "v", "empty": ""}

	if v, err := cfg.Lookup("set"); err != nil || v != "v" {
		t.Errorf("Lookup(set) = %q, %v", v, err)
	}
	for _, name := range []string{"empty", "absent"} {
		_, err := cfg.Lookup(name)
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Name != name {
			t.Errorf("Lookup(%s) error = %v, want *ConfigError naming it", name, err)
		}
	}
}

func TestClassify(t *testing.T) {
	w := &Widget{}

	tests := []struct {
		name string
		in   any
		want RawInput
	}{
		{"raw input", Text("{}"), Text("{}")},
		{"map input", Map{"a": 1}, Map{"a": 1}},
		{"map", map[string]any{"a": 1}, Map{"a": 1}},
		{"string", "{}", Text("{}")},
		{"bytes", []byte("{}"), Text("{}")},
		{"pointer", w, Instance{V: w}},
		{"nil", nil, Instance{V: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			switch want := tt.want.(type) {
			case Map:
				m, ok := got.(Map)
				if !ok || len(m) != len(want) || m["a"] != want["a"] {
					t.Errorf("Classify() = %#v, want %#v", got, want)
				}
			default:
				if got != tt.want {
					t.Errorf("Classify() = %#v, want %#v", got, want)
				}
			}
		})
	}
}
