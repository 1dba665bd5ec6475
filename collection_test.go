package dt0

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
)

type Widget struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func widgetDefinition(t *testing.T) *Definition[Widget] {
	t.Helper()
	d, err := Define[Widget](
		Fields(
			Field("name", String()).Rule(Tag("min=2")),
			Field("size", Int()).Nullable(),
		),
	)
	if err != nil {
		t.Fatalf("Define[Widget]() error: %v", err)
	}
	return d
}

func TestCoerceCollection_Int(t *testing.T) {
	got, err := CoerceCollection(context.Background(), Int(), []any{nil, "42", 42.42, "1337.1337"})
	if err != nil {
		t.Fatalf("CoerceCollection() error: %v", err)
	}
	want := []any{int64(0), int64(42), int64(42), int64(1337)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CoerceCollection() = %#v, want %#v", got, want)
	}
}

func TestCoerceCollection_Iterables(t *testing.T) {
	ctx := context.Background()
	want := []any{"a", "b"}

	inputs := map[string]any{
		"slice":     []string{"a", "b"},
		"any slice": []any{"a", "b"},
		"array":     [2]string{"a", "b"},
		"seq":       slices.Values([]any{"a", "b"}),
		"func": func(yield func(any) bool) {
			for _, v := range []any{"a", "b"} {
				if !yield(v) {
					return
				}
			}
		},
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := CoerceCollection(ctx, String(), raw)
			if err != nil {
				t.Fatalf("CoerceCollection() error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("CoerceCollection() = %#v, want %#v", got, want)
			}
		})
	}
}

func TestCoerceCollection_NotIterable(t *testing.T) {
	for _, raw := range []any{nil, "abc", []byte("abc"), 42, map[string]any{"a": 1}, true} {
		got, err := CoerceCollection(context.Background(), Int(), raw)
		if err != nil || got != nil {
			t.Errorf("CoerceCollection(%v) = %v, %v; want nil, nil", raw, got, err)
		}
	}
}

func TestCoerceCollection_Empty(t *testing.T) {
	got, err := CoerceCollection(context.Background(), Int(), []any{})
	if err != nil {
		t.Fatalf("CoerceCollection() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("CoerceCollection([]) = %#v, want empty non-nil", got)
	}
}

func TestCoerceCollection_AllOrNothing(t *testing.T) {
	got, err := CoerceCollection(context.Background(), Int(), []any{"1", "x", "3"})
	if got != nil {
		t.Errorf("CoerceCollection() returned partial result %v", got)
	}
	if !errors.Is(err, ErrCollection) || !errors.Is(err, ErrCoercion) {
		t.Fatalf("CoerceCollection() error = %v, want ErrCollection wrapping ErrCoercion", err)
	}
	var ce *CollectionError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *CollectionError", err)
	}
	if ce.Index != 1 || ce.Value != "x" {
		t.Errorf("CollectionError = index %d value %v, want index 1 value x", ce.Index, ce.Value)
	}
}

func TestCoerceCollection_ElementNeverEmpty(t *testing.T) {
	ctx := context.Background()
	widgets := widgetDefinition(t)

	for name, elem := range map[string]LogicalType{
		"string": String(),
		"object": Object(widgets),
		"enum":   Enum(NewEnum("Color", colorRed)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := CoerceCollection(ctx, elem, []any{nil})
			var ce *CollectionError
			if !errors.As(err, &ce) || ce.Index != 0 {
				t.Errorf("CoerceCollection([nil]) error = %v, want CollectionError at 0", err)
			}
		})
	}
}

func TestCoerceCollection_Opaque(t *testing.T) {
	got, err := CoerceCollection(context.Background(), Opaque(), []any{nil, 1, "x"})
	if err != nil {
		t.Fatalf("CoerceCollection() error: %v", err)
	}
	if !reflect.DeepEqual(got, []any{nil, 1, "x"}) {
		t.Errorf("CoerceCollection() = %#v", got)
	}
}

func TestCoerceCollection_Nested(t *testing.T) {
	got, err := CoerceCollection(context.Background(), CollectionOf(Int()), []any{[]any{1, "2"}, []int{3}})
	if err != nil {
		t.Fatalf("CoerceCollection() error: %v", err)
	}
	want := []any{[]any{int64(1), int64(2)}, []any{int64(3)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CoerceCollection() = %#v, want %#v", got, want)
	}

	_, err = CoerceCollection(context.Background(), CollectionOf(Int()), []any{[]any{1}, []any{"x"}})
	var outer *CollectionError
	if !errors.As(err, &outer) || outer.Index != 1 {
		t.Fatalf("nested failure error = %v, want outer index 1", err)
	}
	var inner *CollectionError
	if !errors.As(outer.Err, &inner) || inner.Index != 0 {
		t.Errorf("nested failure inner = %v, want inner index 0", outer.Err)
	}
	_, err = CoerceCollection(context.Background(), CollectionOf(Int()), []any{[]any{1}, "abc", 7})
	if !errors.As(err, &outer) || outer.Index != 1 {
		t.Fatalf("non-iterable inner element error = %v, want outer index 1", err)
	}
	if !errors.Is(err, ErrCoercion) {
		t.Errorf("non-iterable inner element error = %v, want ErrCoercion", err)
	}
}

func TestCoerceCollection_Objects(t *testing.T) {
	widgets := widgetDefinition(t)
	existing := &Widget{Name: "kept", Size: 1}

	got, err := CoerceCollection(context.Background(), Object(widgets), []any{
		existing,
		Widget{Name: "copied", Size: 2},
		map[string]any{"name": "mapped", "size": "3"},
		`{"name":"parsed","size":4}`,
	})
	if err != nil {
		t.Fatalf("CoerceCollection() error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0] != existing {
		t.Error("existing instance should pass through unchanged")
	}

	names := []string{"kept", "copied", "mapped", "parsed"}
	for i, v := range got {
		w, ok := v.(*Widget)
		if !ok {
			t.Fatalf("element %d = %T, want *Widget", i, v)
		}
		if w.Name != names[i] || w.Size != i+1 {
			t.Errorf("element %d = %+v", i, w)
		}
	}
}

func TestCoerceCollection_ObjectsSkipValidation(t *testing.T) {
	widgets := widgetDefinition(t)

	got, err := CoerceCollection(context.Background(), Object(widgets), []any{map[string]any{"name": "x"}})
	if err != nil {
		t.Fatalf("CoerceCollection() error: %v", err)
	}
	if got[0].(*Widget).Name != "x" {
		t.Errorf("element = %+v", got[0])
	}
}

func TestCoerceCollection_InvalidElement(t *testing.T) {
	_, err := CoerceCollection(context.Background(), LogicalType{}, []any{1})
	if !errors.Is(err, ErrConfig) {
		t.Errorf("CoerceCollection(invalid) error = %v, want ErrConfig", err)
	}
}
