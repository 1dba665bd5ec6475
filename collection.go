package dt0

import (
	"context"
	"fmt"
	"iter"
	"reflect"
)

// CoerceCollection coerces every element of raw into elem, preserving order.
//
// Slices, arrays and iter.Seq[any] are iterable. Any other input, nil
// included, yields (nil, nil): an absent collection is not a malformed one.
// The first element that fails aborts the call with a *CollectionError and
// no partial result. Nested objects are built without validation; use a
// Definition's Validated to validate them.
func CoerceCollection(ctx context.Context, elem LogicalType, raw any) ([]any, error) {
	return coerceCollection(ctx, elem, raw, false)
}

func coerceCollection(ctx context.Context, elem LogicalType, raw any, validate bool) ([]any, error) {
	if !elem.IsValid() {
		return nil, newConfigError(ErrConfig, elem.String(), "", fmt.Errorf("invalid element type"))
	}

	var out []any
	var failed error
	each(raw, func(i int, v any) bool {
		got, err := coerceElement(ctx, elem, v, validate)
		if err != nil {
			failed = &CollectionError{Index: i, Value: v, Err: err}
			return false
		}
		out = append(out, got)
		return true
	})
	if failed != nil {
		return nil, failed
	}
	if out == nil && iterable(raw) {
		out = []any{}
	}
	return out, nil
}

// coerceElement coerces one collection element; unlike a field value,
// an element may never coerce to nothing.
func coerceElement(ctx context.Context, elem LogicalType, v any, validate bool) (any, error) {
	got, err := coerce(ctx, elem, v, validate)
	if err != nil {
		return nil, err
	}
	if isNil(got) && elem.tag != tagOpaque {
		return nil, &CoercionError{Target: elem.String(), Value: v, Cause: fmt.Errorf("no value")}
	}
	return got, nil
}

// coerce dispatches raw on the logical type t.
func coerce(ctx context.Context, t LogicalType, raw any, validate bool) (any, error) {
	switch t.tag {
	case tagScalar:
		return CoerceScalar(t.kind, raw)
	case tagEnum:
		c, ok := t.enum.Lookup(raw)
		if !ok {
			return nil, &CoercionError{Target: t.String(), Value: raw, Cause: fmt.Errorf("not a declared case")}
		}
		return c, nil
	case tagObject:
		if raw == nil {
			return nil, &CoercionError{Target: t.String(), Value: raw}
		}
		return CoerceObject(ctx, t.object, Classify(raw), validate)
	case tagCollection:
		return coerceCollection(ctx, *t.elem, raw, validate)
	case tagOpaque:
		return raw, nil
	default:
		return nil, newConfigError(ErrConfig, t.String(), "", fmt.Errorf("invalid logical type"))
	}
}

// iterable reports whether raw is a collection input.
func iterable(raw any) bool {
	switch raw.(type) {
	case nil, string, []byte:
		return false
	case iter.Seq[any], func(func(any) bool):
		return true
	}
	k := reflect.TypeOf(raw).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// each calls fn for every element of raw in order until fn returns false.
func each(raw any, fn func(i int, v any) bool) {
	if !iterable(raw) {
		return
	}
	if f, ok := raw.(func(func(any) bool)); ok {
		raw = iter.Seq[any](f)
	}
	if seq, ok := raw.(iter.Seq[any]); ok {
		i := 0
		for v := range seq {
			if !fn(i, v) {
				return
			}
			i++
		}
		return
	}
	rv := reflect.ValueOf(raw)
	for i := 0; i < rv.Len(); i++ {
		if !fn(i, rv.Index(i).Interface()) {
			return
		}
	}
}
