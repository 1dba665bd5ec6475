package dt0

import (
	"context"
	"fmt"
	"reflect"
)

// ObjectType is the logical type of a nested DTO. It is implemented by
// *Definition[T]; the coerced value of an object field is always *T.
type ObjectType interface {
	// Name identifies the DTO type in errors and signals.
	Name() string

	// GoType is the struct type T.
	GoType() reflect.Type

	textCodec() Codec
	instance(v any) (any, bool)
	build(ctx context.Context, m map[string]any, validate bool) (any, error)
	check(ctx context.Context, v any) error
	project(ctx context.Context, v any) (map[string]any, error)
}

// CoerceObject resolves raw into a typed instance of o.
//
//   - Instance: returned unchanged when it already holds a *T (a T value is
//     copied into a new *T). With validate set, the instance is validated.
//   - Map: built field by field, then validated when validate is set.
//   - Text: parsed with the definition's codec, then handled as a Map.
//     Malformed text is a *ParseError.
//
// Any other shape is a *CoercionError.
func CoerceObject(ctx context.Context, o ObjectType, raw RawInput, validate bool) (any, error) {
	target := Object(o).String()

	switch in := raw.(type) {
	case Instance:
		p, ok := o.instance(in.V)
		if !ok {
			return nil, &CoercionError{Target: target, Value: in.V}
		}
		if validate {
			if err := o.check(ctx, p); err != nil {
				return nil, err
			}
		}
		return p, nil

	case Map:
		return o.build(ctx, in, validate)

	case Text:
		c := o.textCodec()
		var m map[string]any
		if err := c.Unmarshal([]byte(in), &m); err != nil {
			return nil, &ParseError{ContentType: c.ContentType(), Cause: err}
		}
		if m == nil {
			return nil, &ParseError{ContentType: c.ContentType(), Cause: fmt.Errorf("not an object")}
		}
		return o.build(ctx, m, validate)

	default:
		return nil, &CoercionError{Target: target, Value: raw}
	}
}
