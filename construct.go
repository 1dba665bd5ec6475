package dt0

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// From builds a *T from raw without validation. raw may be a RawInput or
// any value accepted by Classify: an existing *T or T, a map[string]any,
// or structured text.
func (d *Definition[T]) From(ctx context.Context, raw any) (*T, error) {
	return d.construct(ctx, raw, false)
}

// Validated builds a *T from raw like From, then validates it against the
// effective rules. Nested objects are validated as they are built.
func (d *Definition[T]) Validated(ctx context.Context, raw any) (*T, error) {
	return d.construct(ctx, raw, true)
}

func (d *Definition[T]) construct(ctx context.Context, raw any, validate bool) (*T, error) {
	start := time.Now()
	emitConstructStart(ctx, d.name)

	v, err := CoerceObject(ctx, d, Classify(raw), validate)
	emitConstructComplete(ctx, d.name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// Validate checks an existing instance against the effective rules.
// Violations are returned together as a *ValidationError.
func (d *Definition[T]) Validate(ctx context.Context, v *T) error {
	if v == nil {
		return &CoercionError{Target: Object(d).String(), Value: v, Cause: fmt.Errorf("nil instance")}
	}
	return d.validate(ctx, v)
}

func (d *Definition[T]) validate(ctx context.Context, v *T) error {
	if len(d.effective) == 0 {
		return nil
	}
	start := time.Now()

	rv := reflect.ValueOf(v).Elem()
	values := make(map[string]any, len(d.fields))
	for _, f := range d.fields {
		if _, ok := d.effective[f.name]; ok {
			values[f.name] = indirect(rv.FieldByIndex(f.index).Interface())
		}
	}

	outcome := d.backend.Validate(values, d.effective)
	emitValidateComplete(ctx, d.name, outcome.Count(), time.Since(start))
	if outcome.Valid() {
		return nil
	}
	return &ValidationError{Type: d.name, Fields: outcome.Violations}
}

// build constructs a new *T from a structured map.
func (d *Definition[T]) build(ctx context.Context, m map[string]any, validate bool) (any, error) {
	out := new(T)
	rv := reflect.ValueOf(out).Elem()

	for _, f := range d.fields {
		raw, ok := m[f.name]
		if !ok && f.hasDefault {
			raw = f.def
		}

		v, err := d.hydrate(ctx, f, raw, validate)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if err := assign(rv.FieldByIndex(f.index), v); err != nil {
			return nil, &CoercionError{Field: f.name, Target: f.goType.String(), Value: v, Cause: err}
		}
	}

	if validate {
		if err := d.validate(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// hydrate runs the input caster and coercion for one field.
// A nil result leaves the struct field at its zero value.
func (d *Definition[T]) hydrate(ctx context.Context, f *FieldSpec, raw any, validate bool) (any, error) {
	if f.in != nil {
		var err error
		raw, err = f.in.Cast(Read, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
	}
	if raw == nil {
		return nil, d.absent(f)
	}

	v, err := coerce(ctx, f.typ, raw, validate)
	if err != nil {
		return nil, withField(err, f.name)
	}
	if v == nil {
		return nil, d.absent(f)
	}
	return v, nil
}

func (d *Definition[T]) absent(f *FieldSpec) error {
	if f.nullable {
		return nil
	}
	return &NullabilityError{Type: d.name, Field: f.name}
}

// instance accepts an existing *T, or copies a T into a new *T.
func (d *Definition[T]) instance(v any) (any, bool) {
	switch in := v.(type) {
	case *T:
		if in == nil {
			return nil, false
		}
		return in, true
	case T:
		c := in
		return &c, true
	default:
		return nil, false
	}
}

func (d *Definition[T]) check(ctx context.Context, v any) error {
	return d.validate(ctx, v.(*T))
}

// Project converts v into plain values keyed by field name: scalars as
// bool, int64, float64 or string, enums as their backing value, nested
// objects as maps and collections as []any. Output casters run last.
func (d *Definition[T]) Project(ctx context.Context, v *T) (map[string]any, error) {
	start := time.Now()
	out, err := d.project(ctx, v)
	emitProjectComplete(ctx, d.name, time.Since(start), err)
	return out, err
}

// Marshal projects v and encodes the result with the definition's codec.
func (d *Definition[T]) Marshal(ctx context.Context, v *T) ([]byte, error) {
	m, err := d.Project(ctx, v)
	if err != nil {
		return nil, err
	}
	data, err := d.cdc.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return data, nil
}

func (d *Definition[T]) project(ctx context.Context, v any) (map[string]any, error) {
	p, ok := d.instance(v)
	if !ok {
		return nil, &CoercionError{Target: Object(d).String(), Value: v, Cause: fmt.Errorf("nil instance")}
	}
	rv := reflect.ValueOf(p).Elem()

	out := make(map[string]any, len(d.fields))
	for _, f := range d.fields {
		value, err := plain(ctx, f.typ, rv.FieldByIndex(f.index).Interface())
		if err != nil {
			return nil, withField(err, f.name)
		}
		if f.out != nil {
			value, err = f.out.Cast(Write, value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.name, err)
			}
		}
		out[f.name] = value
	}
	return out, nil
}

// plain converts a typed field value into its serializable form.
func plain(ctx context.Context, t LogicalType, v any) (any, error) {
	if t.tag == tagObject {
		if isNil(v) {
			return nil, nil
		}
		return t.object.project(ctx, v)
	}

	v = indirect(v)
	if v == nil {
		return nil, nil
	}

	switch t.tag {
	case tagScalar:
		return CoerceScalar(t.kind, v)
	case tagEnum:
		return t.enum.Backing(v), nil
	case tagCollection:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := plain(ctx, *t.elem, rv.Index(i).Interface())
			if err != nil {
				return nil, &CollectionError{Index: i, Value: rv.Index(i).Interface(), Err: err}
			}
			out = append(out, e)
		}
		return out, nil
	default:
		return v, nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// assign stores a coerced value into a struct field, converting between
// the coerced representation and the field's Go type.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(v)
	dt := dst.Type()

	if src.Type().AssignableTo(dt) {
		dst.Set(src)
		return nil
	}

	switch dt.Kind() {
	case reflect.Pointer:
		if src.Kind() == reflect.Pointer {
			if src.IsNil() {
				dst.Set(reflect.Zero(dt))
				return nil
			}
			return assign(dst, src.Elem().Interface())
		}
		p := reflect.New(dt.Elem())
		if err := assign(p.Elem(), v); err != nil {
			return err
		}
		dst.Set(p)
		return nil

	case reflect.Slice:
		if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
			break
		}
		out := reflect.MakeSlice(dt, src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := assign(out.Index(i), src.Index(i).Interface()); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil
	}

	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return nil
		}
		return assign(dst, src.Elem().Interface())
	}

	switch {
	case isIntKind(dt.Kind()) && isIntKind(src.Kind()):
		if dst.OverflowInt(src.Int()) {
			return fmt.Errorf("%d overflows %s", src.Int(), dt)
		}
		dst.SetInt(src.Int())
		return nil
	case isUintKind(dt.Kind()) && isIntKind(src.Kind()):
		if src.Int() < 0 || dst.OverflowUint(uint64(src.Int())) {
			return fmt.Errorf("%d overflows %s", src.Int(), dt)
		}
		dst.SetUint(uint64(src.Int()))
		return nil
	case (dt.Kind() == reflect.Float32 || dt.Kind() == reflect.Float64) && src.Kind() == reflect.Float64:
		dst.SetFloat(src.Float())
		return nil
	case dt.Kind() == reflect.String && src.Kind() == reflect.String,
		dt.Kind() == reflect.Bool && src.Kind() == reflect.Bool:
		dst.Set(src.Convert(dt))
		return nil
	}
	return fmt.Errorf("cannot store %T in %s", v, dt)
}
