package dt0

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// EnumType describes a closed set of cases.
type EnumType interface {
	// Name identifies the enum in errors and rule categories.
	Name() string

	// GoType is the Go type of the cases.
	GoType() reflect.Type

	// Lookup resolves raw into a declared case.
	Lookup(raw any) (any, bool)

	// Backing returns the serializable value of a case.
	Backing(v any) any
}

// EnumOf is an EnumType over the cases of E.
type EnumOf[E comparable] struct {
	name  string
	cases []E
}

// NewEnum declares an enum whose only valid values are cases.
//
// Lookup accepts a declared case, the case's backing string or integer value,
// or the case's String() form when E implements fmt.Stringer.
func NewEnum[E comparable](name string, cases ...E) *EnumOf[E] {
	return &EnumOf[E]{name: name, cases: cases}
}

func (e *EnumOf[E]) Name() string { return e.name }

func (e *EnumOf[E]) GoType() reflect.Type { return reflect.TypeFor[E]() }

// Cases returns the declared cases in declaration order.
func (e *EnumOf[E]) Cases() []E {
	out := make([]E, len(e.cases))
	copy(out, e.cases)
	return out
}

func (e *EnumOf[E]) Lookup(raw any) (any, bool) {
	raw = indirect(raw)
	if raw == nil {
		return nil, false
	}

	if c, ok := raw.(E); ok {
		for _, declared := range e.cases {
			if declared == c {
				return c, true
			}
		}
		return nil, false
	}

	for _, c := range e.cases {
		if backingEqual(c, raw) {
			return c, true
		}
	}

	if s, ok := raw.(string); ok {
		for _, c := range e.cases {
			if st, ok := any(c).(fmt.Stringer); ok && st.String() == s {
				return c, true
			}
		}
	}
	return nil, false
}

func (e *EnumOf[E]) Backing(v any) any {
	return backing(v)
}

// backing unwraps a named string or integer type to its primitive value.
// Unsigned values above math.MaxInt64 stay uint64 and never match by backing.
func backing(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return u
		}
		return int64(u)
	default:
		return v
	}
}

func backingEqual(c, raw any) bool {
	want := backing(c)
	switch w := want.(type) {
	case string:
		s, ok := textOf(raw)
		return ok && s == w
	case int64:
		if s, ok := textOf(raw); ok {
			got, err := coerceInt(s)
			return err == nil && got == w && isIntegral(s)
		}
		if _, isBool := raw.(bool); isBool || !isScalar(raw) {
			return false
		}
		if f, ok := asFloat(raw); ok {
			return f == float64(w)
		}
		got, err := coerceInt(raw)
		return err == nil && got == w
	default:
		return false
	}
}

func isIntegral(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}
