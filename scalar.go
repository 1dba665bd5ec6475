package dt0

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// CoerceScalar coerces raw into the Go representation of kind:
// bool, int64, float64 or string.
//
//   - bool accepts anything; nil, false, numeric zero, "0", "" and empty
//     collections are false, everything else is true.
//   - int and float parse base-10 numeric strings; nil coerces to zero.
//     Integer targets truncate decimals toward zero.
//   - string accepts any scalar through its canonical text form.
//
// Non-scalar input for int, float and string targets is a *CoercionError.
func CoerceScalar(kind ScalarKind, raw any) (any, error) {
	raw = indirect(raw)

	switch kind {
	case KindBool:
		return truthy(raw), nil
	case KindInt:
		return coerceInt(raw)
	case KindFloat:
		return coerceFloat(raw)
	case KindString:
		return coerceString(raw)
	default:
		return nil, &CoercionError{Target: kind.String(), Value: raw, Cause: fmt.Errorf("unknown scalar kind")}
	}
}

// indirect dereferences pointers; a nil pointer becomes nil.
func indirect(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != "" && b != "0"
	case []byte:
		return len(b) != 0 && string(b) != "0"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() != 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	default:
		return true
	}
}

// isScalar reports whether v has a primitive shape.
func isScalar(v any) bool {
	switch v.(type) {
	case []byte, fmt.Stringer:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func coerceInt(raw any) (any, error) {
	if raw == nil {
		return int64(0), nil
	}
	if s, ok := textOf(raw); ok {
		return parseInt(s, raw)
	}
	if !isScalar(raw) {
		return nil, &CoercionError{Target: KindInt.String(), Value: raw}
	}
	if f, ok := asFloat(raw); ok {
		return truncate(f, raw)
	}
	if rv := reflect.ValueOf(raw); isUnsigned(rv.Kind()) && rv.Uint() > math.MaxInt64 {
		return nil, &CoercionError{Target: KindInt.String(), Value: raw, Cause: fmt.Errorf("out of range")}
	}
	i, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, &CoercionError{Target: KindInt.String(), Value: raw, Cause: err}
	}
	return i, nil
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func coerceFloat(raw any) (any, error) {
	if raw == nil {
		return float64(0), nil
	}
	if s, ok := textOf(raw); ok {
		f, err := parseDecimal(s)
		if err != nil {
			return nil, &CoercionError{Target: KindFloat.String(), Value: raw, Cause: err}
		}
		return f, nil
	}
	if !isScalar(raw) {
		return nil, &CoercionError{Target: KindFloat.String(), Value: raw}
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, &CoercionError{Target: KindFloat.String(), Value: raw, Cause: err}
	}
	return f, nil
}

func coerceString(raw any) (any, error) {
	if raw == nil || !isScalar(raw) {
		return nil, &CoercionError{Target: KindString.String(), Value: raw}
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return nil, &CoercionError{Target: KindString.String(), Value: raw, Cause: err}
	}
	return s, nil
}

// textOf returns the string form of string-like values only.
func textOf(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	return 0, false
}

func parseInt(s string, raw any) (any, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := parseDecimal(s)
	if err != nil {
		return nil, &CoercionError{Target: KindInt.String(), Value: raw, Cause: err}
	}
	return truncate(f, raw)
}

func truncate(f float64, raw any) (any, error) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, &CoercionError{Target: KindInt.String(), Value: raw, Cause: fmt.Errorf("out of range")}
	}
	return int64(f), nil
}

// parseDecimal accepts base-10 notation only: sign, digits, one dot, exponent.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric string")
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return 0, fmt.Errorf("%q is not a base-10 number", s)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a base-10 number", s)
	}
	return f, nil
}
