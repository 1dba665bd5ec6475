// Package json provides a JSON codec implementation.
//
// Decoding into generic targets (map[string]any, []any, any) keeps integers
// exact: whole numbers that fit in int64 decode as int64, everything else as
// float64. Typed struct targets decode as encoding/json does.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Codec implements dt0.Codec for JSON.
type Codec struct{}

// New returns a JSON codec.
func New() *Codec {
	return &Codec{}
}

// ContentType returns the MIME type for JSON.
func (c *Codec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	switch target := v.(type) {
	case *map[string]any:
		var m map[string]any
		if err := decodeNumbers(data, &m); err != nil {
			return err
		}
		if m != nil {
			normalizeMap(m)
		}
		*target = m
		return nil
	case *[]any:
		var s []any
		if err := decodeNumbers(data, &s); err != nil {
			return err
		}
		normalizeSlice(s)
		*target = s
		return nil
	case *any:
		var a any
		if err := decodeNumbers(data, &a); err != nil {
			return err
		}
		*target = normalize(a)
		return nil
	default:
		return json.Unmarshal(data, v)
	}
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("invalid character after top-level value")
	}
	return nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		normalizeMap(t)
		return t
	case []any:
		normalizeSlice(t)
		return t
	default:
		return v
	}
}

func normalizeMap(m map[string]any) {
	for k, v := range m {
		m[k] = normalize(v)
	}
}

func normalizeSlice(s []any) {
	for i, v := range s {
		s[i] = normalize(v)
	}
}
