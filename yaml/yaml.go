// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Codec implements dt0.Codec for YAML.
type Codec struct{}

// New returns a YAML codec.
func New() *Codec {
	return &Codec{}
}

// ContentType returns the MIME type for YAML.
func (c *Codec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML with two-space indentation.
func (c *Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
