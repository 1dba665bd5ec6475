// Package msgpack provides a MessagePack codec implementation.
//
// Struct fields are keyed by their json tags so a DTO encodes with the same
// keys under every codec. Generic targets decode integers as int64 or
// uint64 and floats as float64.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec implements dt0.Codec for MessagePack.
type Codec struct{}

// New returns a MessagePack codec.
func New() *Codec {
	return &Codec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *Codec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	dec.UseLooseInterfaceDecoding(true)
	return dec.Decode(v)
}
