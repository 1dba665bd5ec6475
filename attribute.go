package dt0

import (
	"context"
	"database/sql/driver"
	"fmt"
)

// Attribute adapts a Definition to a persistence layer that stores the DTO
// as one serialized column value.
type Attribute[T any] struct {
	def      *Definition[T]
	key      string
	nullable bool
}

// Attribute returns a persistence adapter for the column named key.
func (d *Definition[T]) Attribute(key string, nullable bool) *Attribute[T] {
	return &Attribute[T]{def: d, key: key, nullable: nullable}
}

// Get hydrates a stored value: a serialized string or []byte, a map, or an
// existing instance. A nil value is nil when nullable, else a *NullabilityError.
func (a *Attribute[T]) Get(ctx context.Context, value any) (*T, error) {
	return a.resolve(ctx, value)
}

// Set resolves value like Get and returns its storage form, encoded with
// the definition's codec.
func (a *Attribute[T]) Set(ctx context.Context, value any) (*string, error) {
	v, err := a.resolve(ctx, value)
	if err != nil || v == nil {
		return nil, err
	}
	data, err := a.def.Marshal(ctx, v)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func (a *Attribute[T]) resolve(ctx context.Context, value any) (*T, error) {
	if isNil(value) {
		if a.nullable {
			return nil, nil
		}
		return nil, &NullabilityError{Type: a.def.name, Field: a.key}
	}
	return a.def.From(ctx, value)
}

// Column is a database/sql column holding a DTO in its storage form.
// It implements sql.Scanner and driver.Valuer.
type Column[T any] struct {
	Attr *Attribute[T]
	V    *T
}

// Column returns an empty column bound to a.
func (a *Attribute[T]) Column() *Column[T] {
	return &Column[T]{Attr: a}
}

// Scan implements sql.Scanner.
func (c *Column[T]) Scan(src any) error {
	if c.Attr == nil {
		return newConfigError(ErrConfig, "column", "", fmt.Errorf("no attribute bound"))
	}
	switch v := src.(type) {
	case nil, string:
	case []byte:
		src = string(v)
	default:
		return &CoercionError{Field: c.Attr.key, Target: Object(c.Attr.def).String(), Value: src}
	}
	v, err := c.Attr.Get(context.Background(), src)
	if err != nil {
		return err
	}
	c.V = v
	return nil
}

// Value implements driver.Valuer.
func (c Column[T]) Value() (driver.Value, error) {
	if c.Attr == nil {
		return nil, newConfigError(ErrConfig, "column", "", fmt.Errorf("no attribute bound"))
	}
	s, err := c.Attr.Set(context.Background(), c.V)
	if err != nil || s == nil {
		return nil, err
	}
	return *s, nil
}
