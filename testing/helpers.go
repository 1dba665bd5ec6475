// Package testing provides test utilities for dt0.
package testing

import (
	"encoding/base64"
	"testing"

	"github.com/zoobzio/dt0"
)

// TestKey returns a valid 32-byte AES-256 key for testing.
func TestKey(t testing.TB) []byte {
	t.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestCache returns an empty transform cache.
func TestCache(t testing.TB) *dt0.TransformCache {
	t.Helper()
	return dt0.NewTransformCache()
}

// TestConfig returns a config lookup providing app.key and app.cipher.
func TestConfig(t testing.TB) dt0.MapConfig {
	t.Helper()
	return dt0.MapConfig{
		dt0.ConfigKeyName:    "base64:" + base64.StdEncoding.EncodeToString(TestKey(t)),
		dt0.ConfigCipherName: string(dt0.DefaultCipher),
	}
}

// TestEncrypted returns an encrypting caster keyed by TestConfig, backed by cache.
func TestEncrypted(t testing.TB, cache *dt0.TransformCache, opts ...dt0.EncryptedOption) *dt0.EncryptedCaster {
	t.Helper()
	c, err := dt0.NewEncrypted(cache, TestConfig(t), opts...)
	if err != nil {
		t.Fatalf("NewEncrypted() error: %v", err)
	}
	return c
}

// Item is a flat DTO of three string properties.
type Item struct {
	Prop1 string `json:"prop1"`
	Prop2 string `json:"prop2"`
	Prop3 string `json:"prop3"`
}

// ItemDefinition declares Item with every property required.
func ItemDefinition(t testing.TB) *dt0.Definition[Item] {
	t.Helper()
	d, err := dt0.Define[Item](
		dt0.Fields(
			dt0.Field("prop1", dt0.String()),
			dt0.Field("prop2", dt0.String()),
			dt0.Field("prop3", dt0.String()),
		),
		dt0.ClassRules(dt0.NewRuleGroup().Every(dt0.CategoryString, dt0.Tag("required"))),
	)
	if err != nil {
		t.Fatalf("Define[Item]() error: %v", err)
	}
	return d
}

// Status is an int backed enum.
type Status int

const (
	StatusDraft Status = iota + 1
	StatusActive
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusActive:
		return "active"
	case StatusArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// Statuses is the enum type of Status.
var Statuses = dt0.NewEnum("Status", StatusDraft, StatusActive, StatusArchived)

// Order exercises every logical type.
type Order struct {
	ID      int64   `json:"id"`
	Status  Status  `json:"status"`
	Total   float64 `json:"total"`
	Paid    bool    `json:"paid"`
	Items   []*Item `json:"items"`
	Tags    []string
	Owner   *Item   `json:"owner"`
	Secret  *string `json:"secret"`
	Comment *string `dt0:"note"`
}

// OrderDefinition declares Order with an encrypted secret backed by cache.
// opts are applied after the field declarations.
func OrderDefinition(t testing.TB, cache *dt0.TransformCache, opts ...dt0.Option) *dt0.Definition[Order] {
	t.Helper()
	items := ItemDefinition(t)
	d, err := dt0.Define[Order](append([]dt0.Option{
		dt0.Fields(
			dt0.Field("id", dt0.Int()).Rule(dt0.Tag("gt=0")),
			dt0.Field("status", dt0.Enum(Statuses)).Default(StatusDraft),
			dt0.Field("total", dt0.Float()),
			dt0.Field("paid", dt0.Bool()),
			dt0.Field("items", dt0.CollectionOf(dt0.Object(items))),
			dt0.Field("tags", dt0.CollectionOf(dt0.String())).Nullable(),
			dt0.Field("owner", dt0.Object(items)).Nullable(),
			dt0.Field("secret", dt0.Opaque()).Nullable().Cast(TestEncrypted(t, cache)),
			dt0.Field("note", dt0.String()).Nullable(),
		),
	}, opts...)...)
	if err != nil {
		t.Fatalf("Define[Order]() error: %v", err)
	}
	return d
}
