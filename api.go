// Package dt0 builds strongly typed, validated data transfer objects from
// untyped input, and projects them back into plain serializable values.
//
// # Definitions
//
// A Definition binds a Go struct to an ordered list of declared fields.
// Each field names its logical type, its nullability, optional custom
// casters and an optional property-level rule:
//
//	type User struct {
//	    Name   string   `json:"name"`
//	    Age    int      `json:"age"`
//	    Tags   []string `json:"tags"`
//	    Secret *string  `json:"secret"`
//	}
//
//	secret, _ := dt0.NewEncrypted(cache, cfg)
//
//	users := dt0.MustDefine[User](
//	    dt0.Fields(
//	        dt0.Field("name", dt0.String()).Rule(dt0.Tag("min=2")),
//	        dt0.Field("age", dt0.Int()),
//	        dt0.Field("tags", dt0.CollectionOf(dt0.String())).Nullable(),
//	        dt0.Field("secret", dt0.Opaque()).Nullable().Cast(secret),
//	    ),
//	    dt0.ClassRules(dt0.NewRuleGroup().Field("age", dt0.Tag("gte=0"))),
//	)
//
//	user, err := users.Validated(ctx, `{"name":"alice","age":"42"}`)
//	out, err := users.Project(ctx, user)
//
// # Logical Types
//
// Every field resolves to exactly one logical type:
//
//   - Scalar: Bool, Int, Float, String
//   - Enum: a closed set of cases, see NewEnum
//   - Object: a nested Definition
//   - CollectionOf: an ordered sequence of any other logical type
//   - Opaque: a value handled by a custom caster, typically NewEncrypted
//
// # Rule Resolution
//
// Rules are declared at three levels. For each field exactly one level is
// used, in this order:
//
//  1. property: Field(...).Rule(...)
//  2. class: ClassRules(group)
//  3. fallback: ValidateWith(backend, group)
//
// Within a group an exact field name beats a category wildcard (Every).
// A field with no rule at any level is accepted unconditionally.
//
// # Encrypted Fields
//
// NewEncrypted returns a caster that encrypts on projection and decrypts
// on hydration. Plaintext input passes through, so instances can be seeded
// with unencrypted values. Keyed transforms are shared through an explicit
// TransformCache owned by the caller.
//
// # Codec Providers
//
// Text input and storage forms are handled by a Codec:
//
//   - json - JSON encoding (application/json), the default
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
package dt0

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Direction tells a Caster which boundary a value is crossing.
type Direction uint8

const (
	// Read hydrates a field from input.
	Read Direction = iota + 1

	// Write projects a field from a materialized instance.
	Write
)

func (d Direction) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Caster is a custom coercer attached to a field.
// Casters must pass nil through unchanged unless they deliberately produce a value.
type Caster interface {
	Cast(dir Direction, v any) (any, error)
}

// CasterFunc adapts a function to the Caster interface.
type CasterFunc func(dir Direction, v any) (any, error)

// Cast calls f(dir, v).
func (f CasterFunc) Cast(dir Direction, v any) (any, error) {
	return f(dir, v)
}

// ConfigLookup resolves named configuration values, such as encryption keys.
type ConfigLookup interface {
	Lookup(name string) (string, error)
}

// ConfigFunc adapts a function to the ConfigLookup interface.
type ConfigFunc func(name string) (string, error)

// Lookup calls f(name).
func (f ConfigFunc) Lookup(name string) (string, error) {
	return f(name)
}

// MapConfig is a static ConfigLookup.
type MapConfig map[string]string

// Lookup returns the value for name, or a *ConfigError when absent or empty.
func (m MapConfig) Lookup(name string) (string, error) {
	v, ok := m[name]
	if !ok || v == "" {
		return "", newConfigError(ErrConfig, name, "", nil)
	}
	return v, nil
}
