package dt0

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zoobzio/dt0/json"
)

// FieldSpec is one declared field of a Definition.
// Build it with Field and the chained setters; a FieldSpec is copied when
// a Definition is built, so later changes do not affect the definition.
type FieldSpec struct {
	name       string
	typ        LogicalType
	nullable   bool
	in         Caster
	out        Caster
	rule       *Rule
	def        any
	hasDefault bool

	// bound at definition time
	index  []int
	goType reflect.Type
}

// Field declares a field named name with logical type t.
// The name is the input key and the projected key.
func Field(name string, t LogicalType) *FieldSpec {
	return &FieldSpec{name: name, typ: t}
}

// Nullable allows the field to hold no value.
func (f *FieldSpec) Nullable() *FieldSpec {
	f.nullable = true
	return f
}

// Rule attaches a property-level rule.
func (f *FieldSpec) Rule(r Rule) *FieldSpec {
	f.rule = &r
	return f
}

// In sets the caster applied to raw input before coercion.
func (f *FieldSpec) In(c Caster) *FieldSpec {
	f.in = c
	return f
}

// Out sets the caster applied to the projected value.
func (f *FieldSpec) Out(c Caster) *FieldSpec {
	f.out = c
	return f
}

// Cast sets c as both the input and the output caster.
func (f *FieldSpec) Cast(c Caster) *FieldSpec {
	f.in = c
	f.out = c
	return f
}

// Default sets the raw value used when the input has no entry for the field.
func (f *FieldSpec) Default(v any) *FieldSpec {
	f.def = v
	f.hasDefault = true
	return f
}

// Name returns the field name.
func (f *FieldSpec) Name() string { return f.name }

// Type returns the declared logical type.
func (f *FieldSpec) Type() LogicalType { return f.typ }

// IsNullable reports whether the field may hold no value.
func (f *FieldSpec) IsNullable() bool { return f.nullable }

// PropertyRule returns the rule attached directly to the field, if any.
func (f *FieldSpec) PropertyRule() (Rule, bool) {
	if f.rule == nil {
		return Rule{}, false
	}
	return *f.rule, true
}

func (f *FieldSpec) clone() *FieldSpec {
	c := *f
	if f.rule != nil {
		r := *f.rule
		c.rule = &r
	}
	return &c
}

type defConfig struct {
	name     string
	fields   []*FieldSpec
	class    *RuleGroup
	fallback *RuleGroup
	backend  Validator
	codec    Codec
}

// Option configures Define.
type Option func(*defConfig)

// Fields declares the fields of the definition in order.
func Fields(fields ...*FieldSpec) Option {
	return func(c *defConfig) { c.fields = append(c.fields, fields...) }
}

// ClassRules sets the class-level rule group.
func ClassRules(g *RuleGroup) Option {
	return func(c *defConfig) { c.class = g }
}

// ValidateWith binds a validation backend and its fallback-level rule group.
// A nil backend keeps the default TagValidator.
func ValidateWith(backend Validator, fallback *RuleGroup) Option {
	return func(c *defConfig) {
		if backend != nil {
			c.backend = backend
		}
		c.fallback = fallback
	}
}

// WithCodec sets the codec used to parse Text input and to marshal projections.
// Defaults to JSON.
func WithCodec(codec Codec) Option {
	return func(c *defConfig) { c.codec = codec }
}

// WithName overrides the type name reported in errors and signals.
func WithName(name string) Option {
	return func(c *defConfig) { c.name = name }
}

// Definition binds struct type T to an ordered list of declared fields,
// their rules and a validation backend. A Definition is immutable and safe
// for concurrent use.
type Definition[T any] struct {
	name      string
	fields    []*FieldSpec
	resolver  RuleResolver
	backend   Validator
	cdc       Codec
	effective map[string]Rule
}

// Define builds a Definition for T.
//
// Every declared field is bound to an exported field of T: first by a
// `dt0:"name"` tag, then by the json tag name, then by a case-insensitive
// match on the Go field name. Unbound fields, duplicate names, Go types
// that cannot hold the logical type, and rule tags the backend rejects
// are reported as *ConfigError.
func Define[T any](opts ...Option) (*Definition[T], error) {
	cfg := defConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.codec == nil {
		cfg.codec = json.New()
	}
	if cfg.backend == nil {
		cfg.backend = DefaultValidator()
	}

	plan, err := planFor[T]()
	if err != nil {
		return nil, err
	}
	if cfg.name == "" {
		cfg.name = plan.typeName
	}

	d := &Definition[T]{
		name:     cfg.name,
		fields:   make([]*FieldSpec, 0, len(cfg.fields)),
		resolver: RuleResolver{Class: cfg.class, Fallback: cfg.fallback},
		backend:  cfg.backend,
		cdc:      cfg.codec,
	}

	seen := make(map[string]bool, len(cfg.fields))
	for _, spec := range cfg.fields {
		if spec == nil || spec.name == "" {
			return nil, newConfigError(ErrConfig, cfg.name, "", fmt.Errorf("field without a name"))
		}
		if seen[spec.name] {
			return nil, newConfigError(ErrConfig, cfg.name, spec.name, fmt.Errorf("duplicate field"))
		}
		seen[spec.name] = true

		if !spec.typ.IsValid() {
			return nil, newConfigError(ErrConfig, spec.typ.String(), spec.name, fmt.Errorf("invalid logical type"))
		}

		b, ok := plan.lookup(spec.name)
		if !ok {
			return nil, newConfigError(ErrConfig, cfg.name, spec.name, fmt.Errorf("no matching struct field"))
		}
		if !holds(b.goType, spec.typ) {
			return nil, newConfigError(ErrConfig, spec.typ.String(), spec.name,
				fmt.Errorf("struct field %s of type %s cannot hold it", b.goName, b.goType))
		}

		f := spec.clone()
		f.index = b.index
		f.goType = b.goType
		d.fields = append(d.fields, f)
	}

	if err := d.checkRules(cfg.class, cfg.fallback); err != nil {
		return nil, err
	}
	d.effective = d.resolver.Effective(d.fields)

	emitDefinitionCreated(context.Background(), d.name, len(d.fields))
	return d, nil
}

// MustDefine is like Define but panics on error.
func MustDefine[T any](opts ...Option) *Definition[T] {
	d, err := Define[T](opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// checkRules rejects malformed tags at every level when the backend can tell.
func (d *Definition[T]) checkRules(groups ...*RuleGroup) error {
	tc, ok := d.backend.(TagChecker)
	if !ok {
		return nil
	}
	for _, f := range d.fields {
		if f.rule == nil {
			continue
		}
		if err := tc.CheckTag(f.rule.Tag); err != nil {
			return newConfigError(ErrConfig, f.rule.Tag, f.name, err)
		}
	}
	for _, g := range groups {
		for _, r := range g.rules() {
			if err := tc.CheckTag(r.Tag); err != nil {
				return newConfigError(ErrConfig, r.Tag, "", err)
			}
		}
	}
	return nil
}

// Name returns the DTO type name.
func (d *Definition[T]) Name() string { return d.name }

// GoType returns the struct type T.
func (d *Definition[T]) GoType() reflect.Type { return reflect.TypeFor[T]() }

// Fields returns the declared fields in order.
func (d *Definition[T]) Fields() []*FieldSpec {
	out := make([]*FieldSpec, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.clone()
	}
	return out
}

// EffectiveRules returns the resolved rule of every field that has one.
func (d *Definition[T]) EffectiveRules() map[string]Rule {
	out := make(map[string]Rule, len(d.effective))
	for name, r := range d.effective {
		out[name] = r
	}
	return out
}

// RuleLevel reports which level the named field's rule comes from.
func (d *Definition[T]) RuleLevel(name string) Level {
	for _, f := range d.fields {
		if f.name == name {
			_, lvl := d.resolver.Resolve(f)
			return lvl
		}
	}
	return LevelNone
}

// Codec returns the codec used for Text input and Marshal.
func (d *Definition[T]) Codec() Codec { return d.cdc }

func (d *Definition[T]) textCodec() Codec { return d.cdc }

// holds reports whether a struct field of type gt can store values of t.
func holds(gt reflect.Type, t LogicalType) bool {
	if gt.Kind() == reflect.Interface {
		return true
	}
	if t.tag == tagObject {
		obj := t.object.GoType()
		return gt == obj || (gt.Kind() == reflect.Pointer && gt.Elem() == obj)
	}
	for gt.Kind() == reflect.Pointer {
		gt = gt.Elem()
	}

	switch t.tag {
	case tagScalar:
		switch t.kind {
		case KindBool:
			return gt.Kind() == reflect.Bool
		case KindInt:
			return isIntKind(gt.Kind()) || isUintKind(gt.Kind())
		case KindFloat:
			return gt.Kind() == reflect.Float32 || gt.Kind() == reflect.Float64
		case KindString:
			return gt.Kind() == reflect.String
		}
		return false
	case tagEnum:
		return t.enum.GoType() == gt
	case tagCollection:
		if gt.Kind() != reflect.Slice {
			return false
		}
		return holds(gt.Elem(), *t.elem)
	case tagOpaque:
		return true
	default:
		return false
	}
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
