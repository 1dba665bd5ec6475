package dt0

import "fmt"

// ScalarKind is one of the primitive logical types.
type ScalarKind uint8

const (
	KindBool ScalarKind = iota + 1
	KindInt
	KindFloat
	KindString
)

func (k ScalarKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("ScalarKind(%d)", uint8(k))
	}
}

// Category groups logical types for wildcard rule entries.
type Category string

const (
	CategoryBool       Category = "bool"
	CategoryInt        Category = "int"
	CategoryFloat      Category = "float"
	CategoryString     Category = "string"
	CategoryEnum       Category = "enum"
	CategoryObject     Category = "object"
	CategoryCollection Category = "collection"
	CategoryOpaque     Category = "opaque"
)

type typeTag uint8

const (
	tagScalar typeTag = iota + 1
	tagEnum
	tagObject
	tagCollection
	tagOpaque
)

// LogicalType is the declared target type of a field.
// The zero value is invalid; build one with Bool, Int, Float, String, Scalar,
// Enum, Object, CollectionOf or Opaque.
type LogicalType struct {
	tag    typeTag
	kind   ScalarKind
	enum   EnumType
	object ObjectType
	elem   *LogicalType
}

// Scalar returns the logical type for a primitive kind.
func Scalar(kind ScalarKind) LogicalType { return LogicalType{tag: tagScalar, kind: kind} }

// Bool is shorthand for Scalar(KindBool).
func Bool() LogicalType { return Scalar(KindBool) }

// Int is shorthand for Scalar(KindInt).
func Int() LogicalType { return Scalar(KindInt) }

// Float is shorthand for Scalar(KindFloat).
func Float() LogicalType { return Scalar(KindFloat) }

// String is shorthand for Scalar(KindString).
func String() LogicalType { return Scalar(KindString) }

// Enum returns the logical type for a closed set of cases.
func Enum(e EnumType) LogicalType { return LogicalType{tag: tagEnum, enum: e} }

// Object returns the logical type for a nested DTO.
func Object(o ObjectType) LogicalType { return LogicalType{tag: tagObject, object: o} }

// CollectionOf returns the logical type for an ordered sequence of elem.
func CollectionOf(elem LogicalType) LogicalType {
	return LogicalType{tag: tagCollection, elem: &elem}
}

// Opaque returns the logical type for values handled entirely by a custom caster.
func Opaque() LogicalType { return LogicalType{tag: tagOpaque} }

// IsValid reports whether t was built by one of the constructors.
func (t LogicalType) IsValid() bool {
	switch t.tag {
	case tagScalar:
		return t.kind >= KindBool && t.kind <= KindString
	case tagEnum:
		return t.enum != nil
	case tagObject:
		return t.object != nil
	case tagCollection:
		return t.elem != nil && t.elem.IsValid()
	case tagOpaque:
		return true
	default:
		return false
	}
}

// Category returns the wildcard category of t.
func (t LogicalType) Category() Category {
	switch t.tag {
	case tagScalar:
		return Category(t.kind.String())
	case tagEnum:
		return CategoryEnum
	case tagObject:
		return CategoryObject
	case tagCollection:
		return CategoryCollection
	default:
		return CategoryOpaque
	}
}

// Kind returns the scalar kind, or zero for non-scalar types.
func (t LogicalType) Kind() ScalarKind {
	if t.tag != tagScalar {
		return 0
	}
	return t.kind
}

// Elem returns the element type of a collection.
func (t LogicalType) Elem() (LogicalType, bool) {
	if t.tag != tagCollection || t.elem == nil {
		return LogicalType{}, false
	}
	return *t.elem, true
}

func (t LogicalType) String() string {
	switch t.tag {
	case tagScalar:
		return t.kind.String()
	case tagEnum:
		return fmt.Sprintf("enum(%s)", t.enum.Name())
	case tagObject:
		return fmt.Sprintf("object(%s)", t.object.Name())
	case tagCollection:
		return fmt.Sprintf("collection(%s)", t.elem.String())
	case tagOpaque:
		return "opaque"
	default:
		return "invalid"
	}
}
