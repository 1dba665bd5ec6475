package dt0

// RawInput is the closed set of shapes accepted when building a DTO:
// an already typed instance, a structured map, or structured text.
type RawInput interface {
	rawInput()
}

// Instance wraps a value that may already be a typed DTO.
type Instance struct {
	V any
}

// Map is a structured field-name to value mapping.
type Map map[string]any

// Text is structured text (JSON by default) parsed by the definition's codec.
type Text string

func (Instance) rawInput() {}
func (Map) rawInput()      {}
func (Text) rawInput()     {}

// Classify converts an untyped value into a RawInput.
// RawInput values are returned unchanged; map[string]any becomes Map;
// string and []byte become Text; anything else becomes Instance.
func Classify(v any) RawInput {
	switch in := v.(type) {
	case RawInput:
		return in
	case map[string]any:
		return Map(in)
	case string:
		return Text(in)
	case []byte:
		return Text(in)
	default:
		return Instance{V: v}
	}
}
