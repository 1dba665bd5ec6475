package dt0

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestTagValidator_Messages(t *testing.T) {
	v := DefaultValidator()

	tests := []struct {
		name  string
		value any
		tag   string
		want  string
	}{
		{"required", "", "required", "is required"},
		{"required nil", nil, "required", "is required"},
		{"email", "nope", "email", "must be a valid email address"},
		{"url", "nope", "url", "must be a valid URL"},
		{"min string", "ab", "min=3", "must be at least 3 characters"},
		{"min items", []any{1}, "min=2", "must contain at least 2 items"},
		{"min number", int64(1), "min=2", "must be at least 2"},
		{"max string", "abcd", "max=3", "must be at most 3 characters"},
		{"max number", int64(10), "max=5", "must be at most 5"},
		{"len", "abc", "len=2", "must have length 2"},
		{"gt", int64(0), "gt=0", "must be greater than 0"},
		{"gte", int64(3), "gte=5", "must be greater than or equal to 5"},
		{"lt", 9.5, "lt=5", "must be less than 5"},
		{"lte", int64(6), "lte=5", "must be less than or equal to 5"},
		{"oneof", "c", "oneof=a b", "must be one of [a b]"},
		{"uuid", "nope", "uuid", "must be a valid UUID"},
		{"alphanum", "a-b", "alphanum", "must contain only letters and numbers"},
		{"fallback", "123", "alpha", "failed validation (alpha)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := v.Validate(map[string]any{"f": tt.value}, map[string]Rule{"f": Tag(tt.tag)})
			want := map[string][]string{"f": {tt.want}}
			if !reflect.DeepEqual(out.Violations, want) {
				t.Errorf("Validate() = %v, want %v", out.Violations, want)
			}
		})
	}
}

func TestTagValidator_Aggregates(t *testing.T) {
	v := DefaultValidator()

	out := v.Validate(
		map[string]any{"a": "", "b": int64(3), "c": "fine"},
		map[string]Rule{"a": Tag("required"), "b": Tag("gte=5"), "c": Tag("required")},
	)
	if out.Valid() {
		t.Fatal("Validate() should report violations")
	}
	if out.Count() != 2 {
		t.Errorf("Count() = %d, want 2", out.Count())
	}
	if _, ok := out.Violations["c"]; ok {
		t.Error("passing field should not be reported")
	}
}

func TestTagValidator_ChecksAfterTag(t *testing.T) {
	v := DefaultValidator()
	calls := 0
	check := func(field string, value any) error {
		calls++
		if field != "f" || value != "x" {
			t.Errorf("check(%q, %v)", field, value)
		}
		return errors.New("custom")
	}

	out := v.Validate(map[string]any{"f": "x"}, map[string]Rule{"f": Tag("min=2").With(check)})
	want := []string{"must be at least 2 characters", "custom"}
	if !reflect.DeepEqual(out.Violations["f"], want) {
		t.Errorf("Violations = %v, want %v", out.Violations["f"], want)
	}
	if calls != 1 {
		t.Errorf("check called %d times, want 1", calls)
	}
}

func TestTagValidator_InvalidTagAtValidate(t *testing.T) {
	out := DefaultValidator().Validate(map[string]any{"f": "x"}, map[string]Rule{"f": Tag("nosuchtag")})
	msgs := out.Violations["f"]
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0], `invalid rule "nosuchtag"`) {
		t.Errorf("Violations = %v", msgs)
	}
}

func TestTagValidator_CustomTag(t *testing.T) {
	even := func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}

	v, err := NewTagValidator(WithTag("even", even, "must be even"))
	if err != nil {
		t.Fatalf("NewTagValidator() error: %v", err)
	}
	if err := v.CheckTag("even"); err != nil {
		t.Errorf("CheckTag(even) error: %v", err)
	}

	out := v.Validate(map[string]any{"n": int64(3), "m": int64(4)}, map[string]Rule{"n": Tag("even"), "m": Tag("even")})
	want := map[string][]string{"n": {"must be even"}}
	if !reflect.DeepEqual(out.Violations, want) {
		t.Errorf("Violations = %v, want %v", out.Violations, want)
	}

	if err := DefaultValidator().CheckTag("even"); err == nil {
		t.Error("custom tags should not leak into the default validator")
	}
}

func TestTagValidator_CustomTagWithoutMessage(t *testing.T) {
	v, err := NewTagValidator(WithTag("never", func(validator.FieldLevel) bool { return false }, ""))
	if err != nil {
		t.Fatalf("NewTagValidator() error: %v", err)
	}
	out := v.Validate(map[string]any{"f": "x"}, map[string]Rule{"f": Tag("never")})
	if got := out.Violations["f"]; len(got) != 1 || got[0] != "failed validation (never)" {
		t.Errorf("Violations = %v", got)
	}
}

func TestNewTagValidator_RegisterError(t *testing.T) {
	_, err := NewTagValidator(WithTag("", func(validator.FieldLevel) bool { return true }, ""))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("NewTagValidator(empty name) error = %v, want ErrConfig", err)
	}
}

func TestTagValidator_CheckTag(t *testing.T) {
	v := DefaultValidator()

	for _, tag := range []string{"", "required", "min=5", "required,email", "omitempty,max=10"} {
		if err := v.CheckTag(tag); err != nil {
			t.Errorf("CheckTag(%q) error: %v", tag, err)
		}
	}
	for _, tag := range []string{"nosuchtag", "min=5,bogus"} {
		if err := v.CheckTag(tag); err == nil {
			t.Errorf("CheckTag(%q) should fail", tag)
		}
	}
}

func TestDefaultValidator_Shared(t *testing.T) {
	if DefaultValidator() != DefaultValidator() {
		t.Error("DefaultValidator() should return one shared instance")
	}
}

// recordingValidator captures the batch it receives.
type recordingValidator struct {
	values map[string]any
	rules  map[string]Rule
}

func (r *recordingValidator) Validate(values map[string]any, rules map[string]Rule) ValidationOutcome {
	r.values, r.rules = values, rules
	var out ValidationOutcome
	for name, rule := range rules {
		if rule.Tag == "reject" {
			out.add(name, fmt.Sprintf("%v rejected", values[name]))
		}
	}
	return out
}

func TestDefinition_CustomBackend(t *testing.T) {
	backend := &recordingValidator{}

	// Tags are opaque to a backend without CheckTag.
	d, err := Define[Widget](
		Fields(Field("name", String()), Field("size", Int())),
		ValidateWith(backend, NewRuleGroup().Field("name", Tag("reject"))),
	)
	if err != nil {
		t.Fatalf("Define() error: %v", err)
	}

	_, err = d.Validated(t.Context(), map[string]any{"name": "bolt", "size": 2})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validated() error = %v, want *ValidationError", err)
	}
	if got := ve.Fields["name"]; len(got) != 1 || got[0] != "bolt rejected" {
		t.Errorf("violations = %v", got)
	}
	if _, ok := backend.values["size"]; ok {
		t.Error("fields without an effective rule should not be sent to the backend")
	}
	if backend.values["name"] != "bolt" {
		t.Errorf("backend saw name = %v", backend.values["name"])
	}
}
