package dt0

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationOutcome maps field names to ordered violation messages.
// An empty outcome is valid.
type ValidationOutcome struct {
	Violations map[string][]string
}

// Valid reports whether no rule was violated.
func (o ValidationOutcome) Valid() bool { return len(o.Violations) == 0 }

// Count returns the total number of violation messages.
func (o ValidationOutcome) Count() int {
	n := 0
	for _, msgs := range o.Violations {
		n += len(msgs)
	}
	return n
}

func (o *ValidationOutcome) add(field, msg string) {
	if o.Violations == nil {
		o.Violations = make(map[string][]string)
	}
	o.Violations[field] = append(o.Violations[field], msg)
}

// Validator is a validation backend. It receives the coerced field values
// and the effective rule of every field that has one, as one batch.
type Validator interface {
	Validate(values map[string]any, rules map[string]Rule) ValidationOutcome
}

// TagChecker is implemented by backends that can reject a malformed rule
// tag when a definition is built rather than at validation time.
type TagChecker interface {
	CheckTag(tag string) error
}

// TagValidator is the default backend. Rule tags use go-playground
// validator syntax and are applied to each value with Var.
type TagValidator struct {
	validate *validator.Validate
	messages map[string]string
}

// TagOption configures a TagValidator.
type TagOption func(*tagConfig)

type tagConfig struct {
	tags     map[string]validator.Func
	messages map[string]string
}

// WithTag registers a custom validation tag. msg, when not empty, is the
// violation message reported for it.
func WithTag(name string, fn validator.Func, msg string) TagOption {
	return func(c *tagConfig) {
		c.tags[name] = fn
		if msg != "" {
			c.messages[name] = msg
		}
	}
}

// NewTagValidator returns a TagValidator with any custom tags registered.
func NewTagValidator(opts ...TagOption) (*TagValidator, error) {
	cfg := tagConfig{
		tags:     make(map[string]validator.Func),
		messages: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	for name, fn := range cfg.tags {
		if err := v.RegisterValidation(name, fn); err != nil {
			return nil, newConfigError(ErrConfig, name, "", fmt.Errorf("register tag: %w", err))
		}
	}
	return &TagValidator{validate: v, messages: cfg.messages}, nil
}

var defaultTagValidator = sync.OnceValue(func() *TagValidator {
	v, _ := NewTagValidator() //nolint:errcheck // no custom tags, cannot fail
	return v
})

// DefaultValidator returns the shared TagValidator used when a definition
// has no explicit backend.
func DefaultValidator() *TagValidator { return defaultTagValidator() }

// Validate applies each rule to its field. Fields are visited in name
// order; within a field the tag is applied before the checks.
func (v *TagValidator) Validate(values map[string]any, rules map[string]Rule) ValidationOutcome {
	var out ValidationOutcome

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := rules[name]
		value := values[name]

		if rule.Tag != "" {
			for _, msg := range v.applyTag(value, rule.Tag) {
				out.add(name, msg)
			}
		}
		for _, check := range rule.Checks {
			if err := check(name, value); err != nil {
				out.add(name, err.Error())
			}
		}
	}
	return out
}

func (v *TagValidator) applyTag(value any, tag string) (msgs []string) {
	defer func() {
		if r := recover(); r != nil {
			msgs = []string{fmt.Sprintf("invalid rule %q: %v", tag, r)}
		}
	}()

	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs = make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, v.message(fe))
	}
	return msgs
}

// CheckTag reports whether tag parses against the registered validations.
func (v *TagValidator) CheckTag(tag string) (err error) {
	if tag == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	_ = v.validate.Var(nil, tag) //nolint:errcheck // only parsing matters here
	return nil
}

// message renders a violation in the same register as the built-in messages.
func (v *TagValidator) message(e validator.FieldError) string {
	if msg, ok := v.messages[e.Tag()]; ok {
		return msg
	}

	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		if isCountKind(e.Kind()) {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		if isCountKind(e.Kind()) {
			return fmt.Sprintf("must contain at most %s items", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "len":
		return fmt.Sprintf("must have length %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain only letters and numbers"
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}

func isCountKind(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}
