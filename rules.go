package dt0

// Check is a custom rule object. A non-nil error is a violation whose
// message is err.Error().
type Check func(field string, value any) error

// Rule is the rule expression attached to a field at one level.
// Tag is interpreted by the validation backend (for TagValidator, a
// go-playground validator tag such as "required,min=5"); Checks run after it.
type Rule struct {
	Tag    string
	Checks []Check
}

// Tag returns a rule holding a backend tag expression.
func Tag(expr string) Rule { return Rule{Tag: expr} }

// Func returns a rule holding custom checks only.
func Func(checks ...Check) Rule { return Rule{Checks: checks} }

// With returns a copy of r with checks appended.
func (r Rule) With(checks ...Check) Rule {
	out := Rule{Tag: r.Tag, Checks: make([]Check, 0, len(r.Checks)+len(checks))}
	out.Checks = append(out.Checks, r.Checks...)
	out.Checks = append(out.Checks, checks...)
	return out
}

// IsZero reports whether r declares nothing.
func (r Rule) IsZero() bool { return r.Tag == "" && len(r.Checks) == 0 }

// RuleGroup maps field names, or logical type categories, to rules.
// An exact field name beats a category entry of the same group.
type RuleGroup struct {
	names      map[string]Rule
	categories map[Category]Rule
}

// NewRuleGroup returns an empty group.
func NewRuleGroup() *RuleGroup {
	return &RuleGroup{
		names:      make(map[string]Rule),
		categories: make(map[Category]Rule),
	}
}

// Field sets the rule for the named field. Returns the group for chaining.
func (g *RuleGroup) Field(name string, r Rule) *RuleGroup {
	g.names[name] = r
	return g
}

// Every sets the rule for every field whose logical type falls in c.
func (g *RuleGroup) Every(c Category, r Rule) *RuleGroup {
	g.categories[c] = r
	return g
}

// Len returns the number of entries in the group.
func (g *RuleGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names) + len(g.categories)
}

// match returns the group's entry for a field.
func (g *RuleGroup) match(name string, c Category) (Rule, bool) {
	if g == nil {
		return Rule{}, false
	}
	if r, ok := g.names[name]; ok {
		return r, true
	}
	r, ok := g.categories[c]
	return r, ok
}

// rules returns every rule declared in the group.
func (g *RuleGroup) rules() []Rule {
	if g == nil {
		return nil
	}
	out := make([]Rule, 0, g.Len())
	for _, r := range g.names {
		out = append(out, r)
	}
	for _, r := range g.categories {
		out = append(out, r)
	}
	return out
}

// Level is the authority a field's effective rule came from.
type Level uint8

const (
	LevelNone Level = iota
	LevelProperty
	LevelClass
	LevelFallback
)

func (l Level) String() string {
	switch l {
	case LevelProperty:
		return "property"
	case LevelClass:
		return "class"
	case LevelFallback:
		return "fallback"
	default:
		return "none"
	}
}

// RuleResolver selects exactly one rule per field: the property rule,
// else the class group's entry, else the fallback group's entry.
// Rules from different levels are never merged.
type RuleResolver struct {
	Class    *RuleGroup
	Fallback *RuleGroup
}

// Resolve returns the effective rule for f and the level it came from.
// LevelNone means the field is accepted unconditionally.
func (r RuleResolver) Resolve(f *FieldSpec) (Rule, Level) {
	if f.rule != nil {
		return *f.rule, LevelProperty
	}
	c := f.typ.Category()
	if rule, ok := r.Class.match(f.name, c); ok {
		return rule, LevelClass
	}
	if rule, ok := r.Fallback.match(f.name, c); ok {
		return rule, LevelFallback
	}
	return Rule{}, LevelNone
}

// Effective resolves every field, omitting fields with no rule.
func (r RuleResolver) Effective(fields []*FieldSpec) map[string]Rule {
	out := make(map[string]Rule, len(fields))
	for _, f := range fields {
		if rule, lvl := r.Resolve(f); lvl != LevelNone {
			out[f.name] = rule
		}
	}
	return out
}
