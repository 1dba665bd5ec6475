package dt0

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the binding tag with sentinel
	sentinel.Tag("dt0")
}

// binding locates one exported struct field.
type binding struct {
	index  []int
	goType reflect.Type
	goName string
}

// bindingPlan indexes the exported fields of a struct type by every name a
// declared field may bind through.
type bindingPlan struct {
	typeName string
	byTag    map[string]binding
	byJSON   map[string]binding
	byName   map[string]binding // lower-cased Go name
}

func (p *bindingPlan) lookup(name string) (binding, bool) {
	if b, ok := p.byTag[name]; ok {
		return b, true
	}
	if b, ok := p.byJSON[name]; ok {
		return b, true
	}
	b, ok := p.byName[strings.ToLower(name)]
	return b, ok
}

var (
	plans   = make(map[reflect.Type]*bindingPlan)
	plansMu sync.RWMutex

	definitions   = make(map[reflect.Type]any)
	definitionsMu sync.RWMutex
)

// planFor returns the cached binding plan for T, building it on first use.
func planFor[T any]() (*bindingPlan, error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	plansMu.RLock()
	if plan, ok := plans[typ]; ok {
		plansMu.RUnlock()
		return plan, nil
	}
	plansMu.RUnlock()

	if typ.Kind() != reflect.Struct {
		return nil, newConfigError(ErrConfig, typ.String(), "", fmt.Errorf("definition type must be a struct"))
	}
	plan := buildPlan(typ, sentinel.Scan[T]())

	// Slow path: cache with write-lock
	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[typ]; ok {
		return cached, nil
	}
	plans[typ] = plan
	return plan, nil
}

func buildPlan(typ reflect.Type, meta sentinel.Metadata) *bindingPlan {
	plan := &bindingPlan{
		typeName: typ.Name(),
		byTag:    make(map[string]binding),
		byJSON:   make(map[string]binding),
		byName:   make(map[string]binding),
	}
	for _, field := range meta.Fields {
		if len(field.Index) == 0 {
			continue
		}
		sf := typ.FieldByIndex(field.Index)
		if !sf.IsExported() {
			continue
		}
		b := binding{index: field.Index, goType: sf.Type, goName: sf.Name}

		if name := tagName(field.Tags["dt0"]); name != "" {
			plan.byTag[name] = b
		} else if name := tagName(sf.Tag.Get("dt0")); name != "" {
			plan.byTag[name] = b
		}
		if name := tagName(sf.Tag.Get("json")); name != "" {
			plan.byJSON[name] = b
		}
		plan.byName[strings.ToLower(sf.Name)] = b
	}
	return plan
}

// tagName returns the name part of a struct tag value; "-" means none.
func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// Use returns the cached Definition for T or builds a new one.
// The first successful build wins; options of later calls are ignored.
func Use[T any](opts ...Option) (*Definition[T], error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	definitionsMu.RLock()
	if cached, ok := definitions[typ]; ok {
		definitionsMu.RUnlock()
		return cached.(*Definition[T]), nil
	}
	definitionsMu.RUnlock()

	// Slow path: build and cache with write-lock
	definitionsMu.Lock()
	defer definitionsMu.Unlock()

	// Double-check pattern
	if cached, ok := definitions[typ]; ok {
		return cached.(*Definition[T]), nil
	}

	d, err := Define[T](opts...)
	if err != nil {
		return nil, err
	}

	definitions[typ] = d
	return d, nil
}

// Reset clears the definition registry and the binding plan cache.
// This is primarily useful for test isolation.
func Reset() {
	definitionsMu.Lock()
	definitions = make(map[reflect.Type]any)
	definitionsMu.Unlock()

	plansMu.Lock()
	plans = make(map[reflect.Type]*bindingPlan)
	plansMu.Unlock()
}
