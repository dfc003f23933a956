package overrides

import (
	"fmt"
	"maps"
	"slices"

	"shape-prober/internal/diagnostic"
	"shape-prober/shape"
)

// Set is a lookup table of synthetic values keyed by type identifier.
// A Set is safe for concurrent reads once built.
type Set struct {
	entries map[string]*entry
	diags   diagnostic.Diagnostics
}

type entry struct {
	name     string
	value    any
	hasValue bool
	fields   map[string]any
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{entries: make(map[string]*entry)}
}

// Compile validates f and builds a Set from it. Validation warnings are kept
// on the Set, see Diagnostics.
func Compile(f *File) (*Set, error) {
	diags := Validate(f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid override file: %w", diags.Error())
	}

	s := NewSet()
	s.diags.Merge(*diags)
	for i := range f.Types {
		to := &f.Types[i]
		if to.HasValue {
			s.AddScalar(to.Type, to.Value)
		}

		for k, v := range to.Fields {
			s.AddField(to.Type, k, v)
		}
	}

	return s, nil
}

// AddScalar registers the single value accepted by the named type.
func (s *Set) AddScalar(name string, value any) {
	e := s.entry(name)
	e.value = value
	e.hasValue = true
}

// AddField registers a value accepted by the named type for key.
func (s *Set) AddField(name, key string, value any) {
	s.entry(name).fields[key] = value
}

func (s *Set) entry(name string) *entry {
	e, ok := s.entries[name]
	if !ok {
		e = &entry{name: name, fields: map[string]any{}}
		s.entries[name] = e
	}

	return e
}

// Merge copies every entry of other into s; other wins on conflicts.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}

	s.diags.Merge(other.diags)

	for name, e := range other.entries {
		if e.hasValue {
			s.AddScalar(name, e.value)
		}

		for k, v := range e.fields {
			s.AddField(name, k, v)
		}
	}
}

// Diagnostics returns the validation findings of every file compiled into s.
func (s *Set) Diagnostics() diagnostic.Diagnostics {
	if s == nil {
		return diagnostic.Diagnostics{}
	}

	return s.diags
}

// lookup finds the entry for id by full identifier first, then by the
// package-alias qualified form.
func (s *Set) lookup(id shape.TypeID) (*entry, bool) {
	if s == nil {
		return nil, false
	}

	if e, ok := s.entries[id.String()]; ok {
		return e, true
	}

	e, ok := s.entries[id.Short()]
	return e, ok
}

// Scalar returns the single value registered for id.
func (s *Set) Scalar(id shape.TypeID) (any, bool) {
	e, ok := s.lookup(id)
	if !ok || !e.hasValue {
		return nil, false
	}

	return e.value, true
}

// Field returns the value registered for key of id.
func (s *Set) Field(id shape.TypeID, key string) (any, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, false
	}

	v, ok := e.fields[key]
	return v, ok
}

// HasScalar reports whether a single value is registered for id.
func (s *Set) HasScalar(id shape.TypeID) bool {
	_, ok := s.Scalar(id)
	return ok
}

// HasFields reports whether any field value is registered for id.
func (s *Set) HasFields(id shape.TypeID) bool {
	e, ok := s.lookup(id)
	return ok && len(e.fields) > 0
}

// FieldKeys returns the registered field keys of id, sorted.
func (s *Set) FieldKeys(id shape.TypeID) []string {
	e, ok := s.lookup(id)
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(e.fields))
}

// Len returns the number of types with overrides.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.entries)
}
