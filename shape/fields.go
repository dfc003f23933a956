package shape

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields is an insertion-ordered set of named field shapes.
//
// Setting an existing name replaces its shape but keeps the position it was
// first inserted at.
type Fields struct {
	m *orderedmap.OrderedMap[string, *TypeInfo]
}

// Field is a single name/shape pair.
type Field struct {
	Name string
	Info *TypeInfo
}

// NewFields creates an empty field set.
func NewFields() *Fields {
	return &Fields{m: orderedmap.New[string, *TypeInfo]()}
}

// FieldsOf builds a field set from pairs, in order.
func FieldsOf(pairs ...Field) *Fields {
	f := NewFields()
	for _, p := range pairs {
		f.Set(p.Name, p.Info)
	}

	return f
}

// Set inserts or replaces the shape of name.
func (f *Fields) Set(name string, info *TypeInfo) {
	f.m.Set(name, info)
}

// Get returns the shape of name.
func (f *Fields) Get(name string) (*TypeInfo, bool) {
	if f == nil {
		return nil, false
	}

	return f.m.Get(name)
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}

	return f.m.Len()
}

// Names returns field names in order.
func (f *Fields) Names() []string {
	if f == nil {
		return nil
	}

	names := make([]string, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// All returns all fields in order.
func (f *Fields) All() []Field {
	if f == nil {
		return nil
	}

	out := make([]Field, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Field{Name: pair.Key, Info: pair.Value})
	}

	return out
}
