package shape

import (
	"hash/fnv"
	"reflect"
	"strings"
)

// TypeName returns the short name a type is rendered with: the declared name
// for named types, the literal spelling otherwise.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

// String renders the shape recursively, e.g.
//
//	Person{id: int, name: string, friends: [Person{<cyclic>}], nick: string?}
func (t *TypeInfo) String() string {
	var sb strings.Builder
	t.render(&sb)

	return sb.String()
}

func (t *TypeInfo) render(sb *strings.Builder) {
	if t == nil {
		sb.WriteString("<opaque>")
		return
	}

	switch t.Kind {
	case KindScalar:
		sb.WriteString(TypeName(t.Type))

	case KindStructured:
		sb.WriteString(TypeName(t.Type))
		sb.WriteByte('{')
		for i, f := range t.Fields.All() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Info.render(sb)
		}
		sb.WriteByte('}')

	case KindMap:
		sb.WriteByte('[')
		t.Key.render(sb)
		sb.WriteByte(':')
		t.Elem.render(sb)
		sb.WriteByte(']')

	case KindSequence:
		sb.WriteByte('[')
		t.Elem.render(sb)
		sb.WriteByte(']')

	case KindOptional:
		t.Elem.render(sb)
		sb.WriteByte('?')

	case KindCyclic:
		sb.WriteString(TypeName(t.Type))
		sb.WriteString("{<cyclic>}")

	default:
		sb.WriteString("<opaque: ")
		sb.WriteString(TypeName(t.Type))
		sb.WriteByte('>')
	}
}

// Equal reports whether two shapes render identically.
func (t *TypeInfo) Equal(other *TypeInfo) bool {
	return t.String() == other.String()
}

// Hash returns a hash of the rendered shape, consistent with Equal.
func (t *TypeInfo) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.String()))

	return h.Sum64()
}

// TypePath builds a readable path to a node inside a shape.
// Examples:
//   - "Order" for the root
//   - "Order.Items" for a field
//   - "Order.Items[]" for the element of a sequence field
//   - "Order.Items[].SKU" for a field within sequence elements
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Suffix appends s to the last element of the path, e.g. "[]" for elements.
func (p *TypePath) Suffix(s string) *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{s}}
	}
	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] += s
	return &TypePath{parts: newParts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// Walk visits the shape depth-first, calling fn with the path of each node.
// Returning false from fn skips the node's children.
func (t *TypeInfo) Walk(fn func(path *TypePath, info *TypeInfo) bool) {
	root := TypeName(t.Declared())
	if root == "" {
		root = "root"
	}

	t.walk(NewTypePath(root), fn)
}

func (t *TypeInfo) walk(path *TypePath, fn func(*TypePath, *TypeInfo) bool) {
	if t == nil || !fn(path, t) {
		return
	}

	switch t.Kind {
	case KindStructured:
		for _, f := range t.Fields.All() {
			f.Info.walk(path.Field(f.Name), fn)
		}

	case KindMap:
		t.Key.walk(path.Suffix("[key]"), fn)
		t.Elem.walk(path.Suffix("[]"), fn)

	case KindSequence:
		t.Elem.walk(path.Suffix("[]"), fn)

	case KindOptional:
		t.Elem.walk(path, fn)

	case KindScalar, KindCyclic, KindOpaque:
		// leaves
	}
}
