package shape

import (
	"reflect"

	"shape-prober/internal/common"
)

// TypeID identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "shape-prober/examples/store"
	Name    string // e.g., "Order"
}

// IDOf returns the TypeID of t. Unnamed types (e.g., []int, map[string]bool)
// have an empty package path and use their literal spelling as the name.
func IDOf(t reflect.Type) TypeID {
	if t == nil {
		return TypeID{}
	}

	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the TypeID qualified with the package alias only,
// e.g. "store.Order".
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// Kind discriminates the variants of TypeInfo.
type Kind int

const (
	KindOpaque     Kind = iota // shape could not be determined
	KindScalar                 // leaf value
	KindStructured             // record with named fields
	KindMap                    // associative container
	KindSequence               // homogeneous collection
	KindOptional               // presence/absence wrapper
	KindCyclic                 // type already being probed on the current path
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindScalar:
		return "scalar"
	case KindStructured:
		return "structured"
	case KindMap:
		return "map"
	case KindSequence:
		return "sequence"
	case KindOptional:
		return "optional"
	case KindCyclic:
		return "cyclic"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes the structural shape of a type.
//
// A TypeInfo is built once by a probe and must be treated as read-only
// afterwards. Which fields are meaningful depends on Kind:
//
//	KindScalar      Type, Runtime
//	KindStructured  Type, Fields
//	KindMap         Type, Key, Elem
//	KindSequence    Type, Elem
//	KindOptional    Elem
//	KindCyclic      Type
//	KindOpaque      Type
type TypeInfo struct {
	Kind    Kind
	Type    reflect.Type // declared type; nil for optionals and anonymous structures
	Runtime reflect.Type // for scalars, the type the value is represented as
	Fields  *Fields      // for structured types, fields in visiting order
	Key     *TypeInfo    // for maps, the key shape
	Elem    *TypeInfo    // map value, sequence element or optional payload
}

// Scalar returns a leaf shape. declared and runtime differ when the declared
// type is represented by another type, e.g. uuid.UUID encoded as a string.
func Scalar(declared, runtime reflect.Type) *TypeInfo {
	return &TypeInfo{Kind: KindScalar, Type: declared, Runtime: runtime}
}

// Structured returns a record shape. A nil fields set is replaced by an empty one.
func Structured(declared reflect.Type, fields *Fields) *TypeInfo {
	if fields == nil {
		fields = NewFields()
	}

	return &TypeInfo{Kind: KindStructured, Type: declared, Fields: fields}
}

// Map returns an associative container shape.
func Map(declared reflect.Type, key, value *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: KindMap, Type: declared, Key: key, Elem: value}
}

// Sequence returns a homogeneous collection shape.
func Sequence(declared reflect.Type, elem *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: KindSequence, Type: declared, Elem: elem}
}

// Optional wraps a shape that may be absent. Wrapping an optional again
// returns it unchanged.
func Optional(wrapped *TypeInfo) *TypeInfo {
	if wrapped.IsOptional() {
		return wrapped
	}

	return &TypeInfo{Kind: KindOptional, Elem: wrapped}
}

// Cyclic marks a type that is already being probed higher up the path.
func Cyclic(declared reflect.Type) *TypeInfo {
	return &TypeInfo{Kind: KindCyclic, Type: declared}
}

// Opaque marks a type whose shape could not be determined.
func Opaque(declared reflect.Type) *TypeInfo {
	return &TypeInfo{Kind: KindOpaque, Type: declared}
}

// Declared returns the declared type. For optionals it is the declared type
// of the wrapped shape.
func (t *TypeInfo) Declared() reflect.Type {
	if t == nil {
		return nil
	}

	if t.Kind == KindOptional {
		return t.Elem.Declared()
	}

	return t.Type
}

// ID returns the TypeID of the declared type.
func (t *TypeInfo) ID() TypeID {
	return IDOf(t.Declared())
}

// IsOptional reports whether the shape is an optional wrapper.
func (t *TypeInfo) IsOptional() bool {
	return t != nil && t.Kind == KindOptional
}

// Unwrap strips optional wrappers.
func (t *TypeInfo) Unwrap() *TypeInfo {
	for t != nil && t.Kind == KindOptional {
		t = t.Elem
	}

	return t
}

// Field returns the shape of the named field of a structured type.
func (t *TypeInfo) Field(name string) (*TypeInfo, bool) {
	if t == nil || t.Kind != KindStructured || t.Fields == nil {
		return nil, false
	}

	return t.Fields.Get(name)
}
