package options

// AdapterEnum selects the built-in decode logic a prober applies to types
// that do not implement decoding.Decodable.
type AdapterEnum int

const (
	AdapterStruct    AdapterEnum = 1 << iota // struct: exported fields in declaration order, named by the json tag
	AdapterEmbedded                          // struct: embedded struct fields are flattened into the parent
	AdapterPointer                           // pointer: absence probe, then the pointed-to value
	AdapterSlice                             // slice: sequence of elements
	AdapterArray                             // array: sequence of elements
	AdapterMap                               // map: associative container of key and value shapes
	AdapterText                              // encoding.TextUnmarshaler: a single text value

	AdapterAll  = (1 << iota) - 1 // all adapters combined
	AdapterNone = 0               // only decoding.Decodable types and scalars are probed
)

// Has reports whether all adapters in other are enabled.
func (a AdapterEnum) Has(other AdapterEnum) bool {
	return a&other == other
}
