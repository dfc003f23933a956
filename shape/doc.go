// Package shape provides the structural description of a probed type.
//
// Key types:
//   - TypeInfo: tagged union of scalar, structured, map, sequence, optional,
//     cyclic and opaque shapes
//   - Fields: insertion-ordered field set of a structured shape
//   - TypeID: package path + type name
//
// Two shapes are equal when they render to the same text.
package shape
