// Package probe infers the shape of Go types at runtime.
//
// A type is driven through its own decode logic, either its
// decoding.Decodable implementation or a built-in adapter modelled on
// encoding/json, against a walker that answers every request with a
// synthetic value and records what was requested. No serialized data is
// involved.
//
// Recursion into field, element and map types happens through a driver that
// carries the path of ancestor types. A type met again on its own path is
// recorded as cyclic and decoded as empty, so probing terminates for every
// self-referential type.
//
// Types that validate their input may reject zero values. They can provide
// acceptable values through decoding.ScalarSampler, decoding.FieldSampler,
// WithScalarOverride, WithFieldOverride or an overrides file loaded with
// WithOverridesFile:
//
//	version: "1"
//	types:
//	  - type: shape-prober/examples/store.Status
//	    value: active
//	  - type: shape-prober/examples/store.LineItem
//	    fields:
//	      quantity: 1
//
// A failed probe returns an *Error whose kind tells whether an override is
// missing, was rejected, or the walker found an inconsistency.
package probe
