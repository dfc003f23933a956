// Package overrides loads and validates override files: YAML documents that
// supply synthetic values for types whose decode logic rejects zero values
// and which cannot implement the sampler hooks themselves.
//
// Example:
//
//	version: "1"
//	types:
//	  - type: shape-prober/examples/store.Status
//	    value: active
//	  - type: store.LineItem
//	    fields:
//	      quantity: 1
package overrides
