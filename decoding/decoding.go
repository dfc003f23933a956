// Package decoding defines the structural source a type decodes itself from.
//
// A type describes how it is built from structured data by implementing
// Decodable. The same protocol is served by real decoders and by the
// structural prober in package probe, which answers with synthetic values
// and records the shape of every request.
//
// Types that validate their input can implement ScalarSampler or
// FieldSampler so that a prober can hand them a value they accept.
package decoding

import (
	"errors"
	"reflect"
)

// ErrSequenceExhausted is returned when an element is requested from a
// sequence that reports Done.
var ErrSequenceExhausted = errors.New("sequence is exhausted")

// Decoder hands out the container a type reads itself from. A type requests
// exactly one container per Decoder.
type Decoder interface {
	// Keyed returns a container of named fields.
	Keyed() (KeyedDecoder, error)
	// Sequence returns a container of positional elements.
	Sequence() (SequenceDecoder, error)
	// Single returns a container holding one raw value.
	Single() (SingleDecoder, error)
}

// KeyedDecoder reads named fields.
type KeyedDecoder interface {
	// Keys returns the keys present in the source.
	Keys() []string
	// Contains reports whether key is present.
	Contains(key string) bool
	// DecodeNil reports whether the value for key is absent or null.
	DecodeNil(key string) (bool, error)
	// Decode decodes the value for key into v, which must be a non-nil pointer.
	Decode(key string, v any) error
	// Nested returns a keyed container for the structure stored under key.
	Nested(key string) (KeyedDecoder, error)
}

// SequenceDecoder reads positional elements in order.
type SequenceDecoder interface {
	// Done reports whether all elements have been read.
	Done() bool
	// DecodeNil reports whether the next element is null.
	DecodeNil() (bool, error)
	// Decode decodes the next element into v, which must be a non-nil pointer.
	Decode(v any) error
}

// SingleDecoder reads one raw value.
type SingleDecoder interface {
	// DecodeNil reports whether the value is null.
	DecodeNil() bool
	// Decode decodes the value into v, which must be a non-nil pointer.
	Decode(v any) error
}

// Decodable is implemented by types that construct themselves from a Decoder.
// DecodeFrom is called on a pointer to the zero value.
type Decodable interface {
	DecodeFrom(d Decoder) error
}

// ScalarSampler is implemented by types that validate a single raw value.
// SampleValue returns one raw value the type accepts.
type ScalarSampler interface {
	SampleValue() any
}

// FieldSampler is implemented by types that validate individual fields.
// SampleField returns an acceptable value for the named field, or false to
// fall back to the zero value. Sequence elements are sampled by their
// decimal position, e.g. "0".
type FieldSampler interface {
	SampleField(key string) (any, bool)
}

// MapLike is implemented by associative containers that can report their key
// and value types without an instance.
type MapLike interface {
	MapTypes() (key, value reflect.Type)
}
