package probe

import (
	"shape-prober/decoding"
	"shape-prober/shape"
)

// keyedRecorder records every requested field into a structured shape.
type keyedRecorder struct {
	w *walker

	// fields returns the field set to record into: the walker's own shape or
	// an anonymous nested structure.
	fields func() (*shape.Fields, error)

	// optional holds keys that were probed for absence before their value.
	optional map[string]bool

	// prefix qualifies keys of nested containers, e.g. "address.".
	prefix string
}

var _ decoding.KeyedDecoder = (*keyedRecorder)(nil)

func (k *keyedRecorder) Keys() []string { return nil }

// Contains reports every key as present so the decode logic asks for it.
func (k *keyedRecorder) Contains(string) bool { return true }

func (k *keyedRecorder) DecodeNil(key string) (bool, error) {
	k.optional[key] = true
	return k.w.isCyclic(), nil
}

func (k *keyedRecorder) Decode(key string, v any) error {
	qualified := k.prefix + key
	k.w.lastKey = qualified
	k.w.s.markRequested(k.w.typ, qualified)

	target, err := k.w.targetOf(v)
	if err != nil {
		return err
	}

	info, err := k.w.probeValue(target, qualified)
	if err != nil {
		return err
	}

	if k.optional[key] {
		info = shape.Optional(info)
	}

	fields, err := k.fields()
	if err != nil {
		return err
	}

	fields.Set(key, info)

	return nil
}

// Nested records key as an anonymous structure. Requesting the same key again
// continues recording into the same structure.
func (k *keyedRecorder) Nested(key string) (decoding.KeyedDecoder, error) {
	qualified := k.prefix + key
	k.w.lastKey = qualified
	k.w.s.markRequested(k.w.typ, qualified)

	fields, err := k.fields()
	if err != nil {
		return nil, err
	}

	sub, ok := fields.Get(key)
	if !ok || sub.Unwrap().Kind != shape.KindStructured || sub.Unwrap().Type != nil {
		sub = shape.Structured(nil, nil)
		if k.optional[key] {
			sub = shape.Optional(sub)
		}
		fields.Set(key, sub)
	}

	nested := sub.Unwrap()

	return &keyedRecorder{
		w:        k.w,
		fields:   func() (*shape.Fields, error) { return nested.Fields, nil },
		optional: map[string]bool{},
		prefix:   qualified + ".",
	}, nil
}

// keyedPassThrough serves a walker whose shape is already decided. It holds
// no keys and records nothing.
type keyedPassThrough struct {
	w      *walker
	prefix string
}

var _ decoding.KeyedDecoder = (*keyedPassThrough)(nil)

func (k *keyedPassThrough) Keys() []string { return nil }

func (k *keyedPassThrough) Contains(string) bool { return false }

// DecodeNil reports absence for cyclic walkers, which lets self-referential
// decode logic stop without recursing.
func (k *keyedPassThrough) DecodeNil(string) (bool, error) {
	return k.w.isCyclic(), nil
}

func (k *keyedPassThrough) Decode(key string, v any) error {
	target, err := k.w.targetOf(v)
	if err != nil {
		return err
	}

	return k.w.s.fillPassThrough(target, k.w.typ, k.prefix+key)
}

func (k *keyedPassThrough) Nested(key string) (decoding.KeyedDecoder, error) {
	return &keyedPassThrough{w: k.w, prefix: k.prefix + key + "."}, nil
}
