package probe

import (
	"fmt"

	"shape-prober/decoding"
	"shape-prober/shape"
)

// elementKey is the positional key sequence elements are sampled with.
const elementKey = "0"

// sequenceRecorder materializes exactly one element: all elements of a
// homogeneous sequence share its shape.
type sequenceRecorder struct {
	w         *walker
	exhausted bool
	optional  bool
}

var _ decoding.SequenceDecoder = (*sequenceRecorder)(nil)

func (q *sequenceRecorder) Done() bool { return q.exhausted }

func (q *sequenceRecorder) DecodeNil() (bool, error) {
	if q.exhausted {
		return false, exhaustedError(q.w)
	}

	q.optional = true
	return q.w.isCyclic(), nil
}

func (q *sequenceRecorder) Decode(v any) error {
	if q.exhausted {
		return exhaustedError(q.w)
	}

	q.w.lastKey = elementKey

	target, err := q.w.targetOf(v)
	if err != nil {
		return err
	}

	info, err := q.w.probeValue(target, elementKey)
	if err != nil {
		return err
	}

	if q.optional {
		info = shape.Optional(info)
	}

	if q.w.info.Kind != shape.KindSequence || q.w.info.Type != q.w.typ {
		return internalError(q.w.typ, elementKey,
			"sequence shape of %s replaced by %s", q.w.typ, q.w.info)
	}

	q.w.info.Elem = info
	q.exhausted = true

	return nil
}

// sequencePassThrough serves a walker whose shape is already decided; it is
// empty from the start.
type sequencePassThrough struct {
	w *walker
}

var _ decoding.SequenceDecoder = (*sequencePassThrough)(nil)

func (q *sequencePassThrough) Done() bool { return true }

func (q *sequencePassThrough) DecodeNil() (bool, error) {
	return q.w.isCyclic(), nil
}

func (q *sequencePassThrough) Decode(any) error {
	return exhaustedError(q.w)
}

func exhaustedError(w *walker) error {
	return fmt.Errorf("%s: %w", shape.IDOf(w.typ).Short(), decoding.ErrSequenceExhausted)
}
