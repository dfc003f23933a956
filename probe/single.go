package probe

import (
	"reflect"

	"shape-prober/decoding"
	"shape-prober/shape"
)

// singleRecorder records the one raw value a type is represented by.
type singleRecorder struct {
	w        *walker
	optional bool
}

var _ decoding.SingleDecoder = (*singleRecorder)(nil)

func (r *singleRecorder) DecodeNil() bool {
	r.optional = true
	return r.w.isCyclic()
}

func (r *singleRecorder) Decode(v any) error {
	target, err := r.w.targetOf(v)
	if err != nil {
		return err
	}

	t := target.Type()

	class := r.w.s.classOf(t)
	if class == classLeaf && delegates(r.w.typ, t) {
		class = classCompound
	}

	var info *shape.TypeInfo

	switch class {
	case classCompound:
		// the type delegates to another type as its sole representation
		info, err = r.w.s.decode(t, r.w.path, target)
		if err != nil {
			return err
		}

	case classLeaf:
		if err := r.w.s.fillScalar(target, r.w.typ); err != nil {
			return err
		}
		info = shape.Scalar(r.w.typ, t)

	default:
		info = shape.Opaque(t)
	}

	if r.optional {
		info = shape.Optional(info)
	}

	r.w.info = info

	return nil
}

// delegates reports whether owner is a pointer to t. A pointer is represented
// by its element, which keeps its own declared type.
func delegates(owner, t reflect.Type) bool {
	return owner.Kind() == reflect.Pointer && owner.Elem() == t
}

// singlePassThrough serves a walker whose shape is already decided.
type singlePassThrough struct {
	w *walker
}

var _ decoding.SingleDecoder = (*singlePassThrough)(nil)

func (r *singlePassThrough) DecodeNil() bool {
	return r.w.isCyclic()
}

func (r *singlePassThrough) Decode(v any) error {
	target, err := r.w.targetOf(v)
	if err != nil {
		return err
	}

	owner := r.w.typ
	if delegates(owner, target.Type()) {
		owner = target.Type()
	}

	return r.w.s.fillPassThrough(target, owner, "")
}
