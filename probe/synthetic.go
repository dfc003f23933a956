package probe

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"shape-prober/decoding"
	"shape-prober/primitive"
	"shape-prober/shape"
)

// wellKnownScalars are scalar overrides for library types that validate
// their text form and cannot implement decoding.ScalarSampler.
var wellKnownScalars = map[reflect.Type]any{
	reflect.TypeFor[time.Time](): time.Time{}.Format(time.RFC3339Nano),
	reflect.TypeFor[uuid.UUID](): uuid.Nil.String(),
}

// fieldOverride looks up a synthetic value for key of owner: registered
// overrides first, then the owner's FieldSampler.
func (s *session) fieldOverride(owner reflect.Type, key string) (any, bool) {
	if v, ok := s.cfg.overrides.Field(shape.IDOf(owner), key); ok {
		return v, true
	}

	if fs, ok := reflect.New(owner).Interface().(decoding.FieldSampler); ok {
		return fs.SampleField(key)
	}

	return nil, false
}

// scalarOverride looks up the single raw value owner accepts: registered
// overrides first, then the owner's ScalarSampler, then well-known types.
func (s *session) scalarOverride(owner reflect.Type) (any, bool) {
	if v, ok := s.cfg.overrides.Scalar(shape.IDOf(owner)); ok {
		return v, true
	}

	if ss, ok := reflect.New(owner).Interface().(decoding.ScalarSampler); ok {
		return ss.SampleValue(), true
	}

	v, ok := wellKnownScalars[owner]
	return v, ok
}

// fillField stores the synthetic value of a leaf field in target.
func (s *session) fillField(target reflect.Value, owner reflect.Type, key string) error {
	v, ok := s.fieldOverride(owner, key)
	if !ok {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	if err := assign(target, v); err != nil {
		return overrideError(KindInvalidKeyedOverride, owner, key, err)
	}

	return nil
}

// fillScalar stores the synthetic single value of owner in target.
func (s *session) fillScalar(target reflect.Value, owner reflect.Type) error {
	v, ok := s.scalarOverride(owner)
	if !ok {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	if err := assign(target, v); err != nil {
		return overrideError(KindInvalidScalarOverride, owner, "", err)
	}

	return nil
}

// fillPassThrough stores a synthetic value without probing. Leaves get their
// override; compound values get their own scalar override when it fits and
// stay zero otherwise.
func (s *session) fillPassThrough(target reflect.Value, owner reflect.Type, key string) error {
	t := target.Type()

	switch s.classOf(t) {
	case classLeaf:
		if key == "" {
			return s.fillScalar(target, owner)
		}
		return s.fillField(target, owner, key)

	case classCompound:
		if v, ok := s.scalarOverride(t); ok && primitive.IsScalar(t) {
			if err := assign(target, v); err != nil {
				return overrideError(KindInvalidScalarOverride, t, "", err)
			}
		}
		return nil

	default:
		return nil
	}
}

func assign(target reflect.Value, v any) error {
	out, err := primitive.Convert(v, target.Type())
	if err != nil {
		return err
	}

	target.Set(out)
	return nil
}
