package probe

import (
	"fmt"
	"reflect"
	"slices"

	"shape-prober/decoding"
	"shape-prober/shape"
)

// containerMode records which container a walker has handed out.
type containerMode int

const (
	modeNone containerMode = iota
	modeKeyed
	modeSequence
	modeSingle
)

func (m containerMode) String() string {
	switch m {
	case modeKeyed:
		return "keyed"
	case modeSequence:
		return "sequence"
	case modeSingle:
		return "single"
	default:
		return "none"
	}
}

// walker stands in for a real decoder of exactly one type and records the
// shape of every request made against it.
type walker struct {
	s    *session
	typ  reflect.Type
	path []reflect.Type // ancestors including typ

	// info is the shape recorded so far. It is owned by this walker until
	// the driver returns it.
	info *shape.TypeInfo

	// resolved is set when info was decided at construction (cyclic or
	// map-like); containers then never record.
	resolved bool
	mode     containerMode
	lastKey  string
}

var _ decoding.Decoder = (*walker)(nil)

func (s *session) newWalker(t reflect.Type, ancestors []reflect.Type) (*walker, error) {
	path := make([]reflect.Type, 0, len(ancestors)+1)
	path = append(path, ancestors...)
	path = append(path, t)

	w := &walker{
		s:    s,
		typ:  t,
		path: path,
		info: shape.Opaque(t),
	}

	id := shape.IDOf(t).String()

	// unnamed pointers are represented by their element, which is checked
	// one level down
	if isNamedOrValue(t) && slices.Contains(ancestors, t) {
		s.log.Debug("cycle detected", "type", id, "depth", len(ancestors))
		w.info = shape.Cyclic(t)
		w.resolved = true
		return w, nil
	}

	s.log.Debug("probing type", "type", id, "depth", len(ancestors))

	if key, value, ok := s.mapTypes(t); ok {
		s.log.Debug("resolving associative container", "type", id, "key", key.String(), "value", value.String())

		keyInfo, err := s.decode(key, path, reflect.Value{})
		if err != nil {
			return nil, err
		}

		valueInfo, err := s.decode(value, path, reflect.Value{})
		if err != nil {
			return nil, err
		}

		w.info = shape.Map(t, keyInfo, valueInfo)
		w.resolved = true
	}

	return w, nil
}

func isNamedOrValue(t reflect.Type) bool {
	return t.Kind() != reflect.Pointer || t.Name() != ""
}

func (w *walker) isCyclic() bool {
	return w.info.Kind == shape.KindCyclic
}

// use switches the walker into mode; a decoder serves one container kind.
func (w *walker) use(mode containerMode) error {
	if w.mode != modeNone && w.mode != mode {
		return internalError(w.typ, w.lastKey,
			"%s container requested after a %s container", mode, w.mode)
	}

	w.mode = mode
	return nil
}

func (w *walker) Keyed() (decoding.KeyedDecoder, error) {
	if err := w.use(modeKeyed); err != nil {
		return nil, err
	}

	if w.resolved {
		return &keyedPassThrough{w: w}, nil
	}

	if w.info.Kind == shape.KindOpaque {
		w.info = shape.Structured(w.typ, nil)
	}

	return &keyedRecorder{w: w, fields: w.ownFields, optional: map[string]bool{}}, nil
}

func (w *walker) Sequence() (decoding.SequenceDecoder, error) {
	if err := w.use(modeSequence); err != nil {
		return nil, err
	}

	if w.resolved {
		return &sequencePassThrough{w: w}, nil
	}

	if w.info.Kind == shape.KindOpaque {
		w.info = shape.Sequence(w.typ, nil)
	}

	return &sequenceRecorder{w: w}, nil
}

func (w *walker) Single() (decoding.SingleDecoder, error) {
	if err := w.use(modeSingle); err != nil {
		return nil, err
	}

	if w.resolved {
		return &singlePassThrough{w: w}, nil
	}

	return &singleRecorder{w: w}, nil
}

// ownFields returns the field set of the walker's structured shape. The
// shape must still describe the walker's own type.
func (w *walker) ownFields() (*shape.Fields, error) {
	if w.info.Kind != shape.KindStructured || w.info.Type != w.typ {
		return nil, internalError(w.typ, w.lastKey,
			"structured shape of %s replaced by %s", w.typ, w.info)
	}

	return w.info.Fields, nil
}

// probeValue probes the value behind a decode target requested for key and
// leaves a synthetic value in it. owner supplies keyed overrides for leaves.
func (w *walker) probeValue(target reflect.Value, key string) (*shape.TypeInfo, error) {
	t := target.Type()

	switch w.s.classOf(t) {
	case classCompound:
		return w.s.decode(t, w.path, target)

	case classLeaf:
		if err := w.s.fillField(target, w.typ, key); err != nil {
			return nil, err
		}
		return shape.Scalar(t, t), nil

	default:
		return shape.Opaque(t), nil
	}
}

// targetOf returns the addressable value v points to.
func (w *walker) targetOf(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, internalError(w.typ, w.lastKey,
			"decode target must be a non-nil pointer, got %s", describe(v))
	}

	return rv.Elem(), nil
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}
