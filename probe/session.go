package probe

import (
	"encoding"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"

	"shape-prober/decoding"
	"shape-prober/internal/diagnostic"
	"shape-prober/internal/match"
	"shape-prober/options"
	"shape-prober/primitive"
	"shape-prober/shape"
)

var (
	decodableType       = reflect.TypeFor[decoding.Decodable]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	mapLikeType         = reflect.TypeFor[decoding.MapLike]()
	scalarSamplerType   = reflect.TypeFor[decoding.ScalarSampler]()
	fieldSamplerType    = reflect.TypeFor[decoding.FieldSampler]()
)

// session holds the state of a single Decode call.
type session struct {
	cfg   *config
	log   *slog.Logger
	diags diagnostic.Diagnostics

	// requested records the field keys requested per probed type.
	requested map[reflect.Type]map[string]struct{}
	order     []reflect.Type
}

func newSession(cfg *config) *session {
	return &session{
		cfg:       cfg,
		log:       cfg.logger,
		requested: make(map[reflect.Type]map[string]struct{}),
	}
}

// decode is the driver: it builds a walker for t below the ancestors in path,
// runs t's decode logic against it and returns the recorded shape. The
// synthetic value is constructed in into when it is valid.
func (s *session) decode(t reflect.Type, path []reflect.Type, into reflect.Value) (*shape.TypeInfo, error) {
	w, err := s.newWalker(t, path)
	if err != nil {
		return nil, err
	}

	logic := s.logicFor(t)
	if logic == nil {
		return w.info, nil
	}

	target := into
	if !target.IsValid() {
		target = reflect.New(t).Elem()
	}

	if err := logic(target, w); err != nil {
		return nil, s.classify(w, err)
	}

	return w.info, nil
}

// valueClass tells how a decode target is probed.
type valueClass int

const (
	classOpaque   valueClass = iota // nothing to probe
	classLeaf                       // scalar, filled with a synthetic value
	classCompound                   // probed recursively through the driver
)

func (s *session) classOf(t reflect.Type) valueClass {
	adapters := s.cfg.adapters

	if t.Kind() == reflect.Pointer {
		if adapters.Has(options.AdapterPointer) {
			return classCompound
		}
		return classOpaque
	}

	if reflect.PointerTo(t).Implements(decodableType) {
		return classCompound
	}

	if adapters.Has(options.AdapterText) && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return classCompound
	}

	if primitive.IsScalar(t) {
		return classLeaf
	}

	switch t.Kind() {
	case reflect.Struct:
		if adapters.Has(options.AdapterStruct) {
			return classCompound
		}
	case reflect.Slice:
		if adapters.Has(options.AdapterSlice) {
			return classCompound
		}
	case reflect.Array:
		if adapters.Has(options.AdapterArray) {
			return classCompound
		}
	case reflect.Map:
		if adapters.Has(options.AdapterMap) {
			return classCompound
		}
	default:
	}

	if reflect.PointerTo(t).Implements(mapLikeType) {
		return classCompound
	}

	return classOpaque
}

// decodeFunc is decode logic run against a decoder; v is addressable.
type decodeFunc func(v reflect.Value, d decoding.Decoder) error

// logicFor returns the decode logic of t: its own DecodeFrom when it has
// one, a built-in adapter otherwise, or nil when t cannot be decoded.
func (s *session) logicFor(t reflect.Type) decodeFunc {
	switch s.classOf(t) {
	case classLeaf:
		return decodeScalar
	case classOpaque:
		return nil
	default:
	}

	if t.Kind() == reflect.Pointer {
		return decodePointer
	}

	if reflect.PointerTo(t).Implements(decodableType) {
		return decodeDecodable
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return decodeText
	}

	switch t.Kind() {
	case reflect.Struct:
		return s.decodeStruct
	case reflect.Slice:
		return decodeSlice
	case reflect.Array:
		return decodeArray
	case reflect.Map:
		return decodeMap
	default:
		return nil
	}
}

// mapTypes reports the key and value types of an associative container.
func (s *session) mapTypes(t reflect.Type) (key, value reflect.Type, ok bool) {
	if reflect.PointerTo(t).Implements(mapLikeType) {
		ml, _ := reflect.New(t).Interface().(decoding.MapLike)
		key, value = ml.MapTypes()
		return key, value, key != nil && value != nil
	}

	if t.Kind() == reflect.Map && s.cfg.adapters.Has(options.AdapterMap) {
		return t.Key(), t.Elem(), true
	}

	return nil, nil, false
}

func (s *session) markRequested(t reflect.Type, key string) {
	keys, ok := s.requested[t]
	if !ok {
		keys = make(map[string]struct{})
		s.requested[t] = keys
		s.order = append(s.order, t)
	}

	if key != "" {
		keys[key] = struct{}{}
	}
}

func (s *session) hasScalarOverride(t reflect.Type) bool {
	if s.cfg.overrides.HasScalar(shape.IDOf(t)) {
		return true
	}

	if _, ok := wellKnownScalars[t]; ok {
		return true
	}

	return reflect.PointerTo(t).Implements(scalarSamplerType)
}

func (s *session) hasFieldOverride(t reflect.Type) bool {
	if s.cfg.overrides.HasFields(shape.IDOf(t)) {
		return true
	}

	return reflect.PointerTo(t).Implements(fieldSamplerType)
}

// collectDiagnostics reports the findings of the override files, opaque and
// cyclic nodes of info, and field overrides of probed types that were never
// requested.
func (s *session) collectDiagnostics(info *shape.TypeInfo) {
	s.diags.Merge(s.cfg.overrides.Diagnostics())

	info.Walk(func(path *shape.TypePath, node *shape.TypeInfo) bool {
		switch node.Kind {
		case shape.KindOpaque:
			s.diags.AddWarning("opaque_shape",
				fmt.Sprintf("shape of %s could not be determined", shape.TypeName(node.Type)),
				node.ID().Short(), path.String(),
				"implement decoding.Decodable or use a supported type")
		case shape.KindCyclic:
			s.diags.AddInfo("cyclic_reference",
				"refers back to an enclosing "+shape.TypeName(node.Type),
				node.ID().Short(), path.String())
		default:
		}
		return true
	})

	for _, t := range s.order {
		id := shape.IDOf(t)
		keys := s.requested[t]
		candidates := slices.Sorted(maps.Keys(keys))

		for _, key := range s.cfg.overrides.FieldKeys(id) {
			if _, ok := keys[key]; ok {
				continue
			}

			var hints []string
			for _, c := range match.Closest(key, candidates, 3) {
				hints = append(hints, fmt.Sprintf("did you mean %q?", c))
			}

			s.diags.AddWarning("unused_override",
				fmt.Sprintf("override for field %q was never requested", key),
				id.Short(), key, hints...)
		}
	}
}
