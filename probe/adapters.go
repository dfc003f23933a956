package probe

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"shape-prober/decoding"
	"shape-prober/options"
)

func decodeScalar(v reflect.Value, d decoding.Decoder) error {
	single, err := d.Single()
	if err != nil {
		return err
	}

	return single.Decode(v.Addr().Interface())
}

func decodeDecodable(v reflect.Value, d decoding.Decoder) error {
	dec, ok := v.Addr().Interface().(decoding.Decodable)
	if !ok {
		return fmt.Errorf("%s does not implement decoding.Decodable", v.Type())
	}

	return dec.DecodeFrom(d)
}

// decodePointer probes for absence first, then decodes the pointed-to value.
func decodePointer(v reflect.Value, d decoding.Decoder) error {
	single, err := d.Single()
	if err != nil {
		return err
	}

	if single.DecodeNil() {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}

	elem := reflect.New(v.Type().Elem())
	if err := single.Decode(elem.Interface()); err != nil {
		return err
	}

	v.Set(elem)
	return nil
}

func decodeText(v reflect.Value, d decoding.Decoder) error {
	single, err := d.Single()
	if err != nil {
		return err
	}

	var text string
	if err := single.Decode(&text); err != nil {
		return err
	}

	u, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
	if !ok {
		return fmt.Errorf("%s does not implement encoding.TextUnmarshaler", v.Type())
	}

	return u.UnmarshalText([]byte(text))
}

func decodeSlice(v reflect.Value, d decoding.Decoder) error {
	seq, err := d.Sequence()
	if err != nil {
		return err
	}

	out := reflect.MakeSlice(v.Type(), 0, 1)

	for !seq.Done() {
		elem := reflect.New(v.Type().Elem())
		if err := seq.Decode(elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}

	v.Set(out)
	return nil
}

func decodeArray(v reflect.Value, d decoding.Decoder) error {
	seq, err := d.Sequence()
	if err != nil {
		return err
	}

	for i := 0; !seq.Done(); i++ {
		// elements past the end are read and dropped
		target := reflect.New(v.Type().Elem())
		if i < v.Len() {
			target = v.Index(i).Addr()
		}

		if err := seq.Decode(target.Interface()); err != nil {
			return err
		}
	}

	return nil
}

func decodeMap(v reflect.Value, d decoding.Decoder) error {
	keyed, err := d.Keyed()
	if err != nil {
		return err
	}

	t := v.Type()
	out := reflect.MakeMap(t)

	for _, key := range keyed.Keys() {
		kv, err := mapKey(key, t.Key())
		if err != nil {
			return err
		}

		elem := reflect.New(t.Elem())
		if err := keyed.Decode(key, elem.Interface()); err != nil {
			return err
		}

		out.SetMapIndex(kv, elem.Elem())
	}

	v.Set(out)
	return nil
}

// mapKey converts a textual key the way encoding/json does: string kinds,
// encoding.TextUnmarshaler and integer kinds.
func mapKey(key string, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.String {
		return reflect.ValueOf(key).Convert(t), nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		kv := reflect.New(t)
		if err := kv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
			return reflect.Value{}, err
		}
		return kv.Elem(), nil
	}

	kv := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(key, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		kv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(key, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		kv.SetUint(n)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported map key type %s", t)
	}

	return kv, nil
}

type structField struct {
	name  string
	index []int
}

// structFields lists the decodable fields of t in declaration order. Names
// come from the json tag; the first field with a name wins.
func (s *session) structFields(t reflect.Type) []structField {
	var (
		out  []structField
		seen = make(map[string]bool)
	)

	var collect func(t reflect.Type, prefix []int)
	collect = func(t reflect.Type, prefix []int) {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}

			name, tagged, skip := jsonName(f)
			if skip {
				continue
			}

			index := append(append([]int(nil), prefix...), i)

			if f.Anonymous && !tagged && f.Type.Kind() == reflect.Struct &&
				s.cfg.adapters.Has(options.AdapterEmbedded) {
				collect(f.Type, index)
				continue
			}

			if seen[name] {
				continue
			}

			seen[name] = true
			out = append(out, structField{name: name, index: index})
		}
	}

	collect(t, nil)

	return out
}

func jsonName(f reflect.StructField) (name string, tagged, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name, _, _ = strings.Cut(tag, ",")
	if name == "" {
		return f.Name, false, false
	}

	return name, true, false
}

// decodeStruct reads the fields of a struct from a keyed container. Fields
// the container does not contain keep their value.
func (s *session) decodeStruct(v reflect.Value, d decoding.Decoder) error {
	keyed, err := d.Keyed()
	if err != nil {
		return err
	}

	for _, f := range s.structFields(v.Type()) {
		if !keyed.Contains(f.name) {
			continue
		}

		if err := keyed.Decode(f.name, v.FieldByIndex(f.index).Addr().Interface()); err != nil {
			return err
		}
	}

	return nil
}
