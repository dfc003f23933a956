package primitive

import (
	"fmt"
	"math"
	"reflect"
)

// Convert converts value to a value of type to. Besides plain assignability it
// accepts numeric conversions that lose no information, string-like and
// bool-like conversions between named and unnamed types, string to []byte,
// and allocates pointers when value fits the pointed-to type.
func Convert(value any, to reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch to.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			return reflect.Zero(to), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot use nil as %s", to)
		}
	}

	src := reflect.ValueOf(value)
	if src.Type().AssignableTo(to) {
		out := reflect.New(to).Elem()
		out.Set(src)
		return out, nil
	}

	if to.Kind() == reflect.Pointer {
		elem, err := Convert(value, to.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(to.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	if FromReflectType(src.Type()) == 0 || FromReflectType(to) == 0 {
		return reflect.Value{}, fmt.Errorf("cannot use %T value as %s", value, to)
	}

	from, into := Underlying(src.Type()), Underlying(to)

	switch {
	case from.IsNumber() && into.IsNumber():
		return convertNumber(src, from, to, into)

	case from == KindString && into == KindString,
		from == KindBool && into == KindBool:
		return src.Convert(to), nil

	case from == KindString && FromReflectType(to) == KindBytes:
		return src.Convert(to), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T value as %s", value, to)
}

func convertNumber(src reflect.Value, from KindEnum, to reflect.Type, into KindEnum) (reflect.Value, error) {
	out := reflect.New(to).Elem()

	switch {
	case into.IsSigned():
		n, ok := asInt64(src, from)
		if !ok || out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("value %v does not fit %s", src.Interface(), to)
		}
		out.SetInt(n)

	case into.IsUnsigned():
		n, ok := asUint64(src, from)
		if !ok || out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("value %v does not fit %s", src.Interface(), to)
		}
		out.SetUint(n)

	default:
		f := asFloat64(src, from)
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("value %v does not fit %s", src.Interface(), to)
		}
		out.SetFloat(f)
	}

	return out, nil
}

func asInt64(v reflect.Value, from KindEnum) (int64, bool) {
	switch {
	case from.IsSigned():
		return v.Int(), true
	case from.IsUnsigned():
		u := v.Uint()
		return int64(u), u <= math.MaxInt64
	default:
		f := v.Float()
		if !fitsInteger(f, KindInt64) {
			return 0, false
		}
		return int64(f), true
	}
}

func asUint64(v reflect.Value, from KindEnum) (uint64, bool) {
	switch {
	case from.IsUnsigned():
		return v.Uint(), true
	case from.IsSigned():
		n := v.Int()
		return uint64(n), n >= 0
	default:
		f := v.Float()
		if !fitsInteger(f, KindUint64) {
			return 0, false
		}
		return uint64(f), true
	}
}

func asFloat64(v reflect.Value, from KindEnum) float64 {
	switch {
	case from.IsSigned():
		return float64(v.Int())
	case from.IsUnsigned():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// fitsInteger reports whether f is integral and inside the range of kind.
// The upper bound 2^bits is exclusive: it is exactly representable as a
// float64 while the largest integer of the kind is not.
func fitsInteger(f float64, kind KindEnum) bool {
	if !kind.IsInteger() || f != math.Trunc(f) {
		return false
	}

	if kind.IsSigned() {
		limit := math.Ldexp(1, kind.Bits()-1)
		return f >= -limit && f < limit
	}

	return f >= 0 && f < math.Ldexp(1, kind.Bits())
}
