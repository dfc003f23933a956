package probe

import (
	"errors"
	"fmt"
	"reflect"

	"shape-prober/decoding"
	"shape-prober/internal/diagnostic"
	"shape-prober/shape"
)

//go:generate go tool stringer -type=ErrorKind -output=errorkind_string.go

// ErrorKind classifies why a probe failed.
type ErrorKind int

const (
	_ ErrorKind = iota

	// KindNoOverride: the type rejected the zero-equivalent synthetic values
	// and offers no way to obtain acceptable ones.
	KindNoOverride
	// KindInvalidScalarOverride: the type has a scalar override but rejected
	// the value it supplied.
	KindInvalidScalarOverride
	// KindInvalidKeyedOverride: the type has a keyed override but rejected
	// a value it supplied.
	KindInvalidKeyedOverride
	// KindInternal: the walker detected an inconsistency, e.g. one decoder
	// asked for two different container kinds. It signals a bug in the
	// decode logic or the prober, not a data problem.
	KindInternal
)

var (
	ErrNoOverride            = errors.New("no synthetic value override available")
	ErrInvalidScalarOverride = errors.New("scalar override was rejected")
	ErrInvalidKeyedOverride  = errors.New("keyed override was rejected")
	ErrInternal              = errors.New("internal consistency violation")

	// ErrNilType is returned when Decode is called without a type.
	ErrNilType = errors.New("type is nil")
)

// Error is a classified probe failure. It matches the sentinel of its kind
// with errors.Is and unwraps to the underlying cause.
type Error struct {
	Kind ErrorKind
	Type reflect.Type // type whose decode logic failed
	Key  string       // last field key requested before the failure, if any
	Err  error
}

func (e *Error) Error() string {
	return e.Diagnostic().String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindNoOverride:
		return ErrNoOverride
	case KindInvalidScalarOverride:
		return ErrInvalidScalarOverride
	case KindInvalidKeyedOverride:
		return ErrInvalidKeyedOverride
	case KindInternal:
		return ErrInternal
	default:
		return nil
	}
}

// Diagnostic renders e with a suggestion on how to fix it.
func (e *Error) Diagnostic() diagnostic.Diagnostic {
	name := shape.IDOf(e.Type).Short()

	switch e.Kind {
	case KindNoOverride:
		return diagnostic.New(diagnostic.DiagnosticError, "no_override",
			fmt.Sprintf("%s rejected synthetic values: %v", name, e.Err), name, e.Key,
			fmt.Sprintf("implement decoding.ScalarSampler or decoding.FieldSampler on %s, or register an override for it", name))

	case KindInvalidScalarOverride:
		return diagnostic.New(diagnostic.DiagnosticError, "invalid_scalar_override",
			fmt.Sprintf("%s rejected the value of its scalar override: %v", name, e.Err), name, e.Key,
			fmt.Sprintf("make the scalar override of %s return a value its decode logic accepts", name))

	case KindInvalidKeyedOverride:
		return diagnostic.New(diagnostic.DiagnosticError, "invalid_keyed_override",
			fmt.Sprintf("%s rejected a value of its keyed override: %v", name, e.Err), name, e.Key,
			fmt.Sprintf("make the keyed override of %s return values its decode logic accepts", name))

	default:
		return diagnostic.New(diagnostic.DiagnosticError, "internal",
			fmt.Sprintf("%v: %v", ErrInternal, e.Err), name, e.Key)
	}
}

func internalError(t reflect.Type, key string, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Type: t, Key: key, Err: fmt.Errorf(format, args...)}
}

// classify turns a failure of w's decode logic into an *Error. Errors that
// are already classified, at this or a nested level, pass through unchanged.
func (s *session) classify(w *walker, err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}

	kind := KindNoOverride
	keyed := s.hasFieldOverride(w.typ)
	scalar := s.hasScalarOverride(w.typ)

	switch {
	case errors.Is(err, decoding.ErrSequenceExhausted):
		// reading past Done is a bug in the decode logic, not a value it rejected
		kind = KindInternal
	case keyed && (w.mode != modeSingle || !scalar):
		kind = KindInvalidKeyedOverride
	case scalar:
		kind = KindInvalidScalarOverride
	}

	s.log.Debug("probe failed",
		"type", shape.IDOf(w.typ).String(),
		"key", w.lastKey,
		"kind", kind.String(),
		"error", err)

	return &Error{Kind: kind, Type: w.typ, Key: w.lastKey, Err: err}
}

// overrideError reports a synthetic value that could not be assigned.
func overrideError(kind ErrorKind, t reflect.Type, key string, err error) *Error {
	return &Error{Kind: kind, Type: t, Key: key, Err: err}
}

