package probe

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-prober/decoding"
	"shape-prober/examples/store"
)

// confused asks for two container kinds from one decoder.
type confused struct{}

func (c *confused) DecodeFrom(d decoding.Decoder) error {
	if _, err := d.Keyed(); err != nil {
		return err
	}

	_, err := d.Sequence()
	return err
}

// notPointer passes a value instead of a pointer.
type notPointer struct{}

func (n *notPointer) DecodeFrom(d decoding.Decoder) error {
	k, err := d.Keyed()
	if err != nil {
		return err
	}

	var id int
	return k.Decode("id", id)
}

// pair reads two elements without checking Done.
type pair struct {
	A, B int
}

func (p *pair) DecodeFrom(d decoding.Decoder) error {
	seq, err := d.Sequence()
	if err != nil {
		return err
	}

	if err := seq.Decode(&p.A); err != nil {
		return err
	}

	return seq.Decode(&p.B)
}

// wrapper holds a validating type below the root.
type wrapper struct {
	Items []store.LineItem `json:"items"`
}

func TestError_Classification(t *testing.T) {
	lineItem := reflect.TypeFor[store.LineItem]()
	status := reflect.TypeFor[store.Status]()

	tests := []struct {
		name     string
		typ      reflect.Type
		opts     []Option
		kind     ErrorKind
		sentinel error
		errType  reflect.Type
		key      string
	}{
		{
			name:     "scalar without override",
			typ:      status,
			kind:     KindNoOverride,
			sentinel: ErrNoOverride,
			errType:  status,
		},
		{
			name:     "rejected scalar override",
			typ:      status,
			opts:     []Option{WithScalarOverride(status, "lost")},
			kind:     KindInvalidScalarOverride,
			sentinel: ErrInvalidScalarOverride,
			errType:  status,
		},
		{
			name:     "unassignable scalar override",
			typ:      status,
			opts:     []Option{WithScalarOverride(status, 42)},
			kind:     KindInvalidScalarOverride,
			sentinel: ErrInvalidScalarOverride,
			errType:  status,
		},
		{
			name:     "rejected keyed override",
			typ:      lineItem,
			opts:     []Option{WithFieldOverride(lineItem, "quantity", store.MaxQuantity+1)},
			kind:     KindInvalidKeyedOverride,
			sentinel: ErrInvalidKeyedOverride,
			errType:  lineItem,
			key:      "quantity",
		},
		{
			name:     "unassignable keyed override",
			typ:      lineItem,
			opts:     []Option{WithFieldOverride(lineItem, "quantity", "many")},
			kind:     KindInvalidKeyedOverride,
			sentinel: ErrInvalidKeyedOverride,
			errType:  lineItem,
			key:      "quantity",
		},
		{
			name:     "nested failure passes through",
			typ:      reflect.TypeFor[wrapper](),
			kind:     KindNoOverride,
			sentinel: ErrNoOverride,
			errType:  lineItem,
			key:      "quantity",
		},
		{
			name:     "mixed containers",
			typ:      reflect.TypeFor[confused](),
			kind:     KindInternal,
			sentinel: ErrInternal,
			errType:  reflect.TypeFor[confused](),
		},
		{
			name:     "decode target is not a pointer",
			typ:      reflect.TypeFor[notPointer](),
			kind:     KindInternal,
			sentinel: ErrInternal,
			errType:  reflect.TypeFor[notPointer](),
			key:      "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Decode(tt.typ, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, info)

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.errType, perr.Type)
			assert.Equal(t, tt.key, perr.Key)
			assert.ErrorIs(t, err, tt.sentinel)

			for _, other := range []error{ErrNoOverride, ErrInvalidScalarOverride, ErrInvalidKeyedOverride, ErrInternal} {
				if other != tt.sentinel {
					assert.NotErrorIs(t, err, other)
				}
			}
		})
	}
}

func TestError_SequenceExhausted(t *testing.T) {
	_, err := Of[pair]()
	require.Error(t, err)
	assert.ErrorIs(t, err, decoding.ErrSequenceExhausted)
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrNoOverride)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindInternal, perr.Kind)
	assert.Equal(t, reflect.TypeFor[pair](), perr.Type)
	assert.Contains(t, err.Error(), "[internal]")
	assert.NotContains(t, err.Error(), "register an override")
}

func TestError_Message(t *testing.T) {
	_, err := Of[store.Status]()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "[store.Status]")
	assert.Contains(t, msg, "[no_override]")
	assert.Contains(t, msg, `unknown order status: ""`)
	assert.Contains(t, msg, "register an override")

	_, err = Of[store.LineItem](WithFieldOverride(reflect.TypeFor[store.LineItem](), "quantity", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[store.LineItem] quantity: [invalid_keyed_override]")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: KindInternal, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "KindInternal", err.Kind.String())
}
