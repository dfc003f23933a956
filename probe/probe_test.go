package probe

import (
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-prober/examples/social"
	"shape-prober/examples/store"
	"shape-prober/examples/warehouse"
	"shape-prober/options"
	"shape-prober/shape"
)

type color string

type account struct {
	ID     int            `json:"id"`
	Name   string         // no tag
	Email  *string        `json:"email,omitempty"`
	Secret string         `json:"-"`
	Scores []float64      `json:"scores"`
	Labels map[string]int `json:"labels"`
}

type Audited struct {
	CreatedBy string `json:"created_by"`
}

type document struct {
	Audited
	Title string `json:"title"`
}

type withChan struct {
	C     chan int `json:"c"`
	Extra any      `json:"extra"`
}

type empty struct{}

type register struct {
	Addr uintptr            `json:"addr"`
	Refs map[uintptr]string `json:"refs"`
}

func TestDecode_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		expected string
	}{
		{"int", reflect.TypeFor[int](), "int"},
		{"string", reflect.TypeFor[string](), "string"},
		{"bool", reflect.TypeFor[bool](), "bool"},
		{"float64", reflect.TypeFor[float64](), "float64"},
		{"uint8", reflect.TypeFor[uint8](), "uint8"},
		{"duration", reflect.TypeFor[time.Duration](), "Duration"},
		{"named string", reflect.TypeFor[color](), "color"},
		{"bytes", reflect.TypeFor[[]byte](), "[]uint8"},
		{"uintptr", reflect.TypeFor[uintptr](), "uintptr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Decode(tt.typ)
			require.NoError(t, err)

			assert.Equal(t, shape.KindScalar, info.Kind)
			assert.Equal(t, tt.typ, info.Type)
			assert.Equal(t, tt.typ, info.Runtime)
			assert.Equal(t, tt.expected, info.String())
		})
	}
}

func TestDecode_TextTypes(t *testing.T) {
	info, err := Of[uuid.UUID]()
	require.NoError(t, err)
	assert.Equal(t, shape.KindScalar, info.Kind)
	assert.Equal(t, reflect.TypeFor[uuid.UUID](), info.Type)
	assert.Equal(t, reflect.TypeFor[string](), info.Runtime)
	assert.Equal(t, "UUID", info.String())

	info, err = Of[time.Time]()
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[time.Time](), info.Type)
	assert.Equal(t, reflect.TypeFor[string](), info.Runtime)

	info, err = Of[*time.Time]()
	require.NoError(t, err)
	assert.Equal(t, "Time?", info.String())
}

func TestDecode_BuiltinAdapters(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		opts     []Option
		expected string
	}{
		{
			name:     "struct with tags",
			typ:      reflect.TypeFor[account](),
			expected: "account{id: int, Name: string, email: string?, scores: [float64], labels: [string:int]}",
		},
		{
			name:     "embedded struct flattened",
			typ:      reflect.TypeFor[document](),
			expected: "document{created_by: string, title: string}",
		},
		{
			name:     "embedded struct as field",
			typ:      reflect.TypeFor[document](),
			opts:     []Option{WithAdapters(options.AdapterAll &^ options.AdapterEmbedded)},
			expected: "document{Audited: Audited{created_by: string}, title: string}",
		},
		{
			name:     "uintptr fields",
			typ:      reflect.TypeFor[register](),
			expected: "register{addr: uintptr, refs: [uintptr:string]}",
		},
		{
			name:     "empty struct",
			typ:      reflect.TypeFor[empty](),
			expected: "empty{}",
		},
		{
			name:     "pointer",
			typ:      reflect.TypeFor[*int](),
			expected: "int?",
		},
		{
			name:     "array",
			typ:      reflect.TypeFor[[3]string](),
			expected: "[string]",
		},
		{
			name:     "empty array",
			typ:      reflect.TypeFor[[0]int](),
			expected: "[int]",
		},
		{
			name:     "map",
			typ:      reflect.TypeFor[map[string]bool](),
			expected: "[string:bool]",
		},
		{
			name:     "nested map",
			typ:      reflect.TypeFor[map[int][]uuid.UUID](),
			expected: "[int:[UUID]]",
		},
		{
			name:     "opaque fields",
			typ:      reflect.TypeFor[withChan](),
			expected: "withChan{c: <opaque: chan int>, extra: <opaque: interface {}>}",
		},
		{
			name:     "adapters disabled",
			typ:      reflect.TypeFor[account](),
			opts:     []Option{WithAdapters(options.AdapterNone)},
			expected: "<opaque: account>",
		},
		{
			name:     "pointer adapter disabled",
			typ:      reflect.TypeFor[account](),
			opts:     []Option{WithAdapters(options.AdapterAll &^ options.AdapterPointer)},
			expected: "account{id: int, Name: string, email: <opaque: *string>, scores: [float64], labels: [string:int]}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Decode(tt.typ, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, info.String(), spew.Sdump(info))
		})
	}
}

func TestDecode_SelfReference(t *testing.T) {
	info, err := Of[social.Person]()
	require.NoError(t, err)

	assert.Equal(t, "Person{id: int, name: string, friends: [Person{<cyclic>}], nick: string?}", info.String())
	assert.Equal(t, []string{"id", "name", "friends", "nick"}, info.Fields.Names())

	friends, ok := info.Field("friends")
	require.True(t, ok)
	assert.Equal(t, shape.KindSequence, friends.Kind)
	require.NotNil(t, friends.Elem)
	assert.Equal(t, shape.KindCyclic, friends.Elem.Kind)
	assert.Equal(t, reflect.TypeFor[social.Person](), friends.Elem.Type)

	nick, ok := info.Field("nick")
	require.True(t, ok)
	assert.True(t, nick.IsOptional())
	assert.Equal(t, reflect.TypeFor[string](), nick.Declared())
}

func TestDecode_SelfReferenceThroughPointers(t *testing.T) {
	info, err := Of[social.Feed]()
	require.NoError(t, err)

	assert.Equal(t,
		"Feed{owner: Handle, posts: [Post{author: Handle, body: string, likes: [Handle], reply_to: Post{<cyclic>}?}?]}",
		info.String())
}

func TestDecode_MapLike(t *testing.T) {
	info, err := Of[social.Directory]()
	require.NoError(t, err)

	assert.Equal(t, shape.KindMap, info.Kind)
	assert.Equal(t, reflect.TypeFor[social.Directory](), info.Type)
	assert.Equal(t, "[Handle:Person{id: int, name: string, friends: [Person{<cyclic>}], nick: string?}]", info.String())
}

func TestDecode_PlainStructs(t *testing.T) {
	address := "Address{id: uint, lines: [string], city: string, postal_code: string, country: string, is_default: bool}"
	timestamps := "created_at: Time, updated_at: Time, deleted_at: Time?"

	info, err := Of[warehouse.Customer]()
	require.NoError(t, err)

	expected := "Customer{id: uint, email: string, Phone: string?, addresses: [" + address + "], " +
		"orders: [Order{id: uint, order_number: string, total_amount: int64, shipping_address: " + address + ", " +
		"customer: Customer{<cyclic>}, " +
		"items: [OrderItem{product_id: uint, quantity: int, unit_price: int64, weights: [float64]}], " +
		"metadata: [string:string], " + timestamps + "}], " + timestamps + "}"
	assert.Equal(t, expected, info.String())

	info, err = Of[warehouse.Shelf]()
	require.NoError(t, err)
	assert.Equal(t, "Shelf{label: string, bins: [int:[string:uint32]], handler: <opaque: func()>}", info.String())
}

func TestDecode_ValidatingTypes(t *testing.T) {
	_, err := Of[store.LineItem]()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoOverride)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindNoOverride, perr.Kind)
	assert.Equal(t, reflect.TypeFor[store.LineItem](), perr.Type)
	assert.Equal(t, "quantity", perr.Key)
	assert.ErrorIs(t, err, store.ErrInvalidQuantity)

	info, err := Of[store.LineItem](WithFieldOverride(reflect.TypeFor[store.LineItem](), "quantity", 2))
	require.NoError(t, err)
	assert.Equal(t,
		"LineItem{product: Product{sku: string, name: string}, quantity: int, unit_cents: int64, gift: GiftWrap{message: string, color: string}?}",
		info.String())
}

func TestDecode_Samplers(t *testing.T) {
	info, err := Of[store.Money]()
	require.NoError(t, err)
	assert.Equal(t, "Money{cents: int64, currency: Currency}", info.String())

	currency, ok := info.Field("currency")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[store.Currency](), currency.Type)
	assert.Equal(t, reflect.TypeFor[string](), currency.Runtime)

	info, err = Of[store.Product]()
	require.NoError(t, err)
	assert.Equal(t, "Product{sku: string, name: string}", info.String())
}

func TestDecode_NestedContainers(t *testing.T) {
	info, err := Of[store.Customer]()
	require.NoError(t, err)

	assert.Equal(t,
		"Customer{id: UUID, email: string, address: {street: string, city: string}, referred_by: Customer{<cyclic>}?}",
		info.String())

	address, ok := info.Field("address")
	require.True(t, ok)
	assert.Equal(t, shape.KindStructured, address.Kind)
	assert.Nil(t, address.Type)
}

func TestDecode_Order(t *testing.T) {
	opts := []Option{
		WithScalarOverride(reflect.TypeFor[store.Status](), "paid"),
		WithFieldOverride(reflect.TypeFor[store.LineItem](), "quantity", 1),
	}

	info, err := Of[store.Order](opts...)
	require.NoError(t, err)

	expected := "Order{id: UUID, " +
		"customer: Customer{id: UUID, email: string, address: {street: string, city: string}, referred_by: Customer{<cyclic>}?}, " +
		"status: Status, " +
		"items: [LineItem{product: Product{sku: string, name: string}, quantity: int, unit_cents: int64, gift: GiftWrap{message: string, color: string}?}], " +
		"total: Money{cents: int64, currency: Currency}, " +
		"tags: [string:bool], note: string?, ordered_at: Time}"
	assert.Equal(t, expected, info.String(), spew.Sdump(info.Fields.Names()))

	status, ok := info.Field("status")
	require.True(t, ok)
	assert.Equal(t, shape.Scalar(reflect.TypeFor[store.Status](), reflect.TypeFor[string]()), status)
}

func TestDecode_Stable(t *testing.T) {
	p, err := New(WithScalarOverride(reflect.TypeFor[store.Status](), "shipped"),
		WithFieldOverride(reflect.TypeFor[store.LineItem](), "quantity", 10))
	require.NoError(t, err)

	first, err := p.Decode(reflect.TypeFor[store.Order]())
	require.NoError(t, err)

	second, err := p.Decode(reflect.TypeFor[store.Order]())
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Hash(), second.Hash())
	assert.Equal(t, first.String(), second.String())
}

func TestDecode_NilType(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrNilType)
}
