package probe

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"shape-prober/examples/social"
	"shape-prober/examples/store"
	"shape-prober/examples/warehouse"
)

func writeOverrides(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestWithOverridesFile(t *testing.T) {
	path := writeOverrides(t, `version: "1"
types:
  - type: shape-prober/examples/store.Status
    value: paid
  - type: store.LineItem
    fields:
      quantity: 3
`)

	info, err := Of[store.Order](WithOverridesFile(path))
	require.NoError(t, err)

	items, ok := info.Field("items")
	require.True(t, ok)
	assert.Equal(t, "[LineItem{product: Product{sku: string, name: string}, quantity: int, unit_cents: int64, gift: GiftWrap{message: string, color: string}?}]", items.String())
}

func TestWithOverridesFile_OverridesOptions(t *testing.T) {
	path := writeOverrides(t, `version: "1"
types:
  - type: shape-prober/examples/store.Status
    value: shipped
`)

	status := reflect.TypeFor[store.Status]()

	_, err := Decode(status, WithScalarOverride(status, "lost"), WithOverridesFile(path))
	require.NoError(t, err)

	_, err = Decode(status, WithOverridesFile(path), WithScalarOverride(status, "lost"))
	require.ErrorIs(t, err, ErrInvalidScalarOverride)
}

func TestWithOverridesFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing type",
			content: "version: \"1\"\ntypes:\n  - value: 1\n",
			errMsg:  "missing_type",
		},
		{
			name:    "unsupported version",
			content: "version: \"9\"\ntypes: []\n",
			errMsg:  "unsupported_version",
		},
		{
			name:    "malformed yaml",
			content: "types: [",
			errMsg:  "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithOverridesFile(writeOverrides(t, tt.content)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to configure prober")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := New(WithOverridesFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyze_Warnings(t *testing.T) {
	lineItem := reflect.TypeFor[store.LineItem]()

	p, err := New(
		WithFieldOverride(lineItem, "quantity", 1),
		WithFieldOverride(lineItem, "quantiy", 1),
	)
	require.NoError(t, err)

	a, err := p.Analyze(lineItem)
	require.NoError(t, err)
	require.Len(t, a.Warnings, 1)
	assert.Equal(t,
		`[store.LineItem] quantiy: [unused_override] override for field "quantiy" was never requested (did you mean "quantity"?)`,
		a.Warnings[0])

	a, err = p.Analyze(reflect.TypeFor[warehouse.Shelf]())
	require.NoError(t, err)
	require.Len(t, a.Warnings, 1)
	assert.Contains(t, a.Warnings[0], "[opaque_shape]")
	assert.Contains(t, a.Warnings[0], "func()")

	a, err = p.Analyze(reflect.TypeFor[social.Person]())
	require.NoError(t, err)
	assert.Empty(t, a.Warnings)
	assert.Equal(t, "Person{id: int, name: string, friends: [Person{<cyclic>}], nick: string?}", a.Info.String())
	assert.Equal(t,
		[]string{"[social.Person] Person.friends[]: [cyclic_reference] refers back to an enclosing Person"},
		a.Notes)

	a, err = p.Analyze(lineItem)
	require.NoError(t, err)
	assert.Empty(t, a.Notes)

	_, err = p.Analyze(nil)
	require.ErrorIs(t, err, ErrNilType)
}

func TestAnalyze_NestedKeyHints(t *testing.T) {
	loc := reflect.TypeFor[location]()

	p, err := New(
		WithFieldOverride(loc, "geo.lat", 52.5),
		WithFieldOverride(loc, "geo.latt", 1.0),
		WithFieldOverride(loc, "lat", 1.0),
	)
	require.NoError(t, err)

	a, err := p.Analyze(loc)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`[probe.location] geo.latt: [unused_override] override for field "geo.latt" was never requested (did you mean "geo.lat"?)`,
		`[probe.location] lat: [unused_override] override for field "lat" was never requested`,
	}, a.Warnings)
}

func TestAnalyze_OverrideFileWarnings(t *testing.T) {
	path := writeOverrides(t, `version: "1"
types:
  - type: store.GiftWrap
  - type: store.LineItem
    fields:
      quantity: 3
`)

	p, err := New(WithOverridesFile(path))
	require.NoError(t, err)

	a, err := p.Analyze(reflect.TypeFor[store.LineItem]())
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"[store.GiftWrap]: [empty_override] override has neither value nor fields"},
		a.Warnings)

	// file findings are reported again by every analysis
	a, err = p.Analyze(reflect.TypeFor[store.LineItem]())
	require.NoError(t, err)
	assert.Len(t, a.Warnings, 1)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Of[social.Person](WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "probing type")
	assert.Contains(t, out, "cycle detected")
	assert.Contains(t, out, "shape-prober/examples/social.Person")

	buf.Reset()
	_, err = Of[store.Status](WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "probe failed")
	assert.Contains(t, buf.String(), "kind=KindNoOverride")
}

func TestProber_Concurrent(t *testing.T) {
	p, err := New(
		WithScalarOverride(reflect.TypeFor[store.Status](), "pending"),
		WithFieldOverride(reflect.TypeFor[store.LineItem](), "quantity", store.MinQuantity),
	)
	require.NoError(t, err)

	expected, err := p.Decode(reflect.TypeFor[store.Order]())
	require.NoError(t, err)

	types := []reflect.Type{
		reflect.TypeFor[store.Order](),
		reflect.TypeFor[social.Person](),
		reflect.TypeFor[social.Feed](),
		reflect.TypeFor[warehouse.Customer](),
	}

	results := make([]string, 64)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			info, err := p.Decode(types[i%len(types)])
			if err != nil {
				return err
			}
			results[i] = info.String()
			return nil
		})
	}

	require.NoError(t, g.Wait())

	for i, r := range results {
		if i%len(types) == 0 {
			assert.Equal(t, expected.String(), r)
		}
		assert.True(t, strings.HasPrefix(r, types[i%len(types)].Name()+"{"), r)
	}
}
