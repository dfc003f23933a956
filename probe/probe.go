package probe

import (
	"fmt"
	"log/slog"
	"reflect"

	"shape-prober/internal/diagnostic"
	"shape-prober/internal/overrides"
	"shape-prober/options"
	"shape-prober/shape"
)

// Prober infers shapes of types. A Prober is immutable once created and may
// be used from multiple goroutines.
type Prober struct {
	cfg *config
}

type config struct {
	adapters  options.AdapterEnum
	overrides *overrides.Set
	logger    *slog.Logger
	err       error
}

// Option configures a Prober.
type Option func(*config)

// WithAdapters selects the built-in decode logic used for types that do not
// implement decoding.Decodable. The default is options.AdapterAll.
func WithAdapters(adapters options.AdapterEnum) Option {
	return func(c *config) {
		c.adapters = adapters
	}
}

// WithScalarOverride registers the raw value t accepts as its single value.
func WithScalarOverride(t reflect.Type, value any) Option {
	return func(c *config) {
		c.overrides.AddScalar(shape.IDOf(t).String(), value)
	}
}

// WithFieldOverride registers a value t accepts for the field key.
func WithFieldOverride(t reflect.Type, key string, value any) Option {
	return func(c *config) {
		c.overrides.AddField(shape.IDOf(t).String(), key, value)
	}
}

// WithOverridesFile loads overrides from a YAML file. Entries override
// values registered by earlier options.
func WithOverridesFile(path string) Option {
	return func(c *config) {
		if c.err != nil {
			return
		}

		f, err := overrides.LoadFile(path)
		if err != nil {
			c.err = err
			return
		}

		set, err := overrides.Compile(f)
		if err != nil {
			c.err = fmt.Errorf("%s: %w", path, err)
			return
		}

		c.overrides.Merge(set)
	}
}

// WithLogger sets the logger receiving debug events of every probe.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Prober.
func New(opts ...Option) (*Prober, error) {
	cfg := &config{
		adapters:  options.AdapterAll,
		overrides: overrides.NewSet(),
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.err != nil {
		return nil, fmt.Errorf("failed to configure prober: %w", cfg.err)
	}

	return &Prober{cfg: cfg}, nil
}

// Decode infers the shape of t by driving its decode logic with synthetic
// values. On failure the error is an *Error.
func (p *Prober) Decode(t reflect.Type) (*shape.TypeInfo, error) {
	a, err := p.Analyze(t)
	if err != nil {
		return nil, err
	}

	return a.Info, nil
}

// Analysis is the result of Analyze.
type Analysis struct {
	Info *shape.TypeInfo
	// Warnings describe parts of the shape that may need attention, such as
	// opaque fields and overrides that were never used.
	Warnings []string
	// Notes list the places where the shape refers back to an enclosing type.
	Notes []string
}

// Analyze infers the shape of t like Decode and reports warnings and notes.
func (p *Prober) Analyze(t reflect.Type) (*Analysis, error) {
	if t == nil {
		return nil, ErrNilType
	}

	s := newSession(p.cfg)

	info, err := s.decode(t, nil, reflect.Value{})
	if err != nil {
		return nil, err
	}

	s.collectDiagnostics(info)

	return &Analysis{
		Info:     info,
		Warnings: render(s.diags.Warnings),
		Notes:    render(s.diags.Infos),
	}, nil
}

func render(diags []diagnostic.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.String())
	}

	return out
}

// Decode infers the shape of t with a Prober configured by opts.
func Decode(t reflect.Type, opts ...Option) (*shape.TypeInfo, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return p.Decode(t)
}

// Of infers the shape of T.
func Of[T any](opts ...Option) (*shape.TypeInfo, error) {
	return Decode(reflect.TypeFor[T](), opts...)
}
