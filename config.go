package remap

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type configState int

const (
	configBuilding configState = iota
	configSealed
)

// MapperConfiguration owns every registered TypeMap. It is built once,
// sealed inside NewMapperConfiguration, and read-only afterwards: the
// engine consults it for every mapping call without locking.
//
// TypeMaps keep insertion order and duplicates are permitted; lookup takes
// the first structural match.
type MapperConfiguration struct {
	mu       sync.Mutex
	state    configState
	typeMaps []*TypeMap

	converters map[TypePair]TypeConverter

	logger              *zap.Logger
	allowNilCollections bool
}

// Option configures a MapperConfiguration at construction time.
type Option func(*MapperConfiguration)

// WithLogger attaches a structured logger for configuration lifecycle
// events. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *MapperConfiguration) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAllowNilCollections preserves nil slices instead of mapping them to
// empty ones.
func WithAllowNilCollections() Option {
	return func(c *MapperConfiguration) {
		c.allowNilCollections = true
	}
}

// NewMapperConfiguration runs the configure callback against a fresh
// builder, takes ownership of the accumulated TypeMaps, and seals them.
// Sealing happens exactly once, here, under a mutual-exclusion guard;
// after this call the configuration accepts no further registrations.
func NewMapperConfiguration(configure func(*ConfigurationBuilder), opts ...Option) *MapperConfiguration {
	builder := NewConfigurationBuilder()
	if configure != nil {
		configure(builder)
	}

	c := &MapperConfiguration{
		typeMaps:   builder.typeMaps,
		converters: builder.converters,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.seal()
	return c
}

// seal transitions Building -> Sealed exactly once. Concurrent callers
// observe either state but never repeat the seal work.
func (c *MapperConfiguration) seal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == configSealed {
		return
	}

	auto := 0
	for _, tm := range c.typeMaps {
		before := len(tm.PropertyMaps())
		tm.seal(c.converters)
		auto += len(tm.PropertyMaps()) - before
	}
	c.state = configSealed

	c.logger.Debug("mapper configuration sealed",
		zap.Int("type_maps", len(c.typeMaps)),
		zap.Int("auto_matched_members", auto))
}

// Sealed reports whether the configuration has been finalized.
func (c *MapperConfiguration) Sealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == configSealed
}

// FindTypeMapFor returns the first registered TypeMap matching the pair,
// or nil. A linear scan is deliberate: registration sets are small and
// lookups happen once per mapping call, not per field.
func (c *MapperConfiguration) FindTypeMapFor(pair TypePair) *TypeMap {
	for _, tm := range c.typeMaps {
		if tm.pair == pair {
			return tm
		}
	}
	return nil
}

// TypeMaps returns every registered TypeMap in insertion order.
func (c *MapperConfiguration) TypeMaps() []*TypeMap {
	out := make([]*TypeMap, len(c.typeMaps))
	copy(out, c.typeMaps)
	return out
}

// converterFor returns the registered type converter for a pair, or nil.
func (c *MapperConfiguration) converterFor(pair TypePair) TypeConverter {
	return c.converters[pair]
}

// CreateMapper returns the stateless execution engine over this
// configuration. Calling it before sealing is a programming error.
func (c *MapperConfiguration) CreateMapper() (*Mapper, error) {
	if !c.Sealed() {
		return nil, &ConfigurationError{Reason: "CreateMapper requires a sealed configuration; construct it with NewMapperConfiguration"}
	}
	return &Mapper{config: c}, nil
}

// AssertConfigurationIsValid validates every TypeMap and aggregates all
// failures into a single error. It never stops at the first failure.
func (c *MapperConfiguration) AssertConfigurationIsValid() error {
	if !c.Sealed() {
		return &ConfigurationError{Reason: "validation requires a sealed configuration"}
	}

	var failures error
	for _, tm := range c.typeMaps {
		for _, err := range tm.validate() {
			failures = multierr.Append(failures, err)
		}
	}

	if failures == nil {
		c.logger.Debug("mapper configuration valid", zap.Int("type_maps", len(c.typeMaps)))
		return nil
	}

	c.logger.Warn("mapper configuration invalid",
		zap.Int("failures", len(multierr.Errors(failures))))
	return &ConfigurationError{Failures: failures}
}
