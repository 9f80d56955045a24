package remap

// ValueProducer computes a destination field's value from the whole source
// instance. A producer always wins over automatic source-field resolution.
type ValueProducer func(src any) (any, error)

// Guard decides whether a field is mapped at all for a given source
// instance. When it returns false the destination field keeps its prior
// value; it is skipped, not defaulted.
type Guard func(src any) bool

// Hook runs before or after a mapping call. dest is always a pointer to
// the destination instance.
type Hook func(src, dest any) error

// Constructor builds a destination instance from the source, replacing
// default construction.
type Constructor func(src any) (any, error)

// TypeConverter converts a value between two registered shapes. Converters
// are consulted during value conversion before any generic fallback.
type TypeConverter func(src any) (any, error)

// PropertyMap is the mapping configuration for one destination field within
// a TypeMap. After sealing, a non-ignored PropertyMap carries a source
// field or a producer; anything else fails validation.
type PropertyMap struct {
	destination *fieldInfo
	source      *fieldInfo
	sourcePath  []int // resolved read path; differs from source.index when flattened
	producer    ValueProducer
	guard       Guard
	ignored     bool
	explicit    bool // declared through the builder rather than auto-matched
	flattened   bool

	apply applier // compiled at seal time
}

// DestinationName reports the destination field this map writes.
func (pm *PropertyMap) DestinationName() string {
	return pm.destination.name
}

// SourceName reports the matched source field, or "" when the value comes
// from a producer.
func (pm *PropertyMap) SourceName() string {
	if pm.source == nil {
		return ""
	}
	return pm.source.name
}

// Ignored reports whether the destination field is skipped entirely.
func (pm *PropertyMap) Ignored() bool {
	return pm.ignored
}

// Explicit reports whether the map was declared through the builder.
func (pm *PropertyMap) Explicit() bool {
	return pm.explicit
}

// Flattened reports whether the source is a nested path matched by
// PascalCase splitting or a dotted MapFrom name.
func (pm *PropertyMap) Flattened() bool {
	return pm.flattened
}

// hasValueSource reports whether the map can produce a value at all.
func (pm *PropertyMap) hasValueSource() bool {
	return pm.producer != nil || pm.source != nil || len(pm.sourcePath) > 0
}
