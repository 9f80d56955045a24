package remap

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// TypeMap is the full mapping configuration for one TypePair: an ordered
// set of PropertyMaps plus optional constructor and before/after hooks.
// A TypeMap is mutable only until sealed; the engine reads it without
// locking afterwards.
type TypeMap struct {
	pair    TypePair
	srcInfo *typeInfo
	dstInfo *typeInfo

	// Explicit maps first, in declaration order; auto-matched maps follow
	// in destination field-declaration order.
	propertyMaps []*PropertyMap

	constructor Constructor
	beforeHooks []Hook
	afterHooks  []Hook

	// Builder-time mistakes (unresolvable selectors, unknown field names)
	// are deferred to validation so they surface in one batch.
	deferred []error

	sealOnce sync.Once
	sealed   atomic.Bool
}

func newTypeMap(pair TypePair) *TypeMap {
	return &TypeMap{
		pair:    pair,
		srcInfo: descriptors.infoFor(pair.SourceType),
		dstInfo: descriptors.infoFor(pair.DestinationType),
	}
}

// Pair returns the identity of this map.
func (tm *TypeMap) Pair() TypePair {
	return tm.pair
}

// PropertyMaps returns the ordered per-field configuration. The slice must
// not be mutated after sealing.
func (tm *TypeMap) PropertyMaps() []*PropertyMap {
	return tm.propertyMaps
}

// Sealed reports whether automatic matching has run.
func (tm *TypeMap) Sealed() bool {
	return tm.sealed.Load()
}

// propertyMapFor finds the PropertyMap for a destination field name.
func (tm *TypeMap) propertyMapFor(name string) *PropertyMap {
	for _, pm := range tm.propertyMaps {
		if pm.destination.name == name {
			return pm
		}
	}
	return nil
}

// ensureExplicit finds or creates the explicit PropertyMap for a
// destination field. Returns nil when the destination shape has no such
// field; the caller records that as a deferred failure.
func (tm *TypeMap) ensureExplicit(name string) *PropertyMap {
	fi := tm.dstInfo.lookup(name)
	if fi == nil {
		return nil
	}
	if pm := tm.propertyMapFor(fi.name); pm != nil {
		pm.explicit = true
		return pm
	}
	pm := &PropertyMap{destination: fi, explicit: true}
	tm.propertyMaps = append(tm.propertyMaps, pm)
	return pm
}

// seal runs automatic field matching once and compiles every PropertyMap
// into its applier. Idempotent; the configuration guards against mutation
// afterwards. converters widen compatibility: a registered converter makes
// its pair auto-matchable.
func (tm *TypeMap) seal(converters map[TypePair]TypeConverter) {
	tm.sealOnce.Do(func() {
		tm.autoMatch(converters)
		for _, pm := range tm.propertyMaps {
			pm.apply = compilePropertyMap(tm, pm)
		}
		tm.sealed.Store(true)
	})
}

// autoMatch synthesizes PropertyMaps for every destination field that has
// no explicit one, matching source fields by name, case-insensitively.
// Explicit maps that name neither a source nor a producer also pick up a
// same-named source field here, so ForMember(..., Condition(...)) alone
// still maps the field.
func (tm *TypeMap) autoMatch(converters map[TypePair]TypeConverter) {
	matchable := func(src, dest reflect.Type) bool {
		if _, ok := converters[NewTypePair(src, dest)]; ok {
			return true
		}
		return compatibleTypes(src, dest)
	}

	for _, pm := range tm.propertyMaps {
		if pm.ignored || pm.hasValueSource() {
			continue
		}
		if src := tm.srcInfo.lookup(pm.destination.name); src != nil && matchable(src.fieldType, pm.destination.fieldType) {
			pm.source = src
			pm.sourcePath = src.index
		}
	}

	for _, dest := range tm.dstInfo.fields {
		if tm.propertyMapFor(dest.name) != nil {
			continue
		}

		if src := tm.srcInfo.lookup(dest.name); src != nil {
			if matchable(src.fieldType, dest.fieldType) {
				tm.propertyMaps = append(tm.propertyMaps, &PropertyMap{
					destination: dest,
					source:      src,
					sourcePath:  src.index,
				})
			}
			// Incompatible same-named field stays unmapped and is
			// reported by validation, not silently flatten-matched.
			continue
		}

		if pm := tm.tryFlattenMatch(dest); pm != nil {
			tm.propertyMaps = append(tm.propertyMaps, pm)
		}
	}
}

// tryFlattenMatch matches a flattened destination field to nested source
// fields: CustomerName -> Customer.Name.
func (tm *TypeMap) tryFlattenMatch(dest *fieldInfo) *PropertyMap {
	path := splitPascalCase(dest.name)
	if len(path) < 2 {
		return nil
	}

	currentType := tm.pair.SourceType
	var indices []int
	var head *fieldInfo

	for i, part := range path {
		info := descriptors.infoFor(currentType)
		field := info.lookup(part)
		if field == nil {
			return nil
		}
		if i == 0 {
			head = field
		}
		indices = append(indices, field.index...)

		if i < len(path)-1 {
			fieldType := indirectType(field.fieldType)
			if fieldType.Kind() != reflect.Struct {
				return nil
			}
			currentType = fieldType
		} else if !compatibleTypes(field.fieldType, dest.fieldType) {
			return nil
		}
	}

	return &PropertyMap{
		destination: dest,
		source:      head,
		sourcePath:  indices,
		flattened:   true,
	}
}

// validate asserts the post-seal invariants and collects every failure
// rather than stopping at the first. It must only run after sealing.
func (tm *TypeMap) validate() []error {
	errs := append([]error(nil), tm.deferred...)

	for _, pm := range tm.propertyMaps {
		if pm.ignored {
			continue
		}
		if !pm.hasValueSource() {
			errs = append(errs, fmt.Errorf(
				"%s: destination member %q has no matching source member and no producer; map it with MapFrom or mark it Ignore",
				tm.pair, pm.destination.name))
		}
	}

	for _, dest := range tm.dstInfo.fields {
		if tm.propertyMapFor(dest.name) == nil {
			errs = append(errs, fmt.Errorf(
				"%s: destination member %q is unmapped; add a mapping or mark it Ignore",
				tm.pair, dest.name))
		}
	}

	return errs
}

// compatibleTypes decides whether automatic matching may pair two field
// types. Checked in order: identical, assignable, pointer-unwrap on either
// side, numeric scalars (widening and narrowing both deferred to runtime
// conversion). Struct-to-struct, slice-to-slice, and map-to-map pairs are
// accepted and resolved element-wise at mapping time.
func compatibleTypes(src, dest reflect.Type) bool {
	if src == dest {
		return true
	}
	if src.AssignableTo(dest) {
		return true
	}
	if src.Kind() == reflect.Ptr {
		return compatibleTypes(src.Elem(), dest)
	}
	if dest.Kind() == reflect.Ptr {
		return compatibleTypes(src, dest.Elem())
	}
	if isNumericKind(src.Kind()) && isNumericKind(dest.Kind()) {
		return true
	}
	if src.Kind() == reflect.Struct && dest.Kind() == reflect.Struct {
		return true
	}
	if src.Kind() == reflect.Slice && dest.Kind() == reflect.Slice {
		return compatibleTypes(src.Elem(), dest.Elem())
	}
	if src.Kind() == reflect.Map && dest.Kind() == reflect.Map {
		return compatibleTypes(src.Key(), dest.Key()) && compatibleTypes(src.Elem(), dest.Elem())
	}
	return false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
