package remap

import (
	"fmt"
	"reflect"
)

// applier is the compiled form of one PropertyMap: read, guard, convert,
// write. Sealing compiles every PropertyMap once so the engine executes
// stored closures instead of re-deciding strategy per mapping call.
type applier func(m *Mapper, srcVal, destVal reflect.Value) error

// valueReader computes the raw value for a destination field. An invalid
// reflect.Value means "absent": a nil pointer on the source path or a
// producer that returned nil.
type valueReader func(srcVal reflect.Value) (reflect.Value, error)

// compilePropertyMap builds the applier for one PropertyMap. Ignored maps
// compile to nil and are skipped by the engine outright.
func compilePropertyMap(tm *TypeMap, pm *PropertyMap) applier {
	if pm.ignored {
		return nil
	}

	read := compileReader(pm)
	if read == nil {
		// No source and no producer. Sealing filters this combination
		// into a validation failure; at runtime it is a defensive no-op.
		return func(*Mapper, reflect.Value, reflect.Value) error { return nil }
	}

	destIndex := pm.destination.index
	guard := pm.guard
	field := pm.destination.name
	pair := tm.pair

	return func(m *Mapper, srcVal, destVal reflect.Value) error {
		value, err := read(srcVal)
		if err != nil {
			return &FieldMappingError{Field: field, Pair: pair, Inner: err}
		}

		if guard != nil && !guard(srcVal.Interface()) {
			return nil
		}

		// The walk allocates nil embedded pointers; FieldByIndex would
		// panic on them.
		destField, err := settableFieldByPath(destVal, destIndex)
		if err != nil {
			return &FieldMappingError{Field: field, Pair: pair, Inner: err}
		}
		if !destField.CanSet() {
			return nil
		}

		if err := m.assignValue(value, destField); err != nil {
			return &FieldMappingError{Field: field, Pair: pair, Inner: err}
		}
		return nil
	}
}

// compileReader selects the value strategy: producer wins over source
// field, source field reads through the pre-resolved index path.
func compileReader(pm *PropertyMap) valueReader {
	if pm.producer != nil {
		producer := pm.producer
		return func(srcVal reflect.Value) (reflect.Value, error) {
			out, err := producer(srcVal.Interface())
			if err != nil {
				return reflect.Value{}, err
			}
			if out == nil {
				return reflect.Value{}, nil
			}
			return reflect.ValueOf(out), nil
		}
	}

	if len(pm.sourcePath) > 0 {
		path := pm.sourcePath
		return func(srcVal reflect.Value) (reflect.Value, error) {
			return fieldByPath(srcVal, path), nil
		}
	}

	return nil
}

// constantProducer wraps a literal as a producer that ignores its input.
func constantProducer(value any) ValueProducer {
	return func(any) (any, error) {
		return value, nil
	}
}

// typedProducer adapts a typed source expression to a ValueProducer,
// tolerating both value and pointer source instances.
func typedProducer[TSrc any](fn func(src TSrc) (any, error)) ValueProducer {
	return func(src any) (any, error) {
		s, ok := sourceAs[TSrc](src)
		if !ok {
			return nil, fmt.Errorf("producer expected source %v, got %T", reflect.TypeOf((*TSrc)(nil)).Elem(), src)
		}
		return fn(s)
	}
}

// typedGuard adapts a typed predicate to a Guard. A source of an
// unexpected type fails the guard, skipping the field.
func typedGuard[TSrc any](fn func(src TSrc) bool) Guard {
	return func(src any) bool {
		s, ok := sourceAs[TSrc](src)
		if !ok {
			return false
		}
		return fn(s)
	}
}

// sourceAs unwraps a source instance to the requested static type,
// accepting either the value or a pointer to it.
func sourceAs[T any](src any) (T, bool) {
	if v, ok := src.(T); ok {
		return v, true
	}
	if p, ok := src.(*T); ok && p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}
