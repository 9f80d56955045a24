package remap

import (
	"fmt"
	"reflect"
)

// Mapper is the stateless execution engine over a sealed configuration.
// It performs no mutation of the configuration or any TypeMap, so
// arbitrarily many mapping calls may run concurrently, provided
// caller-supplied producers and hooks are themselves safe to invoke
// concurrently.
type Mapper struct {
	config *MapperConfiguration
}

// Configuration returns the sealed configuration this mapper executes.
func (m *Mapper) Configuration() *MapperConfiguration {
	return m.config
}

// Map maps src to a new TDest instance. The type pair is inferred from the
// call site.
func Map[TDest any](m *Mapper, src any) (TDest, error) {
	var dest TDest
	if m == nil {
		return dest, &NullArgumentError{Name: "mapper"}
	}
	destVal := reflect.ValueOf(&dest).Elem()
	if err := m.mapNew(src, destVal); err != nil {
		return dest, err
	}
	return dest, nil
}

// MapTo maps src into an existing destination instance. Fields whose guard
// evaluates false keep their prior values.
func MapTo[TDest any](m *Mapper, src any, dest *TDest) error {
	if m == nil {
		return &NullArgumentError{Name: "mapper"}
	}
	if dest == nil {
		return &NullArgumentError{Name: "destination"}
	}
	return m.mapExisting(src, reflect.ValueOf(dest).Elem())
}

// MapSlice maps every element of src to a new destination slice.
func MapSlice[TSrc, TDest any](m *Mapper, src []TSrc) ([]TDest, error) {
	if m == nil {
		return nil, &NullArgumentError{Name: "mapper"}
	}
	if src == nil {
		if m.config.allowNilCollections {
			return nil, nil
		}
		return []TDest{}, nil
	}

	result := make([]TDest, len(src))
	for i, s := range src {
		dest, err := Map[TDest](m, s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		result[i] = dest
	}
	return result, nil
}

// MapValue maps src to a new instance of destType, for callers without
// static type information. srcType selects the registered pair; it may be
// the dynamic type of src or an interface it was stored in.
func (m *Mapper) MapValue(src any, srcType, destType reflect.Type) (any, error) {
	if src == nil {
		return nil, &NullArgumentError{Name: "source"}
	}
	if srcType == nil {
		return nil, &NullArgumentError{Name: "sourceType"}
	}
	if destType == nil {
		return nil, &NullArgumentError{Name: "destinationType"}
	}

	wantPtr := destType.Kind() == reflect.Ptr
	destVal := reflect.New(indirectType(destType)).Elem()
	if err := m.mapPair(src, NewTypePair(srcType, destType), destVal, true); err != nil {
		return nil, err
	}
	if wantPtr {
		return destVal.Addr().Interface(), nil
	}
	return destVal.Interface(), nil
}

// MapInto maps src into dest, which must be a non-nil pointer to the
// destination instance.
func (m *Mapper) MapInto(src, dest any) error {
	if dest == nil {
		return &NullArgumentError{Name: "destination"}
	}
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return &NullArgumentError{Name: "destination"}
	}
	return m.mapExisting(src, destVal.Elem())
}

// mapNew maps into a freshly constructed destination. destVal is the
// settable destination slot; pointer slots are allocated here.
func (m *Mapper) mapNew(src any, destVal reflect.Value) error {
	if src == nil {
		return &NullArgumentError{Name: "source"}
	}
	srcVal := indirectValue(reflect.ValueOf(src))
	if !srcVal.IsValid() {
		return &NullArgumentError{Name: "source"}
	}

	pair := NewTypePair(srcVal.Type(), destVal.Type())
	return m.mapPairValue(srcVal, pair, destVal, true)
}

// mapExisting maps into an already-populated destination; no constructor
// runs and unwritten fields keep their values.
func (m *Mapper) mapExisting(src any, destVal reflect.Value) error {
	if src == nil {
		return &NullArgumentError{Name: "source"}
	}
	srcVal := indirectValue(reflect.ValueOf(src))
	if !srcVal.IsValid() {
		return &NullArgumentError{Name: "source"}
	}

	pair := NewTypePair(srcVal.Type(), destVal.Type())
	return m.mapPairValue(srcVal, pair, destVal, false)
}

func (m *Mapper) mapPair(src any, pair TypePair, destVal reflect.Value, construct bool) error {
	srcVal := indirectValue(reflect.ValueOf(src))
	if !srcVal.IsValid() {
		return &NullArgumentError{Name: "source"}
	}
	return m.mapPairValue(srcVal, pair, destVal, construct)
}

// mapPairValue is the mapping algorithm: look up the TypeMap (not found
// aborts before any destination is touched), construct, run before hooks,
// apply every PropertyMap in order, run after hooks.
func (m *Mapper) mapPairValue(srcVal reflect.Value, pair TypePair, destVal reflect.Value, construct bool) error {
	tm := m.config.FindTypeMapFor(pair)
	if tm == nil {
		return &MappingNotFoundError{Pair: pair}
	}

	if destVal.Kind() == reflect.Ptr {
		if destVal.IsNil() {
			destVal.Set(reflect.New(destVal.Type().Elem()))
		}
		destVal = destVal.Elem()
	}

	if construct && tm.constructor != nil {
		built, err := tm.constructor(srcVal.Interface())
		if err != nil {
			return &FieldMappingError{Field: "(constructor)", Pair: pair, Inner: err}
		}
		builtVal := indirectValue(reflect.ValueOf(built))
		if !builtVal.IsValid() || !builtVal.Type().AssignableTo(destVal.Type()) {
			return &FieldMappingError{
				Field: "(constructor)",
				Pair:  pair,
				Inner: fmt.Errorf("constructor returned %T, want %v", built, destVal.Type()),
			}
		}
		destVal.Set(builtVal)
	}

	return m.execute(tm, srcVal, destVal)
}

// execute runs hooks and compiled property appliers against an
// addressable destination value. A field failure aborts the remaining
// fields of this one call; already-applied fields keep their values.
func (m *Mapper) execute(tm *TypeMap, srcVal, destVal reflect.Value) error {
	srcIface := srcVal.Interface()
	destPtr := destVal.Addr().Interface()

	for _, hook := range tm.beforeHooks {
		if err := hook(srcIface, destPtr); err != nil {
			return err
		}
	}

	for _, pm := range tm.propertyMaps {
		if pm.apply == nil {
			continue
		}
		if err := pm.apply(m, srcVal, destVal); err != nil {
			return err
		}
	}

	for _, hook := range tm.afterHooks {
		if err := hook(srcIface, destPtr); err != nil {
			return err
		}
	}

	return nil
}
