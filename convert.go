package remap

import (
	"fmt"
	"reflect"
	"strconv"
)

// assignValue writes a computed value into a destination field, converting
// when the runtime type differs from the declared field type.
//
// Conversion order: unwrap a pointer-typed destination (nil propagates
// unchanged), use the value as-is when assignable, consult registered type
// converters, recurse through registered nested maps for struct fields,
// map slices element-wise, then attempt a generic numeric/textual
// conversion. An irreconcilable mismatch raises an error rather than
// silently storing the unconverted value.
func (m *Mapper) assignValue(value reflect.Value, destField reflect.Value) error {
	destType := destField.Type()

	if destType.Kind() == reflect.Ptr {
		if !value.IsValid() || ((value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface) && value.IsNil()) {
			destField.Set(reflect.Zero(destType))
			return nil
		}
		if destField.IsNil() {
			destField.Set(reflect.New(destType.Elem()))
		}
		return m.assignValue(value, destField.Elem())
	}

	value = indirectValue(value)
	if !value.IsValid() {
		destField.Set(reflect.Zero(destType))
		return nil
	}

	srcType := value.Type()

	if converter := m.config.converterFor(NewTypePair(srcType, destType)); converter != nil {
		out, err := converter(value.Interface())
		if err != nil {
			return err
		}
		if out == nil {
			destField.Set(reflect.Zero(destType))
			return nil
		}
		converted := reflect.ValueOf(out)
		if !converted.Type().AssignableTo(destType) {
			return fmt.Errorf("converter returned %v, want %v", converted.Type(), destType)
		}
		destField.Set(converted)
		return nil
	}

	if srcType.AssignableTo(destType) {
		destField.Set(value)
		return nil
	}

	if srcType.Kind() == reflect.Struct && destType.Kind() == reflect.Struct {
		if tm := m.config.FindTypeMapFor(NewTypePair(srcType, destType)); tm != nil {
			return m.execute(tm, value, destField)
		}
		return fmt.Errorf("no mapping registered for nested pair %s", NewTypePair(srcType, destType))
	}

	if srcType.Kind() == reflect.Slice && destType.Kind() == reflect.Slice {
		return m.assignSlice(value, destField)
	}

	if srcType.Kind() == reflect.Map && destType.Kind() == reflect.Map {
		return m.assignMap(value, destField)
	}

	return m.convertScalar(value, destField)
}

// assignSlice maps a slice value element-wise into a slice-typed field.
func (m *Mapper) assignSlice(value reflect.Value, destField reflect.Value) error {
	destType := destField.Type()

	if value.IsNil() {
		if m.config.allowNilCollections {
			destField.Set(reflect.Zero(destType))
		} else {
			destField.Set(reflect.MakeSlice(destType, 0, 0))
		}
		return nil
	}

	length := value.Len()
	out := reflect.MakeSlice(destType, length, length)
	for i := 0; i < length; i++ {
		if err := m.assignValue(value.Index(i), out.Index(i)); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	destField.Set(out)
	return nil
}

// assignMap maps a map value entry-wise into a map-typed field, converting
// keys and values independently.
func (m *Mapper) assignMap(value reflect.Value, destField reflect.Value) error {
	destType := destField.Type()

	if value.IsNil() {
		if m.config.allowNilCollections {
			destField.Set(reflect.Zero(destType))
		} else {
			destField.Set(reflect.MakeMap(destType))
		}
		return nil
	}

	out := reflect.MakeMapWithSize(destType, value.Len())
	keyType := destType.Key()
	valueType := destType.Elem()

	iter := value.MapRange()
	for iter.Next() {
		key := reflect.New(keyType).Elem()
		if err := m.assignValue(iter.Key(), key); err != nil {
			return fmt.Errorf("map key %v: %w", iter.Key().Interface(), err)
		}
		val := reflect.New(valueType).Elem()
		if err := m.assignValue(iter.Value(), val); err != nil {
			return fmt.Errorf("map key %v: %w", iter.Key().Interface(), err)
		}
		out.SetMapIndex(key, val)
	}
	destField.Set(out)
	return nil
}

// convertScalar performs the generic numeric/textual conversion fallback.
func (m *Mapper) convertScalar(value reflect.Value, destField reflect.Value) error {
	srcType := value.Type()
	destType := destField.Type()
	srcKind := srcType.Kind()
	destKind := destType.Kind()

	// Numeric widening/narrowing in any direction.
	if isNumericKind(srcKind) && isNumericKind(destKind) {
		destField.Set(value.Convert(destType))
		return nil
	}

	// Numeric to string goes through strconv; reflect's Convert would
	// interpret the integer as a rune.
	if destKind == reflect.String && srcKind != reflect.String {
		if s, ok := formatScalar(value); ok {
			destField.Set(reflect.ValueOf(s).Convert(destType))
			return nil
		}
	}

	if srcKind == reflect.String && destKind != reflect.String {
		if out, ok, err := parseScalar(value.String(), destType); ok {
			if err != nil {
				return err
			}
			destField.Set(out)
			return nil
		}
	}

	// Remaining textual conversions: string <-> []byte/[]rune, named
	// string types.
	if srcType.ConvertibleTo(destType) && !isNumericKind(srcKind) {
		destField.Set(value.Convert(destType))
		return nil
	}

	return fmt.Errorf("cannot convert %v to %v", srcType, destType)
}

func formatScalar(value reflect.Value) (string, bool) {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(value.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(value.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'g', -1, 64), true
	case reflect.Bool:
		return strconv.FormatBool(value.Bool()), true
	}
	return "", false
}

func parseScalar(s string, destType reflect.Type) (reflect.Value, bool, error) {
	out := reflect.New(destType).Elem()
	switch destType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, destType.Bits())
		if err != nil {
			return reflect.Value{}, true, fmt.Errorf("parsing %q as %v: %w", s, destType, err)
		}
		out.SetInt(n)
		return out, true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, destType.Bits())
		if err != nil {
			return reflect.Value{}, true, fmt.Errorf("parsing %q as %v: %w", s, destType, err)
		}
		out.SetUint(n)
		return out, true, nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, destType.Bits())
		if err != nil {
			return reflect.Value{}, true, fmt.Errorf("parsing %q as %v: %w", s, destType, err)
		}
		out.SetFloat(f)
		return out, true, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, true, fmt.Errorf("parsing %q as %v: %w", s, destType, err)
		}
		out.SetBool(b)
		return out, true, nil
	}
	return reflect.Value{}, false, nil
}
