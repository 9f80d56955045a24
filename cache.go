package remap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// fieldCache caches field descriptors per shape so reflection runs once
// per type, not once per mapping call.
type fieldCache struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*typeInfo
}

// typeInfo is the descriptor set for one shape.
type typeInfo struct {
	typ    reflect.Type
	fields []*fieldInfo
	byName map[string]*fieldInfo
	byFold map[string]*fieldInfo // lower-cased name index for case-insensitive matching
}

// fieldInfo describes a single field: name, index path (embedded structs
// flattened), and declared type.
type fieldInfo struct {
	name      string
	index     []int
	fieldType reflect.Type
}

// descriptors is the process-wide cache. Descriptors are a pure function
// of the reflect.Type, so sharing them across configurations is safe.
var descriptors = newFieldCache()

func newFieldCache() *fieldCache {
	return &fieldCache{cache: make(map[reflect.Type]*typeInfo)}
}

// infoFor retrieves or builds the descriptor set for a type.
func (fc *fieldCache) infoFor(t reflect.Type) *typeInfo {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fc.mu.RLock()
	info, ok := fc.cache[t]
	fc.mu.RUnlock()
	if ok {
		return info
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Double-check after acquiring write lock
	if info, ok = fc.cache[t]; ok {
		return info
	}

	info = buildTypeInfo(t)
	fc.cache[t] = info
	return info
}

func buildTypeInfo(t reflect.Type) *typeInfo {
	info := &typeInfo{
		typ:    t,
		byName: make(map[string]*fieldInfo),
		byFold: make(map[string]*fieldInfo),
	}

	if t.Kind() != reflect.Struct {
		return info
	}

	collectFields(t, nil, info)
	return info
}

// collectFields walks a struct type, flattening embedded structs into the
// descriptor list. Only exported fields are collected.
func collectFields(t reflect.Type, index []int, info *typeInfo) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldIdx := append(append([]int{}, index...), i)

		if field.Anonymous {
			fieldType := field.Type
			if fieldType.Kind() == reflect.Ptr {
				fieldType = fieldType.Elem()
			}
			if fieldType.Kind() == reflect.Struct {
				collectFields(fieldType, fieldIdx, info)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		fi := &fieldInfo{
			name:      field.Name,
			index:     fieldIdx,
			fieldType: field.Type,
		}
		info.fields = append(info.fields, fi)
		if _, taken := info.byName[fi.name]; !taken {
			info.byName[fi.name] = fi
		}
		fold := strings.ToLower(fi.name)
		if _, taken := info.byFold[fold]; !taken {
			info.byFold[fold] = fi
		}
	}
}

// lookup finds a field by name, falling back to a case-insensitive match.
func (ti *typeInfo) lookup(name string) *fieldInfo {
	if fi, ok := ti.byName[name]; ok {
		return fi
	}
	return ti.byFold[strings.ToLower(name)]
}

// fieldByPath reads the value at an index path, stopping at nil pointers.
// An unreachable field yields an invalid value, not an error.
func fieldByPath(v reflect.Value, index []int) reflect.Value {
	v = indirectValue(v)
	if !v.IsValid() {
		return reflect.Value{}
	}

	for _, idx := range index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || idx >= v.NumField() {
			return reflect.Value{}
		}
		v = v.Field(idx)
	}

	return v
}

// settableFieldByPath walks an index path on an addressable struct value,
// allocating nil embedded pointers along the way so the final field can be
// written. The destination counterpart of fieldByPath.
func settableFieldByPath(v reflect.Value, index []int) (reflect.Value, error) {
	for _, idx := range index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot allocate nil embedded %v", v.Type().Elem())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || idx >= v.NumField() {
			return reflect.Value{}, fmt.Errorf("no field at index %d in %v", idx, v.Type())
		}
		v = v.Field(idx)
	}
	return v, nil
}

// splitPascalCase splits a PascalCase name into individual words.
// Example: "CustomerName" -> ["Customer", "Name"]
func splitPascalCase(s string) []string {
	if len(s) == 0 {
		return nil
	}

	var words []string
	var current []rune

	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
		current = append(current, r)
	}

	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}
