package remap

import (
	"fmt"
	"reflect"
	"strings"
)

// ConfigurationBuilder accumulates TypeMaps and type converters during the
// build phase. It is strictly single-threaded and is never touched after
// the configuration it feeds has been sealed.
type ConfigurationBuilder struct {
	typeMaps   []*TypeMap
	converters map[TypePair]TypeConverter
}

// NewConfigurationBuilder returns an empty builder. Most callers go
// through NewMapperConfiguration or NewProfile instead.
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{
		converters: make(map[TypePair]TypeConverter),
	}
}

// AddProfile merges a profile's accumulated TypeMaps and converters into
// this builder by reference. Sealing happens once, configuration-wide,
// after all profiles are merged.
func (b *ConfigurationBuilder) AddProfile(p *Profile) {
	if p == nil {
		return
	}
	b.typeMaps = append(b.typeMaps, p.TypeMaps()...)
	for pair, conv := range p.builder.converters {
		if _, taken := b.converters[pair]; !taken {
			b.converters[pair] = conv
		}
	}
}

// CreateMap registers a TypeMap for the (TSrc, TDest) pair and returns the
// fluent expression used to configure it. Repeated registration for the
// same pair is permitted; the first-registered map wins at lookup.
func CreateMap[TSrc, TDest any](b *ConfigurationBuilder) *MappingExpression[TSrc, TDest] {
	tm := newTypeMap(typePairOf[TSrc, TDest]())
	b.typeMaps = append(b.typeMaps, tm)
	return &MappingExpression[TSrc, TDest]{owner: b, typeMap: tm}
}

// ConvertUsing registers a global converter for the (TSrc, TDest) pair,
// consulted by value conversion before any generic fallback.
func ConvertUsing[TSrc, TDest any](b *ConfigurationBuilder, fn func(TSrc) (TDest, error)) {
	b.converters[typePairOf[TSrc, TDest]()] = func(src any) (any, error) {
		s, ok := src.(TSrc)
		if !ok {
			return nil, fmt.Errorf("converter expected %v, got %T", reflect.TypeOf((*TSrc)(nil)).Elem(), src)
		}
		return fn(s)
	}
}

// MappingExpression is the fluent DSL over one TypeMap. It is only valid
// during the build phase.
type MappingExpression[TSrc, TDest any] struct {
	owner   *ConfigurationBuilder
	typeMap *TypeMap
}

// TypeMap exposes the underlying map, mainly for inspection in tests.
func (e *MappingExpression[TSrc, TDest]) TypeMap() *TypeMap {
	return e.typeMap
}

// ForMember configures one destination field. The selector must return a
// pointer to the field:
//
//	CreateMap[User, UserDTO](b).
//	    ForMember(func(d *UserDTO) any { return &d.FullName }, MapFromFunc(...))
//
// An unresolvable selector is recorded and reported by
// AssertConfigurationIsValid together with all other failures.
func (e *MappingExpression[TSrc, TDest]) ForMember(
	selector func(*TDest) any,
	opts ...MemberOption,
) *MappingExpression[TSrc, TDest] {
	name := resolveSelector(selector)
	if name == "" {
		e.typeMap.deferred = append(e.typeMap.deferred, fmt.Errorf(
			"%s: cannot resolve destination member selector; return a pointer to the field",
			e.typeMap.pair))
		return e
	}
	return e.ForMemberName(name, opts...)
}

// ForMemberName configures one destination field by name.
func (e *MappingExpression[TSrc, TDest]) ForMemberName(
	name string,
	opts ...MemberOption,
) *MappingExpression[TSrc, TDest] {
	pm := e.typeMap.ensureExplicit(name)
	if pm == nil {
		e.typeMap.deferred = append(e.typeMap.deferred, fmt.Errorf(
			"%s: destination shape has no member %q", e.typeMap.pair, name))
		return e
	}
	for _, opt := range opts {
		opt(e.typeMap, pm)
	}
	return e
}

// BeforeMap installs a hook invoked before any field is mapped.
func (e *MappingExpression[TSrc, TDest]) BeforeMap(fn func(src *TSrc, dest *TDest) error) *MappingExpression[TSrc, TDest] {
	e.typeMap.beforeHooks = append(e.typeMap.beforeHooks, wrapHook(fn))
	return e
}

// AfterMap installs a hook invoked after all fields are mapped.
func (e *MappingExpression[TSrc, TDest]) AfterMap(fn func(src *TSrc, dest *TDest) error) *MappingExpression[TSrc, TDest] {
	e.typeMap.afterHooks = append(e.typeMap.afterHooks, wrapHook(fn))
	return e
}

// ConstructUsing replaces default construction of the destination with a
// custom factory.
func (e *MappingExpression[TSrc, TDest]) ConstructUsing(fn func(src TSrc) (TDest, error)) *MappingExpression[TSrc, TDest] {
	e.typeMap.constructor = func(src any) (any, error) {
		s, ok := sourceAs[TSrc](src)
		if !ok {
			return nil, fmt.Errorf("constructor expected source %v, got %T", reflect.TypeOf((*TSrc)(nil)).Elem(), src)
		}
		return fn(s)
	}
	return e
}

// ReverseMap registers a brand-new TypeMap for the swapped pair on the
// same owning list and returns its expression. The reverse map starts
// empty: explicit configuration on the forward map is not inverted, and
// automatic matching fills it at seal time.
func (e *MappingExpression[TSrc, TDest]) ReverseMap() *MappingExpression[TDest, TSrc] {
	return CreateMap[TDest, TSrc](e.owner)
}

// MemberOption configures one PropertyMap within its TypeMap.
type MemberOption func(*TypeMap, *PropertyMap)

// MapFrom maps the destination field from a named source field. Dotted
// paths reach into nested source structs: "Customer.Name". An unknown
// source field is reported by validation.
func MapFrom(sourceField string) MemberOption {
	return func(tm *TypeMap, pm *PropertyMap) {
		src, path := resolveSourcePath(tm, sourceField)
		if src == nil {
			tm.deferred = append(tm.deferred, fmt.Errorf(
				"%s: member %q maps from unknown source field %q",
				tm.pair, pm.destination.name, sourceField))
			return
		}
		pm.source = src
		pm.sourcePath = path
		pm.flattened = len(path) > len(src.index)
	}
}

// MapFromFunc maps the destination field from a producer over the whole
// source instance. A producer always wins over source-field resolution.
func MapFromFunc[TSrc any](fn func(src TSrc) (any, error)) MemberOption {
	producer := typedProducer(fn)
	return func(_ *TypeMap, pm *PropertyMap) {
		pm.producer = producer
	}
}

// Ignore skips the destination field entirely.
func Ignore() MemberOption {
	return func(_ *TypeMap, pm *PropertyMap) {
		pm.ignored = true
	}
}

// Condition guards the field: when the predicate returns false the
// destination keeps its prior value.
func Condition[TSrc any](fn func(src TSrc) bool) MemberOption {
	guard := typedGuard(fn)
	return func(_ *TypeMap, pm *PropertyMap) {
		pm.guard = guard
	}
}

// UseValue maps the destination field from a constant, regardless of the
// source instance.
func UseValue(value any) MemberOption {
	return func(_ *TypeMap, pm *PropertyMap) {
		pm.producer = constantProducer(value)
	}
}

// resolveSelector identifies which destination field a selector returns a
// pointer to, by comparing field addresses on a scratch instance. Promoted
// fields of embedded structs resolve like direct fields; embedded pointers
// are allocated on the scratch value first so their fields have addresses.
func resolveSelector[TDest any](selector func(*TDest) any) string {
	var scratch TDest
	scratchVal := reflect.ValueOf(&scratch).Elem()
	if scratchVal.Kind() != reflect.Struct {
		return ""
	}

	info := descriptors.infoFor(scratchVal.Type())
	for _, fi := range info.fields {
		if _, err := settableFieldByPath(scratchVal, fi.index); err != nil {
			return ""
		}
	}

	result := selector(&scratch)
	if result == nil {
		return ""
	}
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ""
	}
	target := rv.Pointer()

	for _, fi := range info.fields {
		field, err := settableFieldByPath(scratchVal, fi.index)
		if err != nil || !field.CanAddr() {
			continue
		}
		if field.Addr().Pointer() == target && field.Type() == rv.Type().Elem() {
			return fi.name
		}
	}
	return ""
}

// resolveSourcePath resolves a plain or dotted source field name against
// the source shape, returning the head field and the full index path.
func resolveSourcePath(tm *TypeMap, name string) (*fieldInfo, []int) {
	if fi := tm.srcInfo.lookup(name); fi != nil {
		return fi, fi.index
	}

	current := tm.pair.SourceType
	var head *fieldInfo
	var indices []int
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return nil, nil
	}
	for i, part := range parts {
		info := descriptors.infoFor(current)
		field := info.lookup(part)
		if field == nil {
			return nil, nil
		}
		if i == 0 {
			head = field
		}
		indices = append(indices, field.index...)
		if i < len(parts)-1 {
			next := indirectType(field.fieldType)
			if next.Kind() != reflect.Struct {
				return nil, nil
			}
			current = next
		}
	}
	return head, indices
}

// wrapHook adapts a typed before/after hook to the stored Hook form,
// tolerating value and pointer source instances. A type mismatch is a
// wiring mistake and is reported, not skipped.
func wrapHook[TSrc, TDest any](fn func(src *TSrc, dest *TDest) error) Hook {
	return func(src, dest any) error {
		srcPtr, ok := src.(*TSrc)
		if !ok {
			srcVal, ok := src.(TSrc)
			if !ok {
				return fmt.Errorf("hook expected source %v, got %T", reflect.TypeOf((*TSrc)(nil)).Elem(), src)
			}
			srcPtr = &srcVal
		}
		destPtr, ok := dest.(*TDest)
		if !ok {
			return fmt.Errorf("hook expected destination *%v, got %T", reflect.TypeOf((*TDest)(nil)).Elem(), dest)
		}
		return fn(srcPtr, destPtr)
	}
}
