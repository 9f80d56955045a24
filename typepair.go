package remap

import (
	"fmt"
	"reflect"
)

// TypePair identifies a (source shape, destination shape) combination.
// It is the sole lookup key for mapping configuration: two pairs are equal
// when both underlying types are identical. Pointer types are normalized
// to their element types so *User and User share one configuration.
type TypePair struct {
	SourceType      reflect.Type
	DestinationType reflect.Type
}

// NewTypePair builds a TypePair from two reflect types, normalizing away
// one level of pointer indirection on either side.
func NewTypePair(src, dest reflect.Type) TypePair {
	return TypePair{
		SourceType:      indirectType(src),
		DestinationType: indirectType(dest),
	}
}

// Reverse returns the pair with source and destination swapped.
func (p TypePair) Reverse() TypePair {
	return TypePair{SourceType: p.DestinationType, DestinationType: p.SourceType}
}

func (p TypePair) String() string {
	return fmt.Sprintf("%v -> %v", p.SourceType, p.DestinationType)
}

// typePairOf resolves the pair for two static type parameters.
func typePairOf[TSrc, TDest any]() TypePair {
	return NewTypePair(reflect.TypeOf((*TSrc)(nil)).Elem(), reflect.TypeOf((*TDest)(nil)).Elem())
}

// indirectType unwraps a pointer type to its element type.
func indirectType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// indirectValue dereferences pointers and interfaces until it reaches a
// concrete value. A nil pointer or interface yields an invalid value.
func indirectValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
