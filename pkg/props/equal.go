package props

import (
	"reflect"
	"unsafe"
)

// Equal reports whether a and b are structurally equal:
//
//   - identical references (pointers, maps, slices, channels, funcs) are equal
//   - integers compare exactly; a float on either side compares by value
//   - slices and arrays are equal iff they have the same length and
//     pairwise-equal elements
//   - maps are equal iff they have the same keys with equal values
//   - structs compare field by field
//
// Anything else falls back to == for comparable values and
// reflect.DeepEqual otherwise.
func Equal(a, b any) bool {
	return compare(reflect.ValueOf(a), reflect.ValueOf(b), false)
}

// Contained reports whether chunk is structurally contained in base. It is
// Equal except that a map in chunk only needs its own keys present, with
// contained values, in the matching map of base, at every depth.
func Contained(base, chunk any) bool {
	return compare(reflect.ValueOf(base), reflect.ValueOf(chunk), true)
}

func compare(a, b reflect.Value, subset bool) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid() || isNil(a) && isNil(b)
	}

	// Unwrap interfaces held inside containers.
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}

	if isNumber(a) || isNumber(b) {
		return numberEqual(a, b)
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return a.Type() == b.Type() && funcIdentity(a) != nil && funcIdentity(a) == funcIdentity(b)
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a.Type() == b.Type() && a.Pointer() == b.Pointer()
	case reflect.Slice:
		if a.IsNil() != b.IsNil() && (a.Len() != 0 || b.Len() != 0) {
			return false
		}
		if a.Len() == b.Len() && a.Len() > 0 && a.Pointer() == b.Pointer() && a.Type() == b.Type() {
			return true
		}
		return sequenceEqual(a, b, subset)
	case reflect.Array:
		return sequenceEqual(a, b, subset)
	case reflect.Map:
		if a.Type() == b.Type() && a.Pointer() == b.Pointer() {
			return true
		}
		return mapEqual(a, b, subset)
	case reflect.Struct:
		if a.Type() != b.Type() {
			return false
		}
		for i := 0; i < a.NumField(); i++ {
			if !compare(a.Field(i), b.Field(i), subset) {
				return false
			}
		}
		return true
	case reflect.Interface:
		return a.IsNil() && b.IsNil()
	case reflect.String:
		return a.Type() == b.Type() && a.String() == b.String()
	case reflect.Bool:
		return a.Type() == b.Type() && a.Bool() == b.Bool()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	}

	if a.Type() != b.Type() {
		return false
	}
	if !a.CanInterface() || !b.CanInterface() {
		return false
	}
	if a.Comparable() && b.Comparable() {
		return a.Interface() == b.Interface()
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func sequenceEqual(a, b reflect.Value, subset bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !compare(a.Index(i), b.Index(i), subset) {
			return false
		}
	}
	return true
}

// mapEqual compares maps; in subset mode only the keys of b are checked.
func mapEqual(a, b reflect.Value, subset bool) bool {
	if !subset && a.Len() != b.Len() {
		return false
	}
	if a.Type().Key() != b.Type().Key() {
		return false
	}
	iter := b.MapRange()
	for iter.Next() {
		cur := a.MapIndex(iter.Key())
		if !cur.IsValid() || !compare(cur, iter.Value(), subset) {
			return false
		}
	}
	return true
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// funcIdentity returns the closure a func value points to. Two func values
// share it only when one was copied from the other (or both name the same
// top-level function). Code pointers alone would make distinct closures of
// one literal look identical. It returns nil when v cannot be read.
func funcIdentity(v reflect.Value) unsafe.Pointer {
	if !v.CanInterface() {
		return nil
	}
	i := v.Interface()
	// A func is pointer-shaped, so the interface data word is the closure.
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&i))[1]
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || isFloat(v)
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

// numberEqual compares numbers by value across kinds. Integers compare
// exactly; only a float operand moves the comparison to float64.
func numberEqual(a, b reflect.Value) bool {
	switch {
	case !isNumber(a) || !isNumber(b):
		return false
	case isFloat(a) || isFloat(b):
		return toFloat(a) == toFloat(b)
	case isInt(a) && isInt(b):
		return a.Int() == b.Int()
	case isUint(a) && isUint(b):
		return a.Uint() == b.Uint()
	case isInt(a):
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	default:
		return b.Int() >= 0 && uint64(b.Int()) == a.Uint()
	}
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	}
	return v.Float()
}
