package cache

import "reflect"

// valuesEqual reports whether two values of the cache's generic Value type
// are equal "by identity/equality as defined by the host" (spec.md §4.3).
// V carries no comparable constraint — caches are explicitly allowed to
// hold slices, maps, or structs containing either — so reflect.DeepEqual
// is the only equality notion available without narrowing the API to
// comparable values only.
func valuesEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}

// isNilValue reports whether v is a nil pointer, interface, map, slice,
// chan, or func — the kinds of V for which "nil" is even expressible.
// Put(key, nil) is defined as Remove(key) (spec.md §4.1, §7); for
// non-nilable V (int, string, a plain struct) this is simply always
// false, so the check is a no-op rather than a compile error.
func isNilValue[V any](v V) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		// V is an interface type (e.g. any) and v is the untyped nil
		// interface value — reflect.ValueOf loses the static type here.
		return true
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
