package codec

import (
	"encoding"
	"encoding/json"
	"reflect"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// isLeaf reports whether t handles its own encoding. Such values (for
// example time.Time) are never traversed by the encoder, so the walk
// treats them as opaque leaves.
func isLeaf(t reflect.Type) bool {
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	p := reflect.PointerTo(t)
	return p.Implements(jsonMarshalerType) || p.Implements(textMarshalerType)
}

// hasCycle reports whether the value graph rooted at v contains a
// reference cycle via pointers, maps, or slices.
func hasCycle(v any) bool {
	if v == nil {
		return false
	}
	return walkCycle(reflect.ValueOf(v), map[uintptr]struct{}{})
}

// walkCycle tracks the identity of pointer-like nodes along the current
// path. Revisiting a node already on the path means a cycle; a node
// shared by sibling branches (a DAG) does not.
func walkCycle(v reflect.Value, path map[uintptr]struct{}) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return false
		}
		p := v.Pointer()
		if _, on := path[p]; on {
			return true
		}
		path[p] = struct{}{}
		defer delete(path, p)

		switch v.Kind() {
		case reflect.Pointer:
			return walkCycle(v.Elem(), path)
		case reflect.Map:
			iter := v.MapRange()
			for iter.Next() {
				if walkCycle(iter.Value(), path) {
					return true
				}
			}
		case reflect.Slice:
			for i := 0; i < v.Len(); i++ {
				if walkCycle(v.Index(i), path) {
					return true
				}
			}
		}
		return false

	case reflect.Interface:
		if v.IsNil() {
			return false
		}
		return walkCycle(v.Elem(), path)

	case reflect.Struct:
		if isLeaf(v.Type()) {
			return false
		}
		for i := 0; i < v.NumField(); i++ {
			if walkCycle(v.Field(i), path) {
				return true
			}
		}
		return false

	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if walkCycle(v.Index(i), path) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

// breakCycles deep-copies the value graph rooted at v, replacing any
// back-reference along the walk with the zero value of its type. The
// copy has the same static types as the original, so struct tags and
// custom marshaling still apply.
func breakCycles(v any) any {
	if v == nil {
		return nil
	}
	return prune(reflect.ValueOf(v), map[uintptr]struct{}{}).Interface()
}

func prune(v reflect.Value, path map[uintptr]struct{}) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		p := v.Pointer()
		if _, on := path[p]; on {
			return reflect.Zero(v.Type())
		}
		path[p] = struct{}{}
		defer delete(path, p)

		out := reflect.New(v.Type().Elem())
		out.Elem().Set(prune(v.Elem(), path))
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		p := v.Pointer()
		if _, on := path[p]; on {
			return reflect.Zero(v.Type())
		}
		path[p] = struct{}{}
		defer delete(path, p)

		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), prune(iter.Value(), path))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		p := v.Pointer()
		if _, on := path[p]; on {
			return reflect.Zero(v.Type())
		}
		path[p] = struct{}{}
		defer delete(path, p)

		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(prune(v.Index(i), path))
		}
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(prune(v.Elem(), path))
		return out

	case reflect.Struct:
		if isLeaf(v.Type()) {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			// Unexported fields are invisible to the encoder; leave them zero.
			if v.Type().Field(i).PkgPath != "" {
				continue
			}
			out.Field(i).Set(prune(v.Field(i), path))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(prune(v.Index(i), path))
		}
		return out

	default:
		return v
	}
}
