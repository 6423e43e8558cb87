// Copyright 2025 recsys Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sizeof measures the total in-memory footprint of a value, following
// pointers, slices and maps. Shared and cyclic references are counted once.
package sizeof

import (
	"reflect"
)

// DeepSize reports the memory consumption of v in bytes, including everything
// reachable from it.
func DeepSize(v any) int {
	if v == nil {
		return 0
	}
	seen := make(map[uintptr]struct{})
	return int(sizeOf(reflect.ValueOf(v), seen))
}

func sizeOf(v reflect.Value, seen map[uintptr]struct{}) uintptr {
	switch v.Kind() {
	case reflect.Ptr:
		size := v.Type().Size()
		if v.IsNil() {
			return size
		}
		if _, ok := seen[v.Pointer()]; ok {
			return size
		}
		seen[v.Pointer()] = struct{}{}
		return size + sizeOf(v.Elem(), seen)
	case reflect.Slice:
		size := v.Type().Size()
		if v.IsNil() {
			return size
		}
		if _, ok := seen[v.Pointer()]; ok {
			return size
		}
		seen[v.Pointer()] = struct{}{}
		elem := v.Type().Elem()
		if isFlat(elem) {
			return size + uintptr(v.Cap())*elem.Size()
		}
		for i := 0; i < v.Len(); i++ {
			size += sizeOf(v.Index(i), seen)
		}
		size += uintptr(v.Cap()-v.Len()) * elem.Size()
		return size
	case reflect.Array:
		if isFlat(v.Type().Elem()) {
			return v.Type().Size()
		}
		var size uintptr
		for i := 0; i < v.Len(); i++ {
			size += sizeOf(v.Index(i), seen)
		}
		return size
	case reflect.Map:
		size := v.Type().Size()
		if v.IsNil() {
			return size
		}
		if _, ok := seen[v.Pointer()]; ok {
			return size
		}
		seen[v.Pointer()] = struct{}{}
		iter := v.MapRange()
		for iter.Next() {
			size += sizeOf(iter.Key(), seen)
			size += sizeOf(iter.Value(), seen)
		}
		return size
	case reflect.String:
		return v.Type().Size() + uintptr(v.Len())
	case reflect.Struct:
		size := v.Type().Size()
		for i := 0; i < v.NumField(); i++ {
			if !isFlat(v.Field(i).Type()) {
				// field header already counted in the struct size
				size += sizeOf(v.Field(i), seen) - v.Field(i).Type().Size()
			}
		}
		return size
	case reflect.Interface:
		if v.IsNil() {
			return v.Type().Size()
		}
		return v.Type().Size() + sizeOf(v.Elem(), seen)
	default:
		return v.Type().Size()
	}
}

// isFlat reports whether values of t occupy no memory beyond their own size.
func isFlat(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isFlat(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isFlat(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
