/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"reflect"
	"sync"
)

// ctorCache memoizes synthesized sequence constructors by sequence type.
var ctorCache sync.Map // key: reflect.Type, val: any (func(...E) T)

// IsSequence reports whether t is a slice or array type.
func IsSequence(t reflect.Type) bool {
	if t == nil {
		return false
	}
	k := t.Kind()
	return k == reflect.Slice || k == reflect.Array
}

// Elements returns the elements of the slice or array v as a fresh []any.
func Elements(v reflect.Value) []any {
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

// Constructor returns a variadic func(...E) T that builds a new value of the
// slice or array type t from its arguments. Array constructors zero-fill
// missing trailing elements and ignore extra ones.
//
// Constructors are memoized, so repeated calls for the same t return the
// same func value and so compare equal under SameFunc.
func Constructor(t reflect.Type) any {
	if c, ok := ctorCache.Load(t); ok {
		return c
	}

	ft := reflect.FuncOf(
		[]reflect.Type{reflect.SliceOf(t.Elem())},
		[]reflect.Type{t},
		true,
	)
	fn := reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		src := in[0]
		var dst reflect.Value
		if t.Kind() == reflect.Slice {
			dst = reflect.MakeSlice(t, src.Len(), src.Len())
		} else {
			dst = reflect.New(t).Elem()
		}
		reflect.Copy(dst, src)
		return []reflect.Value{dst}
	}).Interface()

	c, _ := ctorCache.LoadOrStore(t, fn)
	return c
}
