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
	"unsafe"
)

// FuncID returns the identity of the func value held by fn, or 0 when fn
// does not hold a func (or holds a nil one).
//
// The identity is the address of the func value's closure record, not of
// its code. Every reference to one top-level func shares an identity; each
// method value and each evaluation of a capturing func literal gets its
// own, even though they share code.
func FuncID(fn any) uintptr {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return 0
	}
	// A func is pointer-shaped, so the interface data word is the closure
	// record itself.
	return uintptr((*[2]unsafe.Pointer)(unsafe.Pointer(&fn))[1])
}

// SameFunc reports whether a and b hold the same func value of the same
// type. Two nil funcs of one type are the same.
func SameFunc(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || ta.Kind() != reflect.Func {
		return false
	}
	return FuncID(a) == FuncID(b)
}
