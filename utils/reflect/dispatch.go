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
	"errors"
	"reflect"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("etx(reflect): nil reflect.Type provided")
	// ErrReflectNoMatch indicates that none of the candidate keys accepts the type.
	ErrReflectNoMatch = errors.New("etx(reflect): no dispatch key matches type")
)

// Match picks the dispatch key for the dynamic type t.
//
// Matching policy:
//   - exact(t) reports whether t itself is a key; if so, t is returned.
//   - otherwise the first interface type in ifaces that t implements is returned.
//   - otherwise ErrReflectNoMatch.
//
// ifaces must only contain interface types; other kinds are skipped.
func Match(t reflect.Type, exact func(reflect.Type) bool, ifaces []reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if exact != nil && exact(t) {
		return t, nil
	}
	for _, it := range ifaces {
		if it == nil || it.Kind() != reflect.Interface {
			continue
		}
		if t.Implements(it) {
			return it, nil
		}
	}
	return nil, ErrReflectNoMatch
}
