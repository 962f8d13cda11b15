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

package etuple

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"

	uref "dirpx.dev/etx/utils/reflect"
)

// leafDepth bounds how deep host containers are walked when rendering.
const leafDepth = 8

var (
	tupleType    = reflect.TypeFor[*ExpressionTuple]()
	kwdType      = reflect.TypeFor[KwdPair]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
	errorType    = reflect.TypeFor[error]()
)

// leafDumper renders scalar host values.
var leafDumper = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                leafDepth,
}

// leafWalker renders host values found among tuple elements. Values with a
// String or Error method render through that method. Slices, arrays, maps,
// structs and pointers are walked here rather than by fmt or spew, so every
// tuple reachable through them is handed to tuple and the caller's cycle
// and depth checks apply to it. Keyword pairs go to kwd.
type leafWalker struct {
	tuple    func(b *strings.Builder, t *ExpressionTuple)
	kwd      func(b *strings.Builder, p KwdPair)
	maxDepth int
	maxElems int
}

func (w leafWalker) write(b *strings.Builder, v reflect.Value, depth int) {
	if !v.IsValid() {
		b.WriteString("<nil>")
		return
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			b.WriteString("<nil>")
			return
		}
		v = v.Elem()
	}

	switch v.Type() {
	case tupleType:
		if v.IsNil() {
			b.WriteString("<nil>")
			return
		}
		w.tuple(b, (*ExpressionTuple)(v.UnsafePointer()))
		return
	case kwdType:
		if v.CanInterface() {
			w.kwd(b, v.Interface().(KwdPair))
			return
		}
		b.WriteString(v.Field(0).String())
		b.WriteString("=")
		w.write(b, v.Field(1), depth)
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Func:
		if v.IsNil() {
			b.WriteString("<nil>")
			return
		}
	}
	if v.CanInterface() && (v.Type().Implements(stringerType) || v.Type().Implements(errorType)) {
		b.WriteString(fmt.Sprint(v.Interface()))
		return
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Pointer:
		if depth >= w.maxDepth {
			b.WriteString("...")
			return
		}
		w.container(b, v, depth+1)
	case reflect.Func:
		if v.CanInterface() {
			if name := uref.FuncName(v.Interface()); name != "" {
				b.WriteString(name)
				return
			}
		}
		b.WriteString(v.Type().String())
	default:
		if v.CanInterface() {
			b.WriteString(leafDumper.Sprintf("%v", v.Interface()))
			return
		}
		// Unexported scalar field: fmt prints the held value.
		b.WriteString(fmt.Sprint(v))
	}
}

func (w leafWalker) container(b *strings.Builder, v reflect.Value, depth int) {
	switch v.Kind() {
	case reflect.Pointer:
		b.WriteString("&")
		w.write(b, v.Elem(), depth)
	case reflect.Slice, reflect.Array:
		b.WriteString("[")
		for i := range v.Len() {
			if i > 0 {
				b.WriteString(" ")
			}
			if w.elided(b, i) {
				break
			}
			w.write(b, v.Index(i), depth)
		}
		b.WriteString("]")
	case reflect.Map:
		type entry struct {
			key string
			val reflect.Value
		}
		entries := make([]entry, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			var kb strings.Builder
			w.write(&kb, iter.Key(), depth)
			entries = append(entries, entry{key: kb.String(), val: iter.Value()})
		}
		slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })

		b.WriteString("map[")
		for i, e := range entries {
			if i > 0 {
				b.WriteString(" ")
			}
			if w.elided(b, i) {
				break
			}
			b.WriteString(e.key)
			b.WriteString(":")
			w.write(b, e.val, depth)
		}
		b.WriteString("]")
	case reflect.Struct:
		b.WriteString("{")
		for i := range v.NumField() {
			if i > 0 {
				b.WriteString(" ")
			}
			if w.elided(b, i) {
				break
			}
			w.write(b, v.Field(i), depth)
		}
		b.WriteString("}")
	}
}

// elided writes the elision marker and reports true once i reaches maxElems.
func (w leafWalker) elided(b *strings.Builder, i int) bool {
	if w.maxElems > 0 && i >= w.maxElems {
		b.WriteString("...")
		return true
	}
	return false
}
