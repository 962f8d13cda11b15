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
	"encoding/binary"
	"math"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"

	uref "dirpx.dev/etx/utils/reflect"
)

// Equal reports whether t and u have pairwise equal elements.
func (t *ExpressionTuple) Equal(u *ExpressionTuple) bool {
	if t == u {
		return true
	}
	if t == nil || u == nil || len(t.elems) != len(u.elems) {
		return false
	}
	for i := range t.elems {
		if !Equal(t.elems[i], u.elems[i]) {
			return false
		}
	}
	return true
}

// Equal is the element equality used by tuples.
//
// Tuples and keyword pairs compare structurally, funcs by identity (the
// same top-level func, or the same method value or closure instance),
// comparable values with ==, and anything else with reflect.DeepEqual.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *ExpressionTuple:
		y, ok := b.(*ExpressionTuple)
		return ok && x.Equal(y)
	case KwdPair:
		y, ok := b.(KwdPair)
		return ok && x.Equal(y)
	}
	if a == nil || b == nil {
		return a == b
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Func {
		return uref.SameFunc(a, b)
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

// hashDepth bounds how far host values are walked by Hash.
const hashDepth = 8

// Hash returns a structural hash of t: equal tuples hash equally.
func (t *ExpressionTuple) Hash() uint64 {
	d := xxhash.New()
	t.hash(d)
	return d.Sum64()
}

func (t *ExpressionTuple) hash(d *xxhash.Digest) {
	_, _ = d.WriteString("(")
	writeUint(d, uint64(len(t.elems)))
	for _, e := range t.elems {
		hashElem(d, e)
	}
	_, _ = d.WriteString(")")
}

func hashElem(d *xxhash.Digest, e any) {
	switch v := e.(type) {
	case *ExpressionTuple:
		if v == nil {
			_, _ = d.WriteString("nil;")
			return
		}
		v.hash(d)
		return
	case KwdPair:
		_, _ = d.WriteString("kw:" + v.name + "=")
		hashElem(d, v.value)
		return
	case nil:
		_, _ = d.WriteString("nil;")
		return
	}
	rv := reflect.ValueOf(e)
	switch rv.Kind() {
	case reflect.Func:
		// Equal compares funcs by identity.
		_, _ = d.WriteString(rv.Type().String() + "@")
		writeUint(d, uint64(uref.FuncID(e)))
	case reflect.Pointer:
		// Equal compares top-level pointers by identity.
		_, _ = d.WriteString(rv.Type().String() + "@")
		writeUint(d, uint64(rv.Pointer()))
	default:
		hashValue(d, rv, 0)
	}
}

// hashValue hashes a host value consistently with == and reflect.DeepEqual.
// Pointers, funcs and channels nested in host values contribute only their
// type, since DeepEqual may look through them; the walk stops at hashDepth,
// which also bounds cyclic values.
func hashValue(d *xxhash.Digest, v reflect.Value, depth int) {
	if !v.IsValid() {
		_, _ = d.WriteString("nil;")
		return
	}
	_, _ = d.WriteString(v.Type().String() + ":")
	if depth >= hashDepth {
		return
	}
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			writeUint(d, 1)
		} else {
			writeUint(d, 0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint(d, uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint(d, v.Uint())
	case reflect.Float32, reflect.Float64:
		writeFloat(d, v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		writeFloat(d, real(c))
		writeFloat(d, imag(c))
	case reflect.String:
		writeUint(d, uint64(v.Len()))
		_, _ = d.WriteString(v.String())
	case reflect.Slice, reflect.Array:
		writeUint(d, uint64(v.Len()))
		for i := range v.Len() {
			hashValue(d, v.Index(i), depth+1)
		}
	case reflect.Map:
		// Entries are combined order-independently.
		writeUint(d, uint64(v.Len()))
		sums := make([]uint64, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			e := xxhash.New()
			hashValue(e, iter.Key(), depth+1)
			hashValue(e, iter.Value(), depth+1)
			sums = append(sums, e.Sum64())
		}
		slices.Sort(sums)
		for _, s := range sums {
			writeUint(d, s)
		}
	case reflect.Struct:
		for i := range v.NumField() {
			hashValue(d, v.Field(i), depth+1)
		}
	case reflect.Interface:
		if v.IsNil() {
			_, _ = d.WriteString("nil;")
			return
		}
		hashValue(d, v.Elem(), depth+1)
	}
	_, _ = d.WriteString(";")
}

func writeUint(d *xxhash.Digest, n uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	_, _ = d.Write(b[:])
}

// writeFloat hashes f so that 0.0 and -0.0, which compare equal, agree.
func writeFloat(d *xxhash.Digest, f float64) {
	if f == 0 {
		f = 0
	}
	writeUint(d, math.Float64bits(f))
}
