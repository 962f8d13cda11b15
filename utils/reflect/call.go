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
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

var (
	// ErrNotFunc is returned when a non-func value is invoked.
	ErrNotFunc = errors.New("etx(reflect): value is not a func")
	// ErrArity is returned when the number of arguments does not match the func type.
	ErrArity = errors.New("etx(reflect): wrong number of arguments")
	// ErrArgType is returned when an argument cannot be passed as the parameter type.
	ErrArgType = errors.New("etx(reflect): argument not assignable to parameter")
)

var errorType = reflect.TypeFor[error]()

// IsFunc reports whether v is a non-nil func value.
func IsFunc(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// Call invokes fn with args.
//
// Each argument is passed as-is when assignable to its parameter type, and
// converted when both sides are numeric. A nil argument becomes the zero
// value of a nillable parameter. Variadic funcs receive the trailing
// arguments individually.
//
// Results are mapped as follows:
//   - no results: (nil, nil)
//   - a trailing error result: returned as the error, non-nil errors discard the other results
//   - one remaining result: returned as-is
//   - several remaining results: returned as []any
func Call(fn any, args []any) (any, error) {
	if !IsFunc(fn) {
		return nil, fmt.Errorf("%w: %T", ErrNotFunc, fn)
	}
	fv := reflect.ValueOf(fn)
	in, err := In(fv.Type(), args)
	if err != nil {
		return nil, err
	}
	return Out(fv.Call(in))
}

// In converts args into call arguments for a func of type ft.
func In(ft reflect.Type, args []any) ([]reflect.Value, error) {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, fmt.Errorf("%w: %v wants at least %d, got %d", ErrArity, ft, n-1, len(args))
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%w: %v wants %d, got %d", ErrArity, ft, n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := Convert(a, ParamType(ft, i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

// ParamType returns the type the i-th argument of a call to ft must have.
// For variadic funcs, indexes at or past the last parameter map to its element type.
func ParamType(ft reflect.Type, i int) reflect.Type {
	n := ft.NumIn()
	if ft.IsVariadic() && i >= n-1 {
		return ft.In(n - 1).Elem()
	}
	return ft.In(i)
}

// Convert returns v as a reflect.Value usable where t is expected.
func Convert(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nillable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil to %v", ErrArgType, t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if numeric(rv.Kind()) && numeric(t.Kind()) && rv.CanConvert(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %v to %v", ErrArgType, rv.Type(), t)
}

// Out maps the results of a reflective call, see Call.
func Out(out []reflect.Value) (any, error) {
	n := len(out)
	if n == 0 {
		return nil, nil
	}
	if last := out[n-1]; last.Type() == errorType {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out, n = out[:n-1], n-1
		if n == 0 {
			return nil, nil
		}
	}
	if n == 1 {
		return out[0].Interface(), nil
	}
	vals := make([]any, n)
	for i, v := range out {
		vals[i] = v.Interface()
	}
	return vals, nil
}

// FuncName returns the short symbol name of fn ("pkg.Func"), or "" when fn
// is not a func or the runtime cannot name it.
func FuncName(fn any) string {
	if !IsFunc(fn) {
		return ""
	}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
