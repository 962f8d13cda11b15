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
	"fmt"
	"reflect"

	uref "dirpx.dev/etx/utils/reflect"
)

// Callable is implemented by operators that are not plain Go funcs.
type Callable interface {
	Call(args ...any) (any, error)
}

// Signer is implemented by operators that can report their formal
// parameters. Operands of such operators are bound by name and position,
// and defaults are filled in; other operators receive keyword values
// positionally.
type Signer interface {
	Signature() Signature
}

// Param is one formal parameter of a Signature.
type Param struct {
	// Name is the keyword the parameter binds to.
	Name string
	// Default is used when the parameter is left unbound and HasDefault is set.
	Default any
	// HasDefault marks the parameter optional.
	HasDefault bool
	// Variadic marks the parameter collecting surplus positional operands.
	// Only the last parameter may be variadic.
	Variadic bool
}

// Required declares a parameter without a default.
func Required(name string) Param { return Param{Name: name} }

// Optional declares a parameter with a default.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Variadic declares a parameter collecting surplus positional operands.
func Variadic(name string) Param { return Param{Name: name, Variadic: true} }

// Signature lists the formal parameters of an operator in call order.
type Signature []Param

// Bind matches positional and keyword operands to s and returns the call
// arguments in parameter order, followed by any variadic surplus.
func (s Signature) Bind(args []any, kwargs []KwdPair) ([]any, error) {
	fixed := len(s)
	variadic := fixed > 0 && s[fixed-1].Variadic
	if variadic {
		fixed--
	}
	if len(args) > fixed && !variadic {
		return nil, fmt.Errorf("%w: takes %d positional operands, got %d", ErrBind, fixed, len(args))
	}

	bound := make([]any, fixed)
	set := make([]bool, fixed)
	for i := 0; i < fixed && i < len(args); i++ {
		bound[i], set[i] = args[i], true
	}

	for _, kw := range kwargs {
		i := s.index(kw.name)
		switch {
		case i < 0 || s[i].Variadic:
			return nil, fmt.Errorf("%w: unexpected keyword %q", ErrBind, kw.name)
		case set[i]:
			return nil, fmt.Errorf("%w: multiple values for %q", ErrBind, kw.name)
		}
		bound[i], set[i] = kw.value, true
	}

	for i := range bound {
		if set[i] {
			continue
		}
		if !s[i].HasDefault {
			return nil, fmt.Errorf("%w: missing operand %q", ErrBind, s[i].Name)
		}
		bound[i] = s[i].Default
	}

	if variadic && len(args) > fixed {
		bound = append(bound, args[fixed:]...)
	}
	return bound, nil
}

func (s Signature) index(name string) int {
	for i, p := range s {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Fn is a Go func with named parameters. It is Callable and a Signer.
type Fn struct {
	name string
	fn   any
	sig  Signature
}

var (
	_ Callable = (*Fn)(nil)
	_ Signer   = (*Fn)(nil)
)

// Func wraps fn so that its parameters can be bound by name. params must
// have one entry per parameter of fn, and the last one must be Variadic
// exactly when fn is variadic.
func Func(name string, fn any, params ...Param) (*Fn, error) {
	if !uref.IsFunc(fn) {
		return nil, fmt.Errorf("%w: %T", uref.ErrNotFunc, fn)
	}
	ft := reflect.TypeOf(fn)
	if ft.NumIn() != len(params) {
		return nil, fmt.Errorf("%w: %s has %d parameters, %d declared", ErrBind, name, ft.NumIn(), len(params))
	}
	for i, p := range params {
		last := i == len(params)-1
		if p.Variadic != (last && ft.IsVariadic()) {
			return nil, fmt.Errorf("%w: %s parameter %q variadic mismatch", ErrBind, name, p.Name)
		}
	}
	return &Fn{name: name, fn: fn, sig: Signature(params)}, nil
}

// MustFunc is like Func but panics on error.
func MustFunc(name string, fn any, params ...Param) *Fn {
	f, err := Func(name, fn, params...)
	if err != nil {
		panic(err)
	}
	return f
}

// Call invokes the wrapped func positionally.
func (f *Fn) Call(args ...any) (any, error) {
	return uref.Call(f.fn, args)
}

// Signature returns the declared parameters.
func (f *Fn) Signature() Signature { return f.sig }

// String returns the name given to Func.
func (f *Fn) String() string { return f.name }

// IsCallable reports whether v can serve as an operator.
func IsCallable(v any) bool {
	if _, ok := v.(Callable); ok {
		return true
	}
	return uref.IsFunc(v)
}

func call(op any, args []any) (any, error) {
	if c, ok := op.(Callable); ok {
		return c.Call(args...)
	}
	if !uref.IsFunc(op) {
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, op)
	}
	return uref.Call(op, args)
}
