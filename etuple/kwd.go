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
	"strings"
)

// KwdPair is a keyword operand: a name bound to a value.
type KwdPair struct {
	name  string
	value any
}

// Kw returns the keyword operand name=value.
func Kw(name string, value any) KwdPair {
	return KwdPair{name: name, value: value}
}

// NewKwdPair is Kw for names only known at run time. It fails with
// ErrKwdName when name is not a string.
func NewKwdPair(name, value any) (KwdPair, error) {
	s, ok := name.(string)
	if !ok {
		return KwdPair{}, fmt.Errorf("%w: got %T", ErrKwdName, name)
	}
	return KwdPair{name: s, value: value}, nil
}

// Name returns the keyword.
func (p KwdPair) Name() string { return p.name }

// Value returns the bound value as stored.
func (p KwdPair) Value() any { return p.value }

// Eval returns the pair with its value evaluated, or p itself when the value
// has no evaluation.
func (p KwdPair) Eval() (KwdPair, error) {
	v, err := evalOperand(p.value)
	if err != nil {
		return KwdPair{}, err
	}
	return KwdPair{name: p.name, value: v}, nil
}

// Equal reports whether p and q have the same name and equal values.
func (p KwdPair) Equal(q KwdPair) bool {
	return p.name == q.name && Equal(p.value, q.value)
}

// String renders name=value with the value in its bounded form.
func (p KwdPair) String() string {
	var b strings.Builder
	newPrinter(DefaultReprLimits).reprKwd(&b, p, 0)
	return b.String()
}
