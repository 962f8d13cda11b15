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

package apis

import "errors"

var (
	// ErrEmpty reports that an object has no elements to decompose.
	ErrEmpty = errors.New("etx: nothing to decompose")
	// ErrNotDecomposable reports that no decomposition is declared for an object.
	ErrNotDecomposable = errors.New("etx: object is not decomposable")
)

// Term is implemented by host graph nodes that know their own shape.
//
// Operator returns the callable that, applied to Arguments, rebuilds the
// node. Both fail with an error wrapping ErrEmpty or ErrNotDecomposable when
// the node has no such shape.
type Term interface {
	Operator() (any, error)
	Arguments() ([]any, error)
}

// Decomposer extracts the operator and arguments of host values of one
// type, for types that cannot (or should not) implement Term themselves.
type Decomposer interface {
	Operator(x any) (any, error)
	Arguments(x any) ([]any, error)
}

// DecomposerFuncs adapts a pair of functions to Decomposer.
type DecomposerFuncs struct {
	OperatorFunc  func(x any) (any, error)
	ArgumentsFunc func(x any) ([]any, error)
}

// Ensure DecomposerFuncs implements Decomposer.
var _ Decomposer = DecomposerFuncs{}

// Operator calls d.OperatorFunc.
func (d DecomposerFuncs) Operator(x any) (any, error) {
	if d.OperatorFunc == nil {
		return nil, ErrNotDecomposable
	}
	return d.OperatorFunc(x)
}

// Arguments calls d.ArgumentsFunc.
func (d DecomposerFuncs) Arguments(x any) ([]any, error) {
	if d.ArgumentsFunc == nil {
		return nil, ErrNotDecomposable
	}
	return d.ArgumentsFunc(x)
}
