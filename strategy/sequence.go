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

package strategy

import (
	"fmt"
	"reflect"

	"dirpx.dev/etx/apis"
	uref "dirpx.dev/etx/utils/reflect"
)

// NewSequenceStrategy creates an apis.Strategy that decomposes slices and
// arrays via reflection.
func NewSequenceStrategy() apis.Strategy {
	return sequenceStrategy{}
}

// sequenceStrategy is the universal fallback for sequences.
//
// A sequence with interface elements ([]any, []SomeInterface) is read
// S-expression style: the head is the operator and the tail the arguments.
// A sequence with concrete elements ([]int, [3]T) is rebuilt by a
// synthesized variadic constructor taking its elements.
type sequenceStrategy struct{}

// Ensure sequenceStrategy implements apis.Strategy.
var _ apis.Strategy = (*sequenceStrategy)(nil)

// TryDecompose splits a slice or array into operator and arguments.
// Empty sequences are handled and fail with apis.ErrEmpty.
func (sequenceStrategy) TryDecompose(x any, cfg apis.Config) (any, []any, bool, error) {
	if x == nil || !cfg.DecomposeSequences {
		return nil, nil, false, nil
	}
	t := reflect.TypeOf(x)
	if !uref.IsSequence(t) {
		return nil, nil, false, nil
	}

	v := reflect.ValueOf(x)
	if v.Len() == 0 {
		return nil, nil, true, fmt.Errorf("%w: empty %v", apis.ErrEmpty, t)
	}

	elems := uref.Elements(v)
	if t.Elem().Kind() == reflect.Interface {
		return elems[0], elems[1:], true, nil
	}
	return uref.Constructor(t), elems, true, nil
}
