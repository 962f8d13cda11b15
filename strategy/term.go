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
	"dirpx.dev/etx/apis"
)

// NewTermStrategy creates an apis.Strategy that uses apis.Term.
func NewTermStrategy() apis.Strategy {
	return &termStrategy{}
}

// termStrategy is the fast path: if x implements apis.Term, it describes
// itself and the chain stops.
type termStrategy struct{}

// Ensure termStrategy implements apis.Strategy.
var _ apis.Strategy = (*termStrategy)(nil)

// TryDecompose asks x for its own operator and arguments.
func (*termStrategy) TryDecompose(x any, _ apis.Config) (any, []any, bool, error) {
	term, ok := x.(apis.Term)
	if !ok {
		return nil, nil, false, nil
	}
	op, args, err := extract(term.Operator, term.Arguments)
	return op, args, true, err
}

// extract runs an operator/arguments pair, operator first.
func extract(op func() (any, error), args func() ([]any, error)) (any, []any, error) {
	o, err := op()
	if err != nil {
		return nil, nil, err
	}
	a, err := args()
	if err != nil {
		return nil, nil, err
	}
	return o, a, nil
}
