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
	"reflect"

	"dirpx.dev/etx/apis"
)

// NewRegistryStrategy creates an apis.Strategy that uses an apis.Registry.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy decomposes values whose dynamic type has a registered
// apis.Decomposer.
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryDecompose looks up x's dynamic type in the registry.
func (s *registryStrategy) TryDecompose(x any, _ apis.Config) (any, []any, bool, error) {
	if x == nil || s.reg == nil {
		return nil, nil, false, nil
	}
	d, ok := s.reg.Lookup(reflect.TypeOf(x))
	if !ok {
		return nil, nil, false, nil
	}
	op, args, err := extract(
		func() (any, error) { return d.Operator(x) },
		func() ([]any, error) { return d.Arguments(x) },
	)
	return op, args, true, err
}
