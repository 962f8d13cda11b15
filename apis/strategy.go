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

// Strategy is a pluggable decomposition step. A Resolver chains multiple
// strategies in order (e.g., Term -> Registry -> Sequence).
type Strategy interface {
	// TryDecompose attempts to extract the operator and arguments of x.
	// handled is false when the strategy does not apply to x, letting the
	// chain fall through. When handled is true, err reports an extraction
	// failure that ends the chain.
	TryDecompose(x any, cfg Config) (op any, args []any, handled bool, err error)
}
