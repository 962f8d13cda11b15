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

// Builder assembles the Registry and Resolver used by the decomposition
// protocol for a Config.
type Builder interface {
	// BuildRegistry returns a Registry for cfg. When prev is non-nil its
	// entries should carry over. ext is opaque and implementation-defined.
	BuildRegistry(cfg Config, prev Registry, ext any) Registry
	// BuildResolver returns a Resolver consulting reg. prev is the Resolver
	// being replaced, if any. ext is opaque and implementation-defined.
	BuildResolver(cfg Config, reg Registry, prev Resolver, ext any) Resolver
}
