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

package builder

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dirpx.dev/etx/apis"
	"dirpx.dev/etx/registry"
	"dirpx.dev/etx/resolver"
	"dirpx.dev/etx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry returns a fresh registry holding every entry of prev.
// Entries that fail to migrate are dropped and reported as one warning.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if prev == nil {
		return nreg
	}

	var errs error
	for _, e := range prev.Entries() {
		errs = multierr.Append(errs, nreg.Register(e.Type, e.Decomposer))
	}
	if errs != nil {
		cfg.Log().Warn("registry migration dropped entries",
			zap.Int("failed", len(multierr.Errors(errs))),
			zap.Error(errs),
		)
	}
	return nreg
}

// BuildResolver returns the Term -> Registry -> Sequence chain over reg.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewTermStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewSequenceStrategy(),
	)
}
