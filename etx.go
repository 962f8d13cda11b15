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

package etx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/etx/apis"
	"dirpx.dev/etx/builder"
	"dirpx.dev/etx/config"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.rebuild(nil, nil)
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("etx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("etx: builder returned nil resolver")
)

// Register associates the host type t with d in the global registry.
// Registering an interface type applies d to every implementing type.
func Register(t reflect.Type, d apis.Decomposer) error {
	return st.Load().reg.Register(t, d)
}

// RegisterFor is Register for the type argument T.
func RegisterFor[T any](d apis.Decomposer) error {
	return Register(reflect.TypeFor[T](), d)
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component to the builder,
// except for ext which is always replaced. Non-nil reg or res are pinned;
// nil ones are rebuilt and unpinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	update(func(s *state) {
		if cfg != nil {
			s.cfg = *cfg
		}
		if bld != nil {
			s.bld = bld
		}
		s.ext = ext

		prevReg, prevRes := s.reg, s.res
		s.preg, s.pres = reg != nil, res != nil
		if reg != nil {
			s.reg = reg
		}
		if res != nil {
			s.res = res
		}
		s.rebuild(prevReg, prevRes)
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds unpinned layers.
func SetConfig(cfg apis.Config) {
	update(func(s *state) {
		s.cfg = cfg
		s.rebuild(s.reg, s.res)
	})
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry pins reg as the global registry and rebuilds the resolver
// over it unless the resolver is pinned. A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(s *state) {
		s.reg, s.preg = reg, true
		s.rebuild(s.reg, s.res)
	})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver pins res as the global resolver. A nil res is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(s *state) {
		s.res, s.pres = res, true
	})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds unpinned layers with it.
// A nil b is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(s *state) {
		s.bld = b
		s.rebuild(s.reg, s.res)
	})
}

// SetExt replaces the extension payload and rebuilds unpinned layers.
func SetExt[T any](ext T) {
	update(func(s *state) {
		s.ext = ext
		s.rebuild(s.reg, s.res)
	})
}

// ExtAs returns the extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool { return st.Load().preg }

// PinRegistry stops rebuilds from replacing the global registry.
func PinRegistry() { update(func(s *state) { s.preg = true }) }

// UnpinRegistry lets rebuilds replace the global registry again.
func UnpinRegistry() { update(func(s *state) { s.preg = false }) }

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool { return st.Load().pres }

// PinResolver stops rebuilds from replacing the global resolver.
func PinResolver() { update(func(s *state) { s.pres = true }) }

// UnpinResolver lets rebuilds replace the global resolver again.
func UnpinResolver() { update(func(s *state) { s.pres = false }) }

// buildMu serializes writers so we never publish partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is an immutable snapshot published atomically via st.Store.
// Writers copy the current snapshot, modify the copy and swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the opaque extension payload handed to the builder.
	ext any
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
	// pres indicates whether res is pinned.
	pres bool
}

// update publishes fn applied to a copy of the current snapshot.
func update(fn func(s *state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	fn(&next)
	st.Store(&next)
}

// rebuild re-derives the unpinned layers of s through its builder, handing
// over the layers they replace.
func (s *state) rebuild(prevReg apis.Registry, prevRes apis.Resolver) {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, prevReg, s.ext)
	}
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, s.reg, prevRes, s.ext)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
}
