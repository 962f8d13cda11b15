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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/etx/apis"
	uref "dirpx.dev/etx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("etx(registry): nil reflect.Type provided")
	// ErrNilDecomposer is returned when a nil Decomposer is provided.
	ErrNilDecomposer = errors.New("etx(registry): nil decomposer provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different decomposer.
	ErrConflictingRegistration = errors.New("etx(registry): conflicting type registration")
)

// New constructs a Registry. Only cfg.Logger is used here.
func New(cfg apis.Config) apis.Registry {
	return &registry{log: cfg.Log()}
}

// registry is a Registry implementation backed by sync.Map for exact types
// and an ordered slice for interface types.
type registry struct {
	// log receives registration traces.
	log *zap.Logger
	// mu guards write-side consistency, ifaces and count.
	mu sync.Mutex
	// m maps reflect.Type to its apis.Decomposer.
	m sync.Map // map[reflect.Type]apis.Decomposer
	// ifaces lists registered interface types in registration order.
	ifaces []reflect.Type
	// count tracks the number of registered entries.
	count int
}

// Register associates t with d.
// It is idempotent for the same (type, decomposer) pair.
func (r *registry) Register(t reflect.Type, d apis.Decomposer) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if d == nil {
		return ErrNilDecomposer
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(t); ok {
		return conflict(old.(apis.Decomposer), d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(t); ok {
		return conflict(old.(apis.Decomposer), d)
	}

	r.m.Store(t, d)
	if t.Kind() == reflect.Interface {
		r.ifaces = append(r.ifaces, t)
	}
	r.count++
	r.log.Debug("registered decomposer",
		zap.Stringer("type", t),
		zap.String("decomposer", reflect.TypeOf(d).String()),
	)
	return nil
}

// conflict returns nil when d is the decomposer already registered.
func conflict(old, d apis.Decomposer) error {
	if same(old, d) {
		return nil
	}
	return ErrConflictingRegistration
}

// same reports whether two decomposers are one registration: equal
// comparable values, or DecomposerFuncs holding the same func values.
func same(old, d apis.Decomposer) bool {
	if f, ok := old.(apis.DecomposerFuncs); ok {
		g, ok := d.(apis.DecomposerFuncs)
		return ok &&
			uref.SameFunc(f.OperatorFunc, g.OperatorFunc) &&
			uref.SameFunc(f.ArgumentsFunc, g.ArgumentsFunc)
	}
	vo, vd := reflect.ValueOf(old), reflect.ValueOf(d)
	return vo.Type() == vd.Type() && vo.Comparable() && vd.Comparable() && vo.Equal(vd)
}

// Lookup returns the decomposer registered for t itself, or else for the
// first registered interface that t implements.
func (r *registry) Lookup(t reflect.Type) (apis.Decomposer, bool) {
	if t == nil {
		return nil, false
	}

	r.mu.Lock()
	ifaces := r.ifaces
	r.mu.Unlock()

	key, err := uref.Match(t, r.has, ifaces)
	if err != nil {
		return nil, false
	}
	if v, ok := r.m.Load(key); ok {
		return v.(apis.Decomposer), true
	}
	return nil, false
}

func (r *registry) has(t reflect.Type) bool {
	_, ok := r.m.Load(t)
	return ok
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type:       key.(reflect.Type),
			Decomposer: value.(apis.Decomposer),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.ifaces = nil
	r.count = 0
}
