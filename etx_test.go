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
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/etx/apis"
	"dirpx.dev/etx/builder"
	"dirpx.dev/etx/config"
	"dirpx.dev/etx/etuple"
)

// resetWithBuilder replaces builder, config and ext, and rebuilds both
// layers unpinned. The default snapshot is restored when the test ends.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	SetAll(&cfg, ext, nil, nil, b)
	tb.Cleanup(func() {
		def := config.DefaultConfig()
		SetAll(&def, nil, nil, nil, builder.New())
	})
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[reflect.Type]apis.Decomposer
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[reflect.Type]apis.Decomposer)}
}

func (m *mockRegistry) Register(t reflect.Type, d apis.Decomposer) error {
	m.mu.Lock()
	m.data[t] = d
	m.mu.Unlock()
	return nil
}

func (m *mockRegistry) Lookup(t reflect.Type) (apis.Decomposer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[t]
	return d, ok
}

func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, d := range m.data {
		out = append(out, apis.Entry{Type: t, Decomposer: d})
	}
	return out
}

func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset() {
	m.mu.Lock()
	m.data = make(map[reflect.Type]apis.Decomposer)
	m.mu.Unlock()
}

// mockResolver reports every value as decomposable into (id, [shallow]).
type mockResolver struct {
	id       string
	mu       sync.Mutex
	resolveC int
}

func (r *mockResolver) Resolve(_ any, cfg apis.Config) (any, []any, error) {
	r.mu.Lock()
	r.resolveC++
	r.mu.Unlock()
	return r.id, []any{cfg.Shallow}, nil
}

type mockBuilder struct {
	mu            sync.Mutex
	lastCfg       apis.Config
	lastExt       any
	lastPrevRegID string
	lastPrevResID string
	regCounter    int
	resCounter    int
	nilReg        bool
	nilRes        bool
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	if b.nilReg {
		return nil
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	if b.nilRes {
		return nil
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) counters() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter
}

// ---------------------- Tests ----------------------

func TestSetConfig_RebuildsUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{}, nil)

	reg1, res1 := Registry(), Resolver()
	SetConfig(apis.Config{Shallow: true})

	assert.NotSame(t, reg1, Registry(), "registry was not rebuilt")
	assert.NotSame(t, res1, Resolver(), "resolver was not rebuilt")
	assert.True(t, Config().Shallow)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.True(t, b.lastCfg.Shallow)
	assert.Equal(t, reg1.(*mockRegistry).id, b.lastPrevRegID, "previous registry is handed over")
	assert.Equal(t, res1.(*mockResolver).id, b.lastPrevResID, "previous resolver is handed over")
}

func TestSetRegistry_PinsRegistryAndRebuildsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{}, nil)

	custom := newMockRegistry("custom")
	SetRegistry(custom)
	assert.True(t, IsRegistryPinned())

	before := Resolver()
	SetConfig(apis.Config{Shallow: true})

	assert.Same(t, custom, Registry())
	assert.NotSame(t, before, Resolver())

	SetRegistry(nil)
	assert.Same(t, custom, Registry(), "nil registry is ignored")
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{}, nil)

	custom := &mockResolver{id: "custom"}
	SetResolver(custom)
	assert.True(t, IsResolverPinned())

	regBefore := Registry()
	SetConfig(apis.Config{Shallow: true})

	assert.Same(t, custom, Resolver())
	assert.NotSame(t, regBefore, Registry())
}

func TestSetBuilder_RebuildsOnlyUnpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, apis.Config{}, nil)

	SetResolver(&mockResolver{id: "pinned"})
	regBefore, resBefore := Registry(), Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	assert.Same(t, b, Builder())
	assert.NotSame(t, regBefore, Registry())
	assert.Same(t, resBefore, Resolver())

	regs, ress := b.counters()
	assert.Equal(t, 1, regs)
	assert.Zero(t, ress)
}

func TestSetExt_RebuildsUnpinnedAndPassesValue(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{}, nil)

	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	assert.Equal(t, extCfg{X: 42}, got)

	ec, ok := ExtAs[extCfg]()
	require.True(t, ok)
	assert.Equal(t, 42, ec.X)
	_, ok = ExtAs[string]()
	assert.False(t, ok)

	// With both layers pinned SetExt rebuilds nothing.
	PinRegistry()
	PinResolver()
	regs, ress := b.counters()
	SetExt(extCfg{X: 7})
	regs2, ress2 := b.counters()
	assert.Equal(t, regs, regs2)
	assert.Equal(t, ress, ress2)
}

func TestUnpin_AllowsRebuildAfter(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{}, nil)

	SetRegistry(Registry())
	SetResolver(Resolver())

	reg1, res1 := Registry(), Resolver()
	SetConfig(apis.Config{Shallow: true})
	assert.Same(t, reg1, Registry())
	assert.Same(t, res1, Resolver())

	UnpinRegistry()
	UnpinResolver()
	assert.False(t, IsRegistryPinned())
	assert.False(t, IsResolverPinned())

	SetConfig(apis.Config{})
	assert.NotSame(t, reg1, Registry())
	assert.NotSame(t, res1, Resolver())
}

func TestSetAll_PinsExplicitLayers(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, apis.Config{}, nil)

	reg := newMockRegistry("explicit")
	cfg := apis.Config{Shallow: true}
	SetAll(&cfg, "ext", reg, nil, nil)

	assert.Same(t, reg, Registry())
	assert.True(t, IsRegistryPinned())
	assert.False(t, IsResolverPinned())
	assert.Same(t, b, Builder(), "nil builder keeps the current one")
	assert.True(t, Config().Shallow)

	ext, ok := ExtAs[string]()
	require.True(t, ok)
	assert.Equal(t, "ext", ext)

	// Passing nil layers again unpins and rebuilds them.
	SetAll(nil, nil, nil, nil, nil)
	assert.False(t, IsRegistryPinned())
	assert.NotSame(t, reg, Registry())
	_, ok = ExtAs[string]()
	assert.False(t, ok, "ext is always replaced")
}

func TestRebuild_PanicsOnNilLayers(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, apis.Config{}, nil)
	before := Registry()

	assert.PanicsWithValue(t, ErrNilRegistry, func() { SetBuilder(&mockBuilder{nilReg: true}) })
	assert.PanicsWithValue(t, ErrNilResolver, func() { SetBuilder(&mockBuilder{nilRes: true}) })
	assert.Same(t, before, Registry(), "failed rebuilds publish nothing")
}

func TestRegister_UsesGlobalRegistry(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, apis.Config{}, nil)

	type host struct{}
	d := apis.DecomposerFuncs{}
	require.NoError(t, RegisterFor[host](d))

	_, ok := Registry().Lookup(reflect.TypeFor[host]())
	assert.True(t, ok)
}

func TestEtuplize_UsesSnapshotResolver(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{}, apis.Config{}, nil)

	// The mock resolver's operator is a string, so nothing is callable.
	got, err := Etuplize(1)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	pinned := &mockResolver{id: "pinned"}
	SetResolver(pinned)
	_, err = Etuplize(1)
	require.NoError(t, err)
	pinned.mu.Lock()
	defer pinned.mu.Unlock()
	assert.Equal(t, 1, pinned.resolveC)
}

func TestEtuplize_ConcurrentWithSetConfig(t *testing.T) {
	def := config.DefaultConfig()
	resetWithBuilder(t, builder.New(), def, nil)

	x := []any{func(a, b int) int { return a + b }, []any{func(a int) int { return a }, 1}, 2}
	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				got, err := Etuplize(x)
				if err != nil {
					t.Errorf("Etuplize: %v", err)
					return
				}
				et, ok := got.(*etuple.ExpressionTuple)
				if !ok || et.Len() != 3 {
					t.Errorf("Etuplize: unexpected %#v", got)
					return
				}
			}
		}()
	}

	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(config.WithShallow(i%2 == 0)))
			time.Sleep(time.Millisecond)
		}
	}()

	wg.Wait()
	<-done
}
