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

package etx_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/etx"
	"dirpx.dev/etx/apis"
	"dirpx.dev/etx/builder"
	"dirpx.dev/etx/config"
	"dirpx.dev/etx/etuple"
	"dirpx.dev/etx/resolver"
	"dirpx.dev/etx/strategy"
)

// useDefaults installs cfg with the stock builder and an empty registry,
// and restores the defaults when the test ends.
func useDefaults(tb testing.TB, opts ...config.Option) {
	tb.Helper()
	reset := func(cfg apis.Config) {
		etx.SetAll(&cfg, nil, nil, nil, builder.New())
		etx.Registry().Reset()
	}
	reset(config.NewConfig(opts...))
	tb.Cleanup(func() { reset(config.DefaultConfig()) })
}

func add(a, b int) int { return a + b }

// List is a host sequence that describes itself as NewList(elems...).
type List []any

func NewList(elems ...any) List { return List(elems) }

func (l List) Operator() (any, error) {
	if len(l) == 0 {
		return nil, apis.ErrEmpty
	}
	return NewList, nil
}

func (l List) Arguments() ([]any, error) {
	if len(l) == 0 {
		return nil, apis.ErrEmpty
	}
	return []any(l), nil
}

// node is a pointer-identity host object.
type node struct {
	op   any
	args []any
	err  error
}

func (n *node) Operator() (any, error) { return n.op, nil }

func (n *node) Arguments() ([]any, error) {
	if n.err != nil {
		return nil, n.err
	}
	return n.args, nil
}

func sameBacking(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestEtuplize_ListRoundTripByIdentity(t *testing.T) {
	useDefaults(t)
	x := List{1, 2}

	got, err := etx.Etuplize(x)
	require.NoError(t, err)
	et, ok := got.(*etuple.ExpressionTuple)
	require.True(t, ok)
	assert.True(t, et.Equal(etuple.E(NewList, 1, 2)))

	v, err := et.Eval()
	require.NoError(t, err)
	assert.True(t, sameBacking(x, v), "evaluation is the original object")

	fresh, err := etuple.New(et.Elements()).Eval()
	require.NoError(t, err)
	assert.Equal(t, x, fresh)
	assert.False(t, sameBacking(x, fresh), "re-evaluation builds a new object")
}

func TestEtuplize_PointerRoundTrip(t *testing.T) {
	useDefaults(t)
	x := &node{op: add, args: []any{1, 2}}

	got, err := etx.Etuplize(x)
	require.NoError(t, err)
	et := got.(*etuple.ExpressionTuple)
	assert.Same(t, x, et.MustEval())
	assert.Equal(t, 3, etuple.New(et.Elements()).MustEval())
}

func TestEtuplize_Idempotent(t *testing.T) {
	useDefaults(t)
	et := etuple.E(add, 1, 2)

	got, err := etx.Etuplize(et)
	require.NoError(t, err)
	assert.Same(t, et, got)
}

func TestEtuplize_DeepAndShallow(t *testing.T) {
	useDefaults(t)
	inner := List{1}
	x := List{inner, 2}

	deep, err := etx.Etuplize(x)
	require.NoError(t, err)
	assert.True(t, etuple.Equal(etuple.E(NewList, etuple.E(NewList, 1), 2), deep))
	sub := deep.(*etuple.ExpressionTuple).Index(1).(*etuple.ExpressionTuple)
	assert.True(t, sameBacking(inner, sub.MustEval()))

	shallow, err := etx.EtuplizeShallow(x)
	require.NoError(t, err)
	assert.True(t, etuple.Equal(etuple.E(NewList, inner, 2), shallow))
	assert.True(t, sameBacking(inner, shallow.(*etuple.ExpressionTuple).Index(1)))
}

func TestEtuplize_ShallowConfig(t *testing.T) {
	useDefaults(t, config.WithShallow(true))

	got, err := etx.Etuplize(List{List{1}})
	require.NoError(t, err)
	_, nested := got.(*etuple.ExpressionTuple).Index(1).(*etuple.ExpressionTuple)
	assert.False(t, nested)
}

func TestEtuplize_Passthrough(t *testing.T) {
	useDefaults(t)

	cases := []struct {
		name string
		x    any
	}{
		{"not decomposable", 42},
		{"nil", nil},
		{"empty term", List{}},
		{"empty sequence", []int{}},
		{"operator not callable", []any{1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := etx.Etuplize(tc.x)
			require.NoError(t, err)
			assert.Equal(t, tc.x, got)
		})
	}

	x := []any{1, 2}
	got, _ := etx.Etuplize(x)
	assert.True(t, sameBacking(x, got), "passthrough returns the object itself")
}

func TestEtuplize_Sequences(t *testing.T) {
	useDefaults(t)

	got, err := etx.Etuplize([]any{add, 1, []any{add, 2, 3}})
	require.NoError(t, err)
	assert.True(t, etuple.Equal(etuple.E(add, 1, etuple.E(add, 2, 3)), got))

	got, err = etx.Etuplize([]int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, etuple.New(got.(*etuple.ExpressionTuple).Elements()).MustEval())
}

func TestEtuplize_SequencesDisabled(t *testing.T) {
	useDefaults(t, config.WithDecomposeSequences(false))

	x := []any{add, 1, 2}
	got, err := etx.Etuplize(x)
	require.NoError(t, err)
	assert.True(t, sameBacking(x, got))
}

type celsius float64

func (c celsius) String() string { return fmt.Sprintf("%gC", float64(c)) }

func fromString(s string) celsius {
	var c float64
	_, _ = fmt.Sscanf(s, "%gC", &c)
	return celsius(c)
}

func TestEtuplize_RegisteredInterface(t *testing.T) {
	useDefaults(t)
	require.NoError(t, etx.RegisterFor[fmt.Stringer](apis.DecomposerFuncs{
		OperatorFunc:  func(any) (any, error) { return fromString, nil },
		ArgumentsFunc: func(x any) ([]any, error) { return []any{x.(fmt.Stringer).String()}, nil },
	}))

	got, err := etx.Etuplize(celsius(21.5))
	require.NoError(t, err)
	et := got.(*etuple.ExpressionTuple)
	assert.Equal(t, []any{"21.5C"}, et.Operands())
	assert.Equal(t, celsius(21.5), etuple.New(et.Elements()).MustEval())
}

func TestEtuplize_ExtractionErrorsWrapped(t *testing.T) {
	useDefaults(t)
	boom := errors.New("boom")

	_, err := etx.Etuplize(&node{op: add, err: boom})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "etx: decompose *etx_test.node")

	// Errors deep in the graph surface too.
	_, err = etx.Etuplize(List{&node{op: add, err: boom}})
	assert.ErrorIs(t, err, boom)
}

func TestEtuplize_LogsPassthrough(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	useDefaults(t, config.WithLogger(zap.New(core)))

	_, err := etx.Etuplize(42)
	require.NoError(t, err)

	entries := logs.FilterMessage("etuplize passthrough").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "int", entries[0].ContextMap()["type"])
	assert.Contains(t, entries[0].ContextMap()["reason"], "not decomposable")
}

func TestEtuplizeWith_CustomResolver(t *testing.T) {
	res := resolver.New(strategy.NewTermStrategy())
	cfg := config.DefaultConfig()

	x := []any{add, 1, 2}
	got, err := etx.EtuplizeWith(res, cfg, x, false)
	require.NoError(t, err)
	assert.True(t, sameBacking(x, got), "no sequence strategy, no decomposition")

	got, err = etx.EtuplizeWith(res, cfg, List{1}, false)
	require.NoError(t, err)
	assert.IsType(t, &etuple.ExpressionTuple{}, got)
}
