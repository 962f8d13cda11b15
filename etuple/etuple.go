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

// Package etuple implements expression tuples: immutable sequences of the
// form (operator, operand...) that can be matched and rebuilt structurally
// and evaluated back into live values.
//
// An ExpressionTuple remembers its evaluation. The evaluation is either
// supplied at construction (WithEval) or computed lazily on the first call
// to Eval by invoking the operator on the evaluated operands. Tuples obtained
// by slicing remember, weakly, the tuple they were sliced from; concatenating
// a slice back into something equal to that tuple returns the original tuple
// and with it its cached evaluation.
package etuple

import (
	"errors"
	"iter"
	"slices"
	"sync/atomic"
	"weak"
)

var (
	// ErrKwdName is returned when a keyword operand name is not a string.
	ErrKwdName = errors.New("etx(etuple): keyword name must be a string")
	// ErrEvalReadOnly is returned when an evaluation is set after construction.
	ErrEvalReadOnly = errors.New("etx(etuple): evaluation can only be supplied at construction")
	// ErrEmptyTuple is returned when evaluating a tuple without an operator.
	ErrEmptyTuple = errors.New("etx(etuple): cannot evaluate an empty expression tuple")
	// ErrNotCallable is returned when the operator of a tuple cannot be invoked.
	ErrNotCallable = errors.New("etx(etuple): operator is not callable")
	// ErrDuplicateKeyword is returned when the same keyword is supplied twice.
	ErrDuplicateKeyword = errors.New("etx(etuple): duplicate keyword operand")
	// ErrBind is returned when operands cannot be bound to an operator signature.
	ErrBind = errors.New("etx(etuple): cannot bind operands to signature")
)

// ExpressionTuple is an immutable (operator, operand...) sequence.
//
// The zero value is an empty tuple. ExpressionTuples must not be copied
// after first use; pass *ExpressionTuple around.
type ExpressionTuple struct {
	// elems holds the operator at index 0 followed by the operands.
	elems []any
	// cached is nil until an evaluation is supplied or computed.
	cached atomic.Pointer[evaluation]
	// origin is the tuple this one was sliced from, if any.
	origin weak.Pointer[ExpressionTuple]
}

// evaluation boxes a cached result so that nil is a legal evaluation.
type evaluation struct {
	v any
}

// Option configures a tuple under construction.
type Option func(*ExpressionTuple)

// WithEval pre-seeds the evaluation of the tuple being built. The value is
// trusted: nothing checks that the operator applied to the operands
// actually produces it.
func WithEval(v any) Option {
	return func(t *ExpressionTuple) {
		t.cached.Store(&evaluation{v: v})
	}
}

// New builds a tuple from a sequence of elements. The slice is copied and
// its order is kept as-is.
func New(elems []any, opts ...Option) *ExpressionTuple {
	t := &ExpressionTuple{elems: slices.Clone(elems)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// E builds the tuple (op, operands...).
//
// KwdPair operands are keyword operands: they are moved after every
// positional operand, keeping their relative order. Option values among the
// operands (e.g. WithEval) configure the tuple and are not stored.
func E(op any, operands ...any) *ExpressionTuple {
	elems := make([]any, 1, len(operands)+1)
	elems[0] = op

	var kws []any
	var opts []Option
	for _, o := range operands {
		switch v := o.(type) {
		case Option:
			opts = append(opts, v)
		case KwdPair:
			kws = append(kws, v)
		default:
			elems = append(elems, v)
		}
	}
	elems = append(elems, kws...)

	t := &ExpressionTuple{elems: elems}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of elements, operator included.
func (t *ExpressionTuple) Len() int {
	return len(t.elems)
}

// Index returns the i-th element as stored. It panics when i is out of range.
func (t *ExpressionTuple) Index(i int) any {
	return t.elems[i]
}

// Operator returns element 0, or nil for an empty tuple.
func (t *ExpressionTuple) Operator() any {
	if len(t.elems) == 0 {
		return nil
	}
	return t.elems[0]
}

// Operands returns a copy of elements 1..n.
func (t *ExpressionTuple) Operands() []any {
	if len(t.elems) < 2 {
		return nil
	}
	return slices.Clone(t.elems[1:])
}

// Elements returns a copy of all elements.
func (t *ExpressionTuple) Elements() []any {
	return slices.Clone(t.elems)
}

// All iterates over (index, element) pairs.
func (t *ExpressionTuple) All() iter.Seq2[int, any] {
	return slices.All(t.elems)
}

// Values iterates over the elements.
func (t *ExpressionTuple) Values() iter.Seq[any] {
	return slices.Values(t.elems)
}

// Slice returns the tuple of elements [lo:hi]. The result remembers t as
// its origin. Bounds follow slice expression rules and panic when invalid.
func (t *ExpressionTuple) Slice(lo, hi int) *ExpressionTuple {
	s := &ExpressionTuple{elems: slices.Clip(t.elems[lo:hi:len(t.elems)])}
	s.origin = weak.Make(t)
	return s
}

// Append returns t + elems.
func (t *ExpressionTuple) Append(elems ...any) *ExpressionTuple {
	return shortCircuit(join(t.elems, elems), t)
}

// Prepend returns elems + t.
func (t *ExpressionTuple) Prepend(elems ...any) *ExpressionTuple {
	return shortCircuit(join(elems, t.elems), t)
}

// Concat returns t + u.
//
// When the result equals the origin of t, or else the origin of u, that
// origin is returned instead of a new tuple.
func (t *ExpressionTuple) Concat(u *ExpressionTuple) *ExpressionTuple {
	return shortCircuit(join(t.elems, u.elems), t, u)
}

// SetEval always fails: the evaluation is either supplied at construction
// or computed by Eval.
func (t *ExpressionTuple) SetEval(any) error {
	return ErrEvalReadOnly
}

// Evaluated returns the cached evaluation without computing it.
func (t *ExpressionTuple) Evaluated() (any, bool) {
	if e := t.cached.Load(); e != nil {
		return e.v, true
	}
	return nil, false
}

func join(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// shortCircuit wraps elems in a tuple unless it equals the origin of one of
// the operands, in which case that origin is returned.
func shortCircuit(elems []any, operands ...*ExpressionTuple) *ExpressionTuple {
	res := &ExpressionTuple{elems: elems}
	for _, o := range operands {
		if orig := o.origin.Value(); orig != nil && orig.Equal(res) {
			return orig
		}
	}
	return res
}
