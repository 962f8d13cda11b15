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

package etuple

import "fmt"

// Evaluator is implemented by operand types, other than ExpressionTuple and
// KwdPair, that evaluate to a live value.
type Evaluator interface {
	Eval() (any, error)
}

// Eval returns the evaluation of t.
//
// A supplied or previously computed evaluation is returned as-is.
// Otherwise the operands are evaluated, keyword operands are bound through
// the operator's Signature when it has one (or passed positionally after
// the other operands when it does not), and the operator is called. The
// result is cached; if two goroutines race, the first stored result wins.
//
// Errors returned by the operator are returned unchanged and nothing is
// cached. Panics raised by the operator are not recovered.
func (t *ExpressionTuple) Eval() (any, error) {
	if e := t.cached.Load(); e != nil {
		return e.v, nil
	}
	if len(t.elems) == 0 {
		return nil, ErrEmptyTuple
	}

	args := make([]any, 0, len(t.elems)-1)
	var kwargs []KwdPair
	for _, o := range t.elems[1:] {
		v, err := evalOperand(o)
		if err != nil {
			return nil, err
		}
		if kw, ok := v.(KwdPair); ok {
			kwargs = append(kwargs, kw)
			continue
		}
		args = append(args, v)
	}

	v, err := apply(t.elems[0], args, kwargs)
	if err != nil {
		return nil, err
	}

	if !t.cached.CompareAndSwap(nil, &evaluation{v: v}) {
		return t.cached.Load().v, nil
	}
	return v, nil
}

// MustEval is like Eval but panics on error.
func (t *ExpressionTuple) MustEval() any {
	v, err := t.Eval()
	if err != nil {
		panic(err)
	}
	return v
}

// evalOperand evaluates o when it has an evaluation and returns it unchanged otherwise.
func evalOperand(o any) (any, error) {
	switch v := o.(type) {
	case *ExpressionTuple:
		return v.Eval()
	case KwdPair:
		return v.Eval()
	case Evaluator:
		return v.Eval()
	}
	return o, nil
}

func apply(op any, args []any, kwargs []KwdPair) (any, error) {
	if !IsCallable(op) {
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, op)
	}

	seen := make(map[string]struct{}, len(kwargs))
	for _, kw := range kwargs {
		if _, dup := seen[kw.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKeyword, kw.name)
		}
		seen[kw.name] = struct{}{}
	}

	if s, ok := op.(Signer); ok {
		bound, err := s.Signature().Bind(args, kwargs)
		if err != nil {
			return nil, err
		}
		return call(op, bound)
	}

	flat := args
	for _, kw := range kwargs {
		flat = append(flat, kw.value)
	}
	return call(op, flat)
}
