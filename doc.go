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

// Package etx turns host objects into expression tuples and back.
//
// An expression tuple (package etuple) is an immutable sequence
// (operator, operand...) that rewrite and search code can match, slice and
// rebuild structurally, and then evaluate to get a live object again. etx
// provides the other half: a decomposition protocol that builds such tuples
// from arbitrary Go values without knowing their concrete types.
//
// # Decomposition
//
// Etuplize(x) asks a Resolver for the operator and arguments of x, applies
// itself to every argument, and returns
//
//	etuple.New([]any{op, args...}, etuple.WithEval(x))
//
// so that evaluating the tuple yields x itself. Values that cannot be
// decomposed are returned unchanged; that is the normal outcome for leaves
// such as numbers or strings. EtuplizeShallow stops after the first level.
//
// The default Resolver tries, in order:
//  1. apis.Term: the value reports Operator() and Arguments() itself.
//  2. The Registry: an apis.Decomposer registered for the value's dynamic
//     type, or for an interface it implements.
//  3. The sequence fallback: []any is read head-as-operator, typed slices
//     and arrays are rebuilt by a synthesized variadic constructor.
//
// New host types are supported by implementing apis.Term or by
// registering a Decomposer:
//
//	etx.RegisterFor[*graph.Apply](apis.DecomposerFuncs{
//		OperatorFunc:  func(x any) (any, error) { return x.(*graph.Apply).Op, nil },
//		ArgumentsFunc: func(x any) ([]any, error) { return x.(*graph.Apply).Inputs, nil },
//	})
//
// # Global snapshot
//
// Config, Registry, Resolver and Builder live in one immutable snapshot
// published through an atomic pointer. Reads (Etuplize, Registry, ...) are
// lock-free. Writers (SetConfig, SetBuilder, SetExt, SetRegistry,
// SetResolver, SetAll) serialize on a mutex, rebuild the layers that are not
// pinned through the Builder, and swap the snapshot in. SetRegistry and
// SetResolver pin what they install; Unpin* releases it. SetAll is the
// hard reset used by tests.
//
// # Concurrency
//
// Decomposition is synchronous. Tuples are immutable apart from the
// evaluation cache, which is filled once with compare-and-swap: racing
// evaluations may both run the operator and the first stored result wins.
// Recursion depth is bounded only by the goroutine stack.
package etx
