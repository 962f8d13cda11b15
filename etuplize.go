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
	"fmt"

	"go.uber.org/zap"

	"dirpx.dev/etx/apis"
	"dirpx.dev/etx/etuple"
)

// Etuplize converts x into an expression tuple using the global snapshot,
// recursively unless Config().Shallow is set.
//
// The resulting tuple evaluates to x itself without recomputation. Objects
// that cannot be decomposed (no strategy applies, nothing to decompose, or
// an operator that is not callable) are returned unchanged with a nil error.
// Expression tuples are returned as-is.
//
// Etuplize(x) and the host's own arguments differ: the former decomposes
// every reachable sub-object, while a Term or Decomposer only reports one
// level.
func Etuplize(x any) (any, error) {
	s := st.Load()
	return EtuplizeWith(s.res, s.cfg, x, s.cfg.Shallow)
}

// EtuplizeShallow is Etuplize limited to the top-level object: the
// arguments are stored as reported by the host.
func EtuplizeShallow(x any) (any, error) {
	s := st.Load()
	return EtuplizeWith(s.res, s.cfg, x, true)
}

// EtuplizeWith runs the decomposition of x against res and cfg.
//
// Extraction errors other than apis.ErrEmpty and apis.ErrNotDecomposable
// are returned wrapped.
func EtuplizeWith(res apis.Resolver, cfg apis.Config, x any, shallow bool) (any, error) {
	if et, ok := x.(*etuple.ExpressionTuple); ok {
		return et, nil
	}

	op, args, err := res.Resolve(x, cfg)
	switch {
	case errors.Is(err, apis.ErrEmpty), errors.Is(err, apis.ErrNotDecomposable):
		passthrough(cfg, x, err.Error())
		return x, nil
	case err != nil:
		return nil, fmt.Errorf("etx: decompose %T: %w", x, err)
	}

	if !etuple.IsCallable(op) {
		passthrough(cfg, x, "operator not callable")
		return x, nil
	}

	elems := make([]any, 0, len(args)+1)
	elems = append(elems, op)
	if shallow {
		elems = append(elems, args...)
	} else {
		for _, a := range args {
			sub, err := EtuplizeWith(res, cfg, a, false)
			if err != nil {
				return nil, err
			}
			elems = append(elems, sub)
		}
	}
	return etuple.New(elems, etuple.WithEval(x)), nil
}

func passthrough(cfg apis.Config, x any, reason string) {
	if ce := cfg.Log().Check(zap.DebugLevel, "etuplize passthrough"); ce != nil {
		ce.Write(
			zap.String("type", fmt.Sprintf("%T", x)),
			zap.String("reason", reason),
		)
	}
}
