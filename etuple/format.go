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

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// ReprLimits bounds the diagnostic representation produced by Repr.
type ReprLimits struct {
	// MaxString is the longest rendering of a string element, quotes included.
	MaxString int
	// MaxOther is the longest rendering of any other element.
	MaxOther int
	// MaxElems is the number of elements shown before eliding the rest. It
	// also caps host slices, maps and structs.
	MaxElems int
	// MaxLevel is the tuple nesting depth past which tuples print as
	// ExpressionTuple(...).
	MaxLevel int
}

// DefaultReprLimits is used by GoString and %#v.
var DefaultReprLimits = ReprLimits{MaxString: 100, MaxOther: 100, MaxElems: 6, MaxLevel: 6}

// String renders t call-style: e(op, a, b). A tuple met again while it is
// being rendered prints as e(...).
func (t *ExpressionTuple) String() string {
	var b strings.Builder
	newPrinter(DefaultReprLimits).call(&b, t)
	return b.String()
}

// GoString returns the bounded representation with DefaultReprLimits.
func (t *ExpressionTuple) GoString() string {
	return t.Repr(DefaultReprLimits)
}

// Repr renders t as ExpressionTuple((a, b, ...)), truncating long elements
// in the middle, eliding elements past l.MaxElems and tuples nested deeper
// than l.MaxLevel.
func (t *ExpressionTuple) Repr(l ReprLimits) string {
	var b strings.Builder
	newPrinter(l).repr(&b, t, 0)
	return b.String()
}

// Format implements fmt.Formatter: %v and %s give String, %#v gives
// GoString, %+v gives Pretty and %q quotes String.
func (t *ExpressionTuple) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		switch {
		case f.Flag('#'):
			_, _ = io.WriteString(f, t.GoString())
		case f.Flag('+'):
			_, _ = io.WriteString(f, t.Pretty())
		default:
			_, _ = io.WriteString(f, t.String())
		}
	case 's':
		_, _ = io.WriteString(f, t.String())
	case 'q':
		_, _ = io.WriteString(f, strconv.Quote(t.String()))
	default:
		_, _ = fmt.Fprintf(f, "%%!%c(*etuple.ExpressionTuple=%s)", verb, t.String())
	}
}

// printer renders tuples in the call, repr and pretty styles. visiting
// holds the tuples on the current rendering path, including those reached
// through host values.
type printer struct {
	visiting map[*ExpressionTuple]struct{}
	limits   ReprLimits
}

func newPrinter(l ReprLimits) *printer {
	return &printer{visiting: make(map[*ExpressionTuple]struct{}), limits: l}
}

func (p *printer) enter(t *ExpressionTuple) bool {
	if _, ok := p.visiting[t]; ok {
		return false
	}
	p.visiting[t] = struct{}{}
	return true
}

func (p *printer) leave(t *ExpressionTuple) { delete(p.visiting, t) }

func (p *printer) call(b *strings.Builder, t *ExpressionTuple) {
	if !p.enter(t) {
		b.WriteString("e(...)")
		return
	}
	defer p.leave(t)

	w := leafWalker{
		tuple:    p.call,
		kwd:      func(b *strings.Builder, kw KwdPair) { p.reprKwd(b, kw, 0) },
		maxDepth: leafDepth,
	}
	b.WriteString("e(")
	for i, e := range t.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		w.write(b, reflect.ValueOf(e), 0)
	}
	b.WriteString(")")
}

func (p *printer) repr(b *strings.Builder, t *ExpressionTuple, level int) {
	if (p.limits.MaxLevel > 0 && level >= p.limits.MaxLevel) || !p.enter(t) {
		b.WriteString("ExpressionTuple(...)")
		return
	}
	defer p.leave(t)

	b.WriteString("ExpressionTuple((")
	for i, e := range t.elems {
		if p.limits.MaxElems > 0 && i == p.limits.MaxElems {
			b.WriteString(", ...")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		p.reprValue(b, e, level+1)
	}
	if len(t.elems) == 1 {
		b.WriteString(",")
	}
	b.WriteString("))")
}

// reprValue writes v as an element of a tuple at the given level.
func (p *printer) reprValue(b *strings.Builder, v any, level int) {
	if s, ok := v.(string); ok {
		b.WriteString(truncate(strconv.Quote(s), p.limits.MaxString))
		return
	}
	depth := leafDepth
	if p.limits.MaxLevel > 0 {
		depth = min(depth, p.limits.MaxLevel)
	}
	w := leafWalker{
		tuple:    func(b *strings.Builder, t *ExpressionTuple) { p.repr(b, t, level) },
		kwd:      func(b *strings.Builder, kw KwdPair) { p.reprKwd(b, kw, level) },
		maxDepth: depth,
		maxElems: p.limits.MaxElems,
	}
	var eb strings.Builder
	w.write(&eb, reflect.ValueOf(v), 0)
	b.WriteString(truncate(eb.String(), p.limits.MaxOther))
}

func (p *printer) reprKwd(b *strings.Builder, kw KwdPair, level int) {
	b.WriteString(kw.name)
	b.WriteString("=")
	p.reprValue(b, kw.value, level)
}

// truncate keeps the head and tail of s around "..." so that the result
// has at most limit runes. limit <= 0 disables truncation.
func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	i := max(0, (limit-3)/2)
	j := max(0, limit-3-i)
	return string(r[:i]) + "..." + string(r[len(r)-j:])
}
