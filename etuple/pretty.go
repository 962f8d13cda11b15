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
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	prettyWidth  = 79
	prettyIndent = 2
)

// Pretty renders t on one line when it fits in 79 columns, and otherwise
// with one element per line. A tuple met again while it is being rendered,
// directly or through a host value, prints as ExpressionTuple(...).
func (t *ExpressionTuple) Pretty() string {
	var b strings.Builder
	newPrinter(ReprLimits{}).pretty(&b, t, 0, false)
	return b.String()
}

func (p *printer) pretty(b *strings.Builder, t *ExpressionTuple, indent int, flat bool) {
	if !p.enter(t) {
		b.WriteString("ExpressionTuple(...)")
		return
	}
	defer p.leave(t)

	if !flat {
		var fb strings.Builder
		p.prettyBody(&fb, t, indent, true)
		if indent+utf8.RuneCountInString(fb.String()) <= prettyWidth {
			b.WriteString(fb.String())
			return
		}
	}
	p.prettyBody(b, t, indent, flat)
}

func (p *printer) prettyBody(b *strings.Builder, t *ExpressionTuple, indent int, flat bool) {
	b.WriteString("ExpressionTuple((")
	inner := indent + prettyIndent
	for i, e := range t.elems {
		if i > 0 {
			b.WriteString(",")
			if flat {
				b.WriteString(" ")
			}
		}
		if !flat {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", inner))
		}
		p.prettyValue(b, e, inner, flat)
	}
	b.WriteString("))")
}

func (p *printer) prettyValue(b *strings.Builder, v any, indent int, flat bool) {
	switch x := v.(type) {
	case *ExpressionTuple:
		if x != nil {
			p.pretty(b, x, indent, flat)
			return
		}
	case KwdPair:
		b.WriteString(x.name)
		b.WriteString("=")
		p.prettyValue(b, x.value, indent, flat)
		return
	case string:
		b.WriteString(strconv.Quote(x))
		return
	}
	// Tuples inside host values print on one line.
	w := leafWalker{
		tuple: func(b *strings.Builder, t *ExpressionTuple) { p.pretty(b, t, indent, true) },
		kwd: func(b *strings.Builder, kw KwdPair) {
			b.WriteString(kw.name)
			b.WriteString("=")
			p.prettyValue(b, kw.value, indent, true)
		},
		maxDepth: leafDepth,
	}
	w.write(b, reflect.ValueOf(v), 0)
}
