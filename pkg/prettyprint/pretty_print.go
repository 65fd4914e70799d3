package prettyprint

import (
	"fmt"
	"strings"
)

// Doc is a layout for terms and proofs. Docs are rendered in one pass into a
// builder, so deep terms don't re-render their subdocuments at every level.
type Doc interface {
	String() string

	render(r *renderer)
}

// renderer writes docs, indenting each line by the current nesting when its
// first character is written. Blank lines get no indentation.
type renderer struct {
	sb          strings.Builder
	indent      int
	atLineStart bool
}

func render(d Doc) string {
	r := &renderer{atLineStart: true}
	d.render(r)
	return r.sb.String()
}

func (r *renderer) write(s string) {
	for len(s) > 0 {
		line := s
		nl := strings.IndexByte(s, '\n')
		if nl >= 0 {
			line = s[:nl]
		}
		if line != "" {
			if r.atLineStart {
				r.sb.WriteString(strings.Repeat(" ", r.indent))
				r.atLineStart = false
			}
			r.sb.WriteString(line)
		}
		if nl < 0 {
			return
		}
		r.sb.WriteByte('\n')
		r.atLineStart = true
		s = s[nl+1:]
	}
}

// Text

type text struct {
	str string
}

var _ Doc = &text{}

func Text(s string) Doc {
	return &text{str: s}
}

func Textf(format string, args ...interface{}) Doc {
	return Text(fmt.Sprintf(format, args...))
}

func (t *text) render(r *renderer) { r.write(t.str) }
func (t *text) String() string     { return t.str }

// Nest

type nest struct {
	doc Doc
	by  int
}

// Nest indents every line of d that starts inside it by the given number of
// spaces.
func Nest(by int, d Doc) Doc {
	return &nest{doc: d, by: by}
}

func (n *nest) render(r *renderer) {
	r.indent += n.by
	n.doc.render(r)
	r.indent -= n.by
}

func (n *nest) String() string { return render(n) }

// Seq

type seq struct {
	docs []Doc
}

func Seq(docs []Doc) Doc {
	return &seq{docs: docs}
}

func (s *seq) render(r *renderer) {
	for _, d := range s.docs {
		d.render(r)
	}
}

func (s *seq) String() string { return render(s) }

// Newline

type newline struct{}

var Newline Doc = newline{}

func (newline) render(r *renderer) { r.write("\n") }
func (newline) String() string     { return "\n" }

// Combinators

func Join(docs []Doc, sep Doc) Doc {
	out := make([]Doc, 0, 2*len(docs))
	for idx, doc := range docs {
		if idx > 0 {
			out = append(out, sep)
		}
		out = append(out, doc)
	}
	return Seq(out)
}

func Parens(d Doc) Doc {
	return Seq([]Doc{Text("("), d, Text(")")})
}

var CommaNewline = Seq([]Doc{Text(","), Newline})
