package prettyprint

import "testing"

func TestPrettyPrint(t *testing.T) {
	cases := []struct {
		in  Doc
		out string
	}{
		{
			Seq([]Doc{Text("foo"), Text(" "), Text("bar")}),
			`foo bar`,
		},
		{
			Seq([]Doc{Text("foo"), Text("["), Newline, Nest(2, Text("bar")), Newline, Text("]")}),
			`foo[
  bar
]`,
		},
		{
			Seq([]Doc{
				Text("["), Newline,
				Nest(2, Join([]Doc{
					Text("foo: bar,"),
					Text("baz: bin,"),
				}, Newline)),
				Newline, Text("]"),
			}),
			`[
  foo: bar,
  baz: bin,
]`,
		},
		{
			Seq([]Doc{Text("λ. "), Parens(Seq([]Doc{Text("0"), Text(" "), Text("1")}))}),
			`λ. (0 1)`,
		},
		{
			Nest(2, Join([]Doc{Text("a"), Text("b")}, CommaNewline)),
			"  a,\n  b",
		},
		{
			Seq([]Doc{Text("x = "), Nest(4, Seq([]Doc{Text("{"), Newline, Text("y"), Newline, Newline, Text("}")}))}),
			"x = {\n    y\n\n    }",
		},
		{
			Nest(2, Seq([]Doc{Text("a\nb"), Newline, Nest(2, Text("c"))})),
			"  a\n  b\n    c",
		},
	}

	for idx, testCase := range cases {
		actual := testCase.in.String()
		if actual != testCase.out {
			t.Fatalf("case %d:\nEXPECTED\n\n%s\n\nGOT\n\n%s", idx, testCase.out, actual)
		}
	}
}
