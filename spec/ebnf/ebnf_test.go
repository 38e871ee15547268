package ebnf

import (
	"strings"
	"testing"

	"github.com/nihei9/earley/earley"
	xebnf "golang.org/x/exp/ebnf"
)

const exprSrc = `
Expr  = Term { ( "+" | "-" ) Term } .
Term  = Digit | "(" Expr ")" .
Digit = "0" … "9" .
`

func TestConvert(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		start   string
		rules   []string
	}{
		{
			caption: "repetitions, groups, and ranges are replaced with generated non-terminals",
			src:     exprSrc,
			start:   "Expr",
			rules: []string{
				"Expr → Term Expr_rep1",
				"Digit → Digit_rng1",
				"Term → Digit",
				"Term → '(' Expr ')'",
				"Expr_grp1 → '+'",
				"Expr_grp1 → '-'",
				"Expr_rep1 → ε",
				"Expr_rep1 → Expr_rep1 Expr_grp1 Term",
				"Digit_rng1 → '0'",
				"Digit_rng1 → '1'",
				"Digit_rng1 → '2'",
				"Digit_rng1 → '3'",
				"Digit_rng1 → '4'",
				"Digit_rng1 → '5'",
				"Digit_rng1 → '6'",
				"Digit_rng1 → '7'",
				"Digit_rng1 → '8'",
				"Digit_rng1 → '9'",
			},
		},
		{
			caption: "an option can be empty",
			src:     `S = "a" [ "b" ] .`,
			start:   "S",
			rules: []string{
				"S → 'a' S_opt1",
				"S_opt1 → 'b'",
				"S_opt1 → ε",
			},
		},
		{
			caption: "an empty production is an empty rule",
			src: `
S = A "a" .
A = .
`,
			start: "S",
			rules: []string{
				"S → A 'a'",
				"A → ε",
			},
		},
		{
			caption: "a generated name avoids an existing production",
			src: `
S = [ "a" ] S_opt1 .
S_opt1 = "b" .
`,
			start: "S",
			rules: []string{
				"S → S_opt2 S_opt1",
				"S_opt1 → 'b'",
				"S_opt2 → 'a'",
				"S_opt2 → ε",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g, err := xebnf.Parse("test.ebnf", strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			rules, err := Convert(g, tt.start)
			if err != nil {
				t.Fatal(err)
			}
			if len(rules) != len(tt.rules) {
				t.Fatalf("unexpected rule count; want: %v, got: %v (%v)", len(tt.rules), len(rules), rules)
			}
			for i, r := range rules {
				if r.String() != tt.rules[i] {
					t.Fatalf("unexpected rule; want: %v, got: %v", tt.rules[i], r)
				}
			}
		})
	}
}

func TestParse(t *testing.T) {
	g, err := Parse("expr.ebnf", strings.NewReader(exprSrc), "Expr")
	if err != nil {
		t.Fatal(err)
	}
	if g.Start() != "Expr" {
		t.Fatalf("unexpected start symbol; want: Expr, got: %v", g.Start())
	}

	tests := []struct {
		input      string
		parseCount int
	}{
		{input: "1", parseCount: 1},
		{input: "1+(2-3)", parseCount: 1},
		{input: "1+", parseCount: 0},
		{input: "a", parseCount: 0},
	}
	for _, tt := range tests {
		res, err := earley.Parse(g, earley.SplitRunes(tt.input))
		if err != nil {
			t.Fatal(err)
		}
		if res.ParseCount() != tt.parseCount {
			t.Fatalf("unexpected parse count; input: %v, want: %v, got: %v", tt.input, tt.parseCount, res.ParseCount())
		}
	}
}

func TestParse_Error(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		start   string
	}{
		{
			caption: "a syntax error is reported",
			src:     `S = "a" `,
			start:   "S",
		},
		{
			caption: "an undefined production is reported",
			src:     `S = A .`,
			start:   "S",
		},
		{
			caption: "an unknown start production is reported",
			src:     `S = "a" .`,
			start:   "T",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g, err := Parse("test.ebnf", strings.NewReader(tt.src), tt.start)
			if err == nil {
				t.Fatal("an error must occur")
			}
			if g != nil {
				t.Fatal("a grammar must be nil")
			}
		})
	}
}
