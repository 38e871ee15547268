package earley

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/earley/grammar"
	"github.com/nihei9/earley/grammar/symbol"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		caption    string
		rules      []*grammar.Rule
		input      []string
		opts       []ParserOption
		parseCount int
	}{
		{
			caption:    "a binary grammar has Catalan-number trees",
			rules:      testRulesBinary(),
			input:      SplitRunes("aaaaaa"),
			parseCount: 42,
		},
		{
			caption:    "an input of length one has one tree",
			rules:      testRulesBinary(),
			input:      SplitRunes("a"),
			parseCount: 1,
		},
		{
			caption:    "every grouping of a binary operator is a tree",
			rules:      testRulesPlus(),
			input:      SplitRunes("i+i+i+i"),
			parseCount: 5,
		},
		{
			caption:    "empty derivations of the other slots are distinguished",
			rules:      testRulesNullable(),
			input:      SplitRunes("a"),
			parseCount: 32,
		},
		{
			caption:    "a nullable grammar accepts the empty input",
			rules:      testRulesNullable(),
			input:      SplitRunes(""),
			parseCount: 16,
		},
		{
			caption:    "a cyclic grammar accepts the empty input without a cyclic derivation",
			rules:      testRulesCyclic(),
			input:      SplitRunes(""),
			parseCount: 1,
		},
		{
			caption: "an input containing a symbol no rule produces is rejected",
			rules: []*grammar.Rule{
				rule("S", t_("a")),
			},
			input:      SplitRunes("b"),
			parseCount: 0,
		},
		{
			caption: "an incomplete input is rejected",
			rules: []*grammar.Rule{
				rule("S", t_("a"), t_("b")),
			},
			input:      SplitRunes("a"),
			parseCount: 0,
		},
		{
			caption: "an undefined non-terminal predicts nothing",
			rules: []*grammar.Rule{
				rule("S", n_("X"), t_("a")),
				rule("S", t_("b")),
			},
			input:      SplitRunes("a"),
			parseCount: 0,
		},
		{
			caption: "a left-recursive unambiguous grammar has one tree",
			rules: []*grammar.Rule{
				rule("L", n_("L"), t_("a")),
				rule("L", t_("a")),
			},
			input:      SplitRunes("aaaa"),
			parseCount: 1,
		},
		{
			caption: "a right-recursive unambiguous grammar has one tree",
			rules: []*grammar.Rule{
				rule("R", t_("a"), n_("R")),
				rule("R", t_("a")),
			},
			input:      SplitRunes("aaaa"),
			parseCount: 1,
		},
		{
			caption: "rules spelled identically are distinct rules",
			rules: []*grammar.Rule{
				rule("S", t_("a")),
				rule("S", t_("a")),
			},
			input:      SplitRunes("a"),
			parseCount: 2,
		},
		{
			caption: "input symbols can be words",
			rules: []*grammar.Rule{
				rule("S", t_("let"), t_("x"), t_("="), t_("1")),
			},
			input:      SplitFields("let x = 1"),
			parseCount: 1,
		},
		{
			caption:    "a recognizer reports one tree for an ambiguous input",
			rules:      testRulesBinary(),
			input:      SplitRunes("aaaaaa"),
			opts:       []ParserOption{DisableProduceAll()},
			parseCount: 1,
		},
		{
			caption:    "a recognizer accepts a cyclic grammar",
			rules:      testRulesCyclic(),
			input:      SplitRunes(""),
			opts:       []ParserOption{DisableProduceAll()},
			parseCount: 1,
		},
		{
			caption:    "a recognizer rejects what the produce-all mode rejects",
			rules:      testRulesPlus(),
			input:      SplitRunes("i+"),
			opts:       []ParserOption{DisableProduceAll()},
			parseCount: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := newTestGrammar(t, tt.rules...)
			res, err := Parse(g, tt.input, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if res.ParseCount() != tt.parseCount {
				t.Fatalf("unexpected parse count; want: %v, got: %v", tt.parseCount, res.ParseCount())
			}
			if res.Chart.Len() != len(tt.input)+1 {
				t.Fatalf("unexpected cell count; want: %v, got: %v", len(tt.input)+1, res.Chart.Len())
			}

			trees := res.Forest()
			if len(trees) != tt.parseCount {
				t.Fatalf("unexpected tree count; want: %v, got: %v", tt.parseCount, len(trees))
			}
			want := strings.Join(tt.input, " ")
			seen := map[string]struct{}{}
			for _, tree := range trees {
				if tree.KindName != g.Start() {
					t.Fatalf("unexpected root; want: %v, got: %v", g.Start(), tree.KindName)
				}
				if got := strings.Join(tree.Yield(), " "); got != want {
					t.Fatalf("a tree doesn't derive the input; want: %q, got: %q, tree: %v", want, got, tree.Format())
				}
				if tree.Pos != 0 || tree.End != len(tt.input) {
					t.Fatalf("unexpected span of a tree; want: 0-%v, got: %v-%v", len(tt.input), tree.Pos, tree.End)
				}
				key := derivationKey(tree)
				if _, ok := seen[key]; ok {
					t.Fatalf("a tree appeared twice: %v", tree.Format())
				}
				seen[key] = struct{}{}
			}
		})
	}
}

// derivationKey distinguishes trees by their rule numbers because different rules can be spelled identically.
func derivationKey(n *Node) string {
	if n.Type == NodeTypeTerminal {
		return n.Text
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(%v", n.Rule.Num)
	for _, c := range n.Children {
		b.WriteString(" ")
		b.WriteString(derivationKey(c))
	}
	b.WriteString(")")
	return b.String()
}

func TestParser_Parse_ProduceAllAgreesWithRecognizer(t *testing.T) {
	g := newTestGrammar(t, testRulesPlus()...)
	inputs := []string{"", "i", "i+", "+i", "i+i", "ii", "i+i+i", "i++i"}
	for _, input := range inputs {
		all, err := Parse(g, SplitRunes(input))
		if err != nil {
			t.Fatal(err)
		}
		rec, err := Parse(g, SplitRunes(input), DisableProduceAll())
		if err != nil {
			t.Fatal(err)
		}
		if (all.ParseCount() >= 1) != (rec.ParseCount() >= 1) {
			t.Fatalf("recognition results differ; input: %q, produce-all: %v, recognizer: %v", input, all.ParseCount(), rec.ParseCount())
		}
		if rec.ParseCount() > 1 {
			t.Fatalf("a recognizer must report at most one tree; input: %q, got: %v", input, rec.ParseCount())
		}
	}
}

// countLeftmostDerivations enumerates the leftmost derivations of an input by brute force. The grammar
// must not have a non-terminal deriving itself, otherwise an input can have infinitely many derivations.
func countLeftmostDerivations(t *testing.T, rules []*grammar.Rule, input []string) int {
	t.Helper()

	lhs2Rules := map[string][]*grammar.Rule{}
	for _, r := range rules {
		lhs2Rules[r.LHS] = append(lhs2Rules[r.LHS], r)
	}

	// minLen is the length of the shortest terminal string a non-terminal derives. A non-terminal
	// deriving no terminal string has no entry.
	minLen := map[string]int{}
	for {
		more := false
		for _, r := range rules {
			l := 0
			ok := true
			for _, sym := range r.RHS {
				if sym.IsTerminal() {
					l++
					continue
				}
				n, found := minLen[sym.Text()]
				if !found {
					ok = false
					break
				}
				l += n
			}
			if !ok {
				continue
			}
			if n, found := minLen[r.LHS]; !found || l < n {
				minLen[r.LHS] = l
				more = true
			}
		}
		if !more {
			break
		}
	}

	const maxDepth = 1000
	var count func(form []symbol.Symbol, pos, depth int) int
	count = func(form []symbol.Symbol, pos, depth int) int {
		if depth > maxDepth {
			t.Fatalf("a derivation is too long; the grammar may have a cycle")
		}
		for len(form) > 0 && form[0].IsTerminal() {
			if pos >= len(input) || input[pos] != form[0].Text() {
				return 0
			}
			form = form[1:]
			pos++
		}
		if len(form) == 0 {
			if pos == len(input) {
				return 1
			}
			return 0
		}
		rest := 0
		for _, sym := range form {
			if sym.IsTerminal() {
				rest++
				continue
			}
			n, ok := minLen[sym.Text()]
			if !ok {
				return 0
			}
			rest += n
		}
		if rest > len(input)-pos {
			return 0
		}

		total := 0
		for _, r := range lhs2Rules[form[0].Text()] {
			next := make([]symbol.Symbol, 0, len(r.RHS)+len(form)-1)
			next = append(next, r.RHS...)
			next = append(next, form[1:]...)
			total += count(next, pos, depth+1)
		}
		return total
	}
	return count([]symbol.Symbol{n_(rules[0].LHS)}, 0, 0)
}

func TestParser_Parse_CountsLeftmostDerivations(t *testing.T) {
	tests := []struct {
		caption string
		rules   []*grammar.Rule
		inputs  []string
	}{
		{
			caption: "a binary grammar",
			rules:   testRulesBinary(),
			inputs:  []string{"", "a", "aa", "aaa", "aaaa", "aaaaa", "aaaaaa", "ab"},
		},
		{
			caption: "a binary operator",
			rules:   testRulesPlus(),
			inputs:  []string{"", "i", "+", "i+", "i+i", "i+i+i", "i+i+i+i", "i+i+i+i+i", "ii"},
		},
		{
			caption: "nullable non-terminals",
			rules:   testRulesNullable(),
			inputs:  []string{"", "a", "aa", "aaa", "aaaa", "aaaaa"},
		},
		{
			// S → 'x' S 'x' | 'x' | ε
			caption: "a palindrome grammar",
			rules: []*grammar.Rule{
				rule("S", t_("x"), n_("S"), t_("x")),
				rule("S", t_("x")),
				rule("S"),
			},
			inputs: []string{"", "x", "xx", "xxx", "xxxx", "xxxxx"},
		},
		{
			// S → S 'a' | A
			// A → ε | 'a'
			caption: "left recursion over a nullable non-terminal",
			rules: []*grammar.Rule{
				rule("S", n_("S"), t_("a")),
				rule("S", n_("A")),
				rule("A"),
				rule("A", t_("a")),
			},
			inputs: []string{"", "a", "aa", "aaa"},
		},
		{
			// S → A B | B A
			// A → 'a' | ε
			// B → 'a' | A
			caption: "ambiguous empty derivations on both sides",
			rules: []*grammar.Rule{
				rule("S", n_("A"), n_("B")),
				rule("S", n_("B"), n_("A")),
				rule("A", t_("a")),
				rule("A"),
				rule("B", t_("a")),
				rule("B", n_("A")),
			},
			inputs: []string{"", "a", "aa", "aaa"},
		},
		{
			caption: "identically spelled rules",
			rules: []*grammar.Rule{
				rule("S", t_("a")),
				rule("S", t_("a")),
				rule("S", n_("S"), n_("S")),
			},
			inputs: []string{"a", "aa", "aaa"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := newTestGrammar(t, tt.rules...)
			for _, input := range tt.inputs {
				expected := countLeftmostDerivations(t, tt.rules, SplitRunes(input))

				res, err := Parse(g, SplitRunes(input))
				if err != nil {
					t.Fatal(err)
				}
				if res.ParseCount() != expected {
					t.Errorf("unexpected parse count; input: %q, want: %v, got: %v", input, expected, res.ParseCount())
				}

				rec, err := Parse(g, SplitRunes(input), DisableProduceAll())
				if err != nil {
					t.Fatal(err)
				}
				if (rec.ParseCount() == 1) != (expected > 0) {
					t.Errorf("unexpected recognition result; input: %q, derivations: %v, got: %v", input, expected, rec.ParseCount())
				}
			}
		})
	}
}

// S0 → S1 S1, S1 → S2 S2, ..., Sn → ε has one tree of the empty input. The tree shares its subtrees,
// and its unfolded size doubles at every level.
func testRulesNullableChain(depth int) []*grammar.Rule {
	var rules []*grammar.Rule
	for i := 0; i < depth; i++ {
		next := n_(fmt.Sprintf("S%v", i+1))
		rules = append(rules, rule(fmt.Sprintf("S%v", i), next, next))
	}
	return append(rules, rule(fmt.Sprintf("S%v", depth)))
}

func TestParser_Parse_DeepNullableChain(t *testing.T) {
	const depth = 64

	tests := []struct {
		caption string
		rules   []*grammar.Rule
	}{
		{
			caption: "a chain without cycles",
			rules:   testRulesNullableChain(depth),
		},
		{
			caption: "a chain whose top derives itself",
			rules:   append(testRulesNullableChain(depth), rule("S0", n_("S0"))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := newTestGrammar(t, tt.rules...)
			res, err := Parse(g, SplitRunes(""), StateLimit(100*depth))
			if err != nil {
				t.Fatal(err)
			}
			if res.ParseCount() != 1 {
				t.Fatalf("unexpected parse count; want: 1, got: %v", res.ParseCount())
			}
		})
	}
}

func TestParser_Parse_Deterministic(t *testing.T) {
	g := newTestGrammar(t, testRulesNullable()...)
	p, err := NewParser(g)
	if err != nil {
		t.Fatal(err)
	}
	format := func(res *Result) []string {
		var trees []string
		res.EachTree(func(_ int, tree *Node) bool {
			trees = append(trees, tree.Format())
			return true
		})
		return trees
	}
	res1, err := p.Parse(SplitRunes("aa"))
	if err != nil {
		t.Fatal(err)
	}
	res2, err := p.Parse(SplitRunes("aa"))
	if err != nil {
		t.Fatal(err)
	}
	if res1.Chart.StateCount() != res2.Chart.StateCount() {
		t.Fatalf("state counts differ; 1st: %v, 2nd: %v", res1.Chart.StateCount(), res2.Chart.StateCount())
	}
	trees1 := format(res1)
	trees2 := format(res2)
	if len(trees1) == 0 || len(trees1) != len(trees2) {
		t.Fatalf("tree counts differ; 1st: %v, 2nd: %v", len(trees1), len(trees2))
	}
	for i := range trees1 {
		if trees1[i] != trees2[i] {
			t.Fatalf("trees differ; 1st: %v, 2nd: %v", trees1[i], trees2[i])
		}
	}
}

func TestParser_Parse_StateLimit(t *testing.T) {
	t.Run("a cyclic grammar exhausts the limit without cycle pruning", func(t *testing.T) {
		g := newTestGrammar(t, testRulesCyclic()...)
		res, err := Parse(g, SplitRunes(""), DisableCyclePruning(), StateLimit(1000))
		if !errors.Is(err, ErrResourceExhausted) {
			t.Fatalf("unexpected error; want: %v, got: %v", ErrResourceExhausted, err)
		}
		var exhausted *ResourceExhaustedError
		if !errors.As(err, &exhausted) {
			t.Fatalf("unexpected error type: %T", err)
		}
		if exhausted.Limit != 1000 || exhausted.Pos != 0 {
			t.Fatalf("unexpected error: %+v", exhausted)
		}
		if res == nil {
			t.Fatal("a partial result must be returned")
		}
		if res.Chart.StateCount() != 1000 {
			t.Fatalf("unexpected state count; want: 1000, got: %v", res.Chart.StateCount())
		}
		if res.ParseCount() != 0 {
			t.Fatalf("a partial result must have no tree; got: %v", res.ParseCount())
		}
	})

	t.Run("a parse fitting in the limit succeeds", func(t *testing.T) {
		g := newTestGrammar(t, testRulesBinary()...)
		unlimited, err := Parse(g, SplitRunes("aaaa"))
		if err != nil {
			t.Fatal(err)
		}
		res, err := Parse(g, SplitRunes("aaaa"), StateLimit(unlimited.Chart.StateCount()))
		if err != nil {
			t.Fatal(err)
		}
		if res.ParseCount() != 5 {
			t.Fatalf("unexpected parse count; want: 5, got: %v", res.ParseCount())
		}
	})

	t.Run("a parse exceeding the limit by one state fails", func(t *testing.T) {
		g := newTestGrammar(t, testRulesBinary()...)
		unlimited, err := Parse(g, SplitRunes("aaaa"))
		if err != nil {
			t.Fatal(err)
		}
		_, err = Parse(g, SplitRunes("aaaa"), StateLimit(unlimited.Chart.StateCount()-1))
		if !errors.Is(err, ErrResourceExhausted) {
			t.Fatalf("unexpected error; want: %v, got: %v", ErrResourceExhausted, err)
		}
	})
}

func TestNewParser_Error(t *testing.T) {
	g := newTestGrammar(t, testRulesBinary()...)

	_, err := NewParser(g, StateLimit(0))
	if err == nil {
		t.Fatal("a non-positive state limit must be rejected")
	}

	_, err = NewParser(nil)
	if err == nil {
		t.Fatal("a nil grammar must be rejected")
	}
}

func TestParser_Parse_Trace(t *testing.T) {
	g := newTestGrammar(t, testRulesCyclic()...)
	res, err := Parse(g, SplitRunes(""), Trace())
	if err != nil {
		t.Fatal(err)
	}
	if res.ParseCount() != 1 {
		t.Fatalf("unexpected parse count; want: 1, got: %v", res.ParseCount())
	}
}
