package earley

import (
	"testing"

	"github.com/nihei9/earley/grammar"
	"github.com/nihei9/earley/grammar/symbol"
)

func t_(value string) symbol.Symbol {
	return symbol.NewTerminal(value)
}

func n_(name string) symbol.Symbol {
	return symbol.NewNonTerminal(name)
}

func rule(lhs string, rhs ...symbol.Symbol) *grammar.Rule {
	return grammar.NewRule(lhs, rhs...)
}

func newTestGrammar(t *testing.T, rules ...*grammar.Rule) *grammar.Grammar {
	t.Helper()

	g, err := grammar.NewGrammar(rules)
	if err != nil {
		t.Fatalf("failed to create a grammar: %v", err)
	}
	return g
}

// Grammars used in multiple tests.
var (
	// A → A A | 'a'
	testRulesBinary = func() []*grammar.Rule {
		return []*grammar.Rule{
			rule("A", n_("A"), n_("A")),
			rule("A", t_("a")),
		}
	}

	// S → T '+' T | 'i'
	// T → S
	testRulesPlus = func() []*grammar.Rule {
		return []*grammar.Rule{
			rule("S", n_("T"), t_("+"), n_("T")),
			rule("S", t_("i")),
			rule("T", n_("S")),
		}
	}

	// S → A A A A
	// A → 'a' | ε | E
	// E → ε
	testRulesNullable = func() []*grammar.Rule {
		return []*grammar.Rule{
			rule("S", n_("A"), n_("A"), n_("A"), n_("A")),
			rule("A", t_("a")),
			rule("A"),
			rule("A", n_("E")),
			rule("E"),
		}
	}

	// S → S S | ε
	testRulesCyclic = func() []*grammar.Rule {
		return []*grammar.Rule{
			rule("S", n_("S"), n_("S")),
			rule("S"),
		}
	}
)
