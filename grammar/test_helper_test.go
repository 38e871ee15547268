package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/earley/grammar/symbol"
	"github.com/nihei9/earley/spec"
)

func t_(text string) symbol.Symbol {
	return symbol.NewTerminal(text)
}

func n_(text string) symbol.Symbol {
	return symbol.NewNonTerminal(text)
}

func buildTestGrammar(t *testing.T, src string, opts ...GrammarOption) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse a grammar: %v", err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build(opts...)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return g
}
