// Package ebnf reads grammars written in the EBNF dialect of golang.org/x/exp/ebnf and converts them into
// plain rules. Groups, options, repetitions, and character ranges are replaced with generated
// non-terminals.
package ebnf

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/nihei9/earley/grammar"
	"github.com/nihei9/earley/grammar/symbol"
	xebnf "golang.org/x/exp/ebnf"
)

// Load reads an EBNF file and builds a grammar whose start symbol is `start`.
func Load(path string, start string, opts ...grammar.GrammarOption) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(path, f, start, opts...)
}

// Parse parses and verifies an EBNF grammar and builds a grammar whose start symbol is `start`.
func Parse(filename string, src io.Reader, start string, opts ...grammar.GrammarOption) (*grammar.Grammar, error) {
	g, err := xebnf.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	err = xebnf.Verify(g, start)
	if err != nil {
		return nil, err
	}
	rules, err := Convert(g, start)
	if err != nil {
		return nil, err
	}
	return grammar.NewGrammar(rules, append(opts, grammar.Strict())...)
}

// Convert turns the productions of `g` into rules. The rules of `start` come first, and the others follow
// in the order of their names. Generated non-terminals are named after the production containing them,
// such as `expr_opt1`, and their rules come last.
func Convert(g xebnf.Grammar, start string) ([]*grammar.Rule, error) {
	if _, ok := g[start]; !ok {
		return nil, fmt.Errorf("no start production: %v", start)
	}

	names := make([]string, 0, len(g))
	for name := range g {
		if name == start {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	names = append([]string{start}, names...)

	c := &converter{
		g:      g,
		counts: map[string]int{},
	}
	for _, name := range names {
		prod := g[name]
		alts, err := c.alternatives(name, prod.Expr)
		if err != nil {
			return nil, err
		}
		for _, alt := range alts {
			c.rules = append(c.rules, grammar.NewRule(name, alt...))
		}
	}

	return append(c.rules, c.generated...), nil
}

type converter struct {
	g         xebnf.Grammar
	rules     []*grammar.Rule
	generated []*grammar.Rule
	counts    map[string]int
}

// alternatives returns the RHSs an expression stands for.
func (c *converter) alternatives(owner string, expr xebnf.Expression) ([][]symbol.Symbol, error) {
	switch x := expr.(type) {
	case nil:
		return [][]symbol.Symbol{{}}, nil
	case xebnf.Alternative:
		var alts [][]symbol.Symbol
		for _, e := range x {
			as, err := c.alternatives(owner, e)
			if err != nil {
				return nil, err
			}
			alts = append(alts, as...)
		}
		return alts, nil
	case xebnf.Sequence:
		seq := make([]symbol.Symbol, 0, len(x))
		for _, e := range x {
			sym, err := c.symbol(owner, e)
			if err != nil {
				return nil, err
			}
			seq = append(seq, sym)
		}
		return [][]symbol.Symbol{seq}, nil
	}

	sym, err := c.symbol(owner, expr)
	if err != nil {
		return nil, err
	}
	return [][]symbol.Symbol{{sym}}, nil
}

// symbol returns a single symbol standing for an expression.
func (c *converter) symbol(owner string, expr xebnf.Expression) (symbol.Symbol, error) {
	switch x := expr.(type) {
	case *xebnf.Name:
		return symbol.NewNonTerminal(x.String), nil
	case *xebnf.Token:
		return symbol.NewTerminal(x.String), nil
	case *xebnf.Group:
		return c.generate(owner, "grp", x.Body, false)
	case *xebnf.Option:
		return c.generate(owner, "opt", x.Body, true)
	case *xebnf.Repetition:
		return c.generateRepetition(owner, x.Body)
	case *xebnf.Range:
		return c.generateRange(owner, x)
	case xebnf.Alternative, xebnf.Sequence:
		return c.generate(owner, "grp", x, false)
	case *xebnf.Bad:
		return symbol.SymbolNil, fmt.Errorf("%v: %v", x.Pos(), x.Error)
	}
	return symbol.SymbolNil, fmt.Errorf("%v: unsupported expression: %T", expr.Pos(), expr)
}

// generate makes `N → body` and, when `empty` is true, `N → ε`.
func (c *converter) generate(owner string, kind string, body xebnf.Expression, empty bool) (symbol.Symbol, error) {
	name := c.freshName(owner, kind)
	alts, err := c.alternatives(owner, body)
	if err != nil {
		return symbol.SymbolNil, err
	}
	for _, alt := range alts {
		c.generated = append(c.generated, grammar.NewRule(name, alt...))
	}
	if empty {
		c.generated = append(c.generated, grammar.NewRule(name))
	}
	return symbol.NewNonTerminal(name), nil
}

// generateRepetition makes `N → ε | N body`.
func (c *converter) generateRepetition(owner string, body xebnf.Expression) (symbol.Symbol, error) {
	name := c.freshName(owner, "rep")
	self := symbol.NewNonTerminal(name)
	alts, err := c.alternatives(owner, body)
	if err != nil {
		return symbol.SymbolNil, err
	}
	c.generated = append(c.generated, grammar.NewRule(name))
	for _, alt := range alts {
		rhs := append([]symbol.Symbol{self}, alt...)
		c.generated = append(c.generated, grammar.NewRule(name, rhs...))
	}
	return self, nil
}

// generateRange makes one rule per character of a range such as `"a" … "z"`.
func (c *converter) generateRange(owner string, r *xebnf.Range) (symbol.Symbol, error) {
	begin := []rune(r.Begin.String)
	end := []rune(r.End.String)
	if len(begin) != 1 || len(end) != 1 || begin[0] > end[0] {
		return symbol.SymbolNil, fmt.Errorf("%v: invalid character range: %q … %q", r.Pos(), r.Begin.String, r.End.String)
	}
	name := c.freshName(owner, "rng")
	for ch := begin[0]; ch <= end[0]; ch++ {
		c.generated = append(c.generated, grammar.NewRule(name, symbol.NewTerminal(string(ch))))
	}
	return symbol.NewNonTerminal(name), nil
}

func (c *converter) freshName(owner string, kind string) string {
	for {
		key := owner + "_" + kind
		c.counts[key]++
		name := fmt.Sprintf("%v%v", key, c.counts[key])
		if _, ok := c.g[name]; !ok {
			return name
		}
	}
}
