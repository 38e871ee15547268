package grammar

import (
	verr "github.com/nihei9/earley/error"
	"github.com/nihei9/earley/grammar/symbol"
	"github.com/nihei9/earley/spec"
)

// GrammarBuilder converts a grammar description into a Grammar. Unlike NewGrammar, the builder always
// validates the description and reports problems with their positions.
type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build(opts ...GrammarOption) (*Grammar, error) {
	if b.AST == nil || len(b.AST.Productions) == 0 {
		return nil, ErrNoRule
	}

	defined := map[string]struct{}{}
	for _, prod := range b.AST.Productions {
		defined[prod.LHS] = struct{}{}
	}

	var rules []*Rule
	lhs2Rules := map[string][]*Rule{}
	for _, prod := range b.AST.Productions {
		for _, alt := range prod.RHS {
			rhs := make([]symbol.Symbol, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				if elem.ID != "" {
					if _, ok := defined[elem.ID]; !ok {
						b.errs = append(b.errs, &verr.SpecError{
							Cause:  ErrUndefinedSymbol,
							Detail: elem.ID,
							Row:    elem.Pos.Row,
							Col:    elem.Pos.Col,
						})
					}
					rhs = append(rhs, symbol.NewNonTerminal(elem.ID))
					continue
				}
				rhs = append(rhs, symbol.NewTerminal(elem.Literal))
			}

			rule := NewRule(prod.LHS, rhs...)
			if isDuplicate(lhs2Rules[prod.LHS], rule) {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  ErrDuplicateProduction,
					Detail: rule.String(),
					Row:    alt.Pos.Row,
					Col:    alt.Pos.Col,
				})
				continue
			}
			lhs2Rules[prod.LHS] = append(lhs2Rules[prod.LHS], rule)
			rules = append(rules, rule)
		}
	}
	if len(b.errs) > 0 {
		b.errs.Sort()
		return nil, b.errs
	}

	return NewGrammar(rules, append(opts, Strict())...)
}

func isDuplicate(rules []*Rule, rule *Rule) bool {
	for _, r := range rules {
		if r.equals(rule) {
			return true
		}
	}
	return false
}
