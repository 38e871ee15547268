package grammar

import (
	"fmt"

	verr "github.com/nihei9/earley/error"
	"github.com/nihei9/earley/grammar/symbol"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("earley.grammar")

// Grammar is an ordered collection of rules indexed by their LHS. The start symbol is the LHS of the first
// rule unless StartSymbol option specifies another one. A Grammar is read-only once built.
type Grammar struct {
	rules     *ruleSet
	start     string
	augmented *Rule
	nullable  *nullableSet
	first     *firstSet
	cyclic    *cyclicSet
	nonTerms  []string
	terms     []string
}

type grammarConfig struct {
	start  string
	strict bool
}

type GrammarOption func(c *grammarConfig)

// StartSymbol makes `name` the start symbol instead of the LHS of the first rule.
func StartSymbol(name string) GrammarOption {
	return func(c *grammarConfig) {
		c.start = name
	}
}

// Strict makes NewGrammar fail when a production refers to a non-terminal having no rule. Without this
// option, such a non-terminal just predicts nothing and silently narrows the language.
func Strict() GrammarOption {
	return func(c *grammarConfig) {
		c.strict = true
	}
}

func NewGrammar(rules []*Rule, opts ...GrammarOption) (*Grammar, error) {
	config := &grammarConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if len(rules) == 0 {
		return nil, ErrNoRule
	}

	rs := newRuleSet()
	nonTerms := []string{}
	terms := []string{}
	{
		knownNonTerms := map[string]struct{}{}
		knownTerms := map[string]struct{}{}
		for _, rule := range rules {
			if rule == nil {
				return nil, fmt.Errorf("a rule must be non-nil")
			}
			if rule.LHS == "" {
				return nil, fmt.Errorf("the LHS of a rule must be non-empty; rule: %v", rule)
			}
			for _, sym := range rule.RHS {
				if sym.IsNil() {
					return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; rule: %v", rule)
				}
			}

			r, added := rs.append(rule)
			if !added {
				continue
			}
			if _, ok := knownNonTerms[r.LHS]; !ok {
				knownNonTerms[r.LHS] = struct{}{}
				nonTerms = append(nonTerms, r.LHS)
			}
			for _, sym := range r.RHS {
				if !sym.IsTerminal() {
					continue
				}
				if _, ok := knownTerms[sym.Text()]; ok {
					continue
				}
				knownTerms[sym.Text()] = struct{}{}
				terms = append(terms, sym.Text())
			}
		}
	}

	start := rs.rules[0].LHS
	if config.start != "" {
		if _, ok := rs.findByLHS(config.start); !ok {
			return nil, &verr.SpecError{
				Cause:  ErrUnknownStartSymbol,
				Detail: config.start,
			}
		}
		start = config.start
	}

	nullable := genNullableSet(rs)
	g := &Grammar{
		rules: rs,
		start: start,
		augmented: &Rule{
			Num: RuleNumStart,
			LHS: start + "'",
			RHS: []symbol.Symbol{symbol.NewNonTerminal(start)},
		},
		nullable: nullable,
		first:    genFirstSet(rs),
		cyclic:   genCyclicSet(rs, nullable),
		nonTerms: nonTerms,
		terms:    terms,
	}

	if config.strict {
		err := g.Validate()
		if err != nil {
			return nil, err
		}
	}

	log.Debugf("grammar built: %v rules, %v non-terminals, %v terminals, start: %v", len(rs.rules), len(nonTerms), len(terms), start)

	return g, nil
}

// Validate reports every non-terminal that appears in an RHS but has no rule.
func (g *Grammar) Validate() error {
	var errs verr.SpecErrors
	for _, name := range g.UndefinedSymbols() {
		errs = append(errs, &verr.SpecError{
			Cause:  ErrUndefinedSymbol,
			Detail: name,
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (g *Grammar) Start() string {
	return g.start
}

// AugmentedRule returns the rule `S' → S`. It is the only rule whose completion accepts an input.
func (g *Grammar) AugmentedRule() *Rule {
	return g.augmented
}

// Rules returns the rules in the order they were passed to NewGrammar. The augmented rule is not included.
func (g *Grammar) Rules() []*Rule {
	return g.rules.rules
}

// RulesByLHS returns the alternatives of a non-terminal in the order they were defined.
func (g *Grammar) RulesByLHS(name string) []*Rule {
	rules, _ := g.rules.findByLHS(name)
	return rules
}

func (g *Grammar) IsDefined(name string) bool {
	_, ok := g.rules.findByLHS(name)
	return ok
}

// Nullable reports whether a non-terminal can derive the empty sequence.
func (g *Grammar) Nullable(name string) bool {
	return g.nullable.contains(name)
}

// DerivesItself reports whether a non-terminal derives itself in one or more steps (A ⇒+ A).
func (g *Grammar) DerivesItself(name string) bool {
	return g.cyclic.contains(name)
}

// NonTerminals returns the names of the defined non-terminals in the order of their first definitions.
func (g *Grammar) NonTerminals() []string {
	return g.nonTerms
}

// Terminals returns the terminal values in the order of their first appearances.
func (g *Grammar) Terminals() []string {
	return g.terms
}

// UndefinedSymbols returns the non-terminals referred to by some RHS but having no rule, in the order of
// their first appearances.
func (g *Grammar) UndefinedSymbols() []string {
	var undefined []string
	known := map[string]struct{}{}
	for _, rule := range g.rules.rules {
		for _, sym := range rule.RHS {
			if !sym.IsNonTerminal() {
				continue
			}
			if _, ok := known[sym.Text()]; ok {
				continue
			}
			known[sym.Text()] = struct{}{}
			if !g.IsDefined(sym.Text()) {
				undefined = append(undefined, sym.Text())
			}
		}
	}
	return undefined
}
