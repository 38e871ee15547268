package grammar

import (
	"strconv"
	"strings"

	"github.com/nihei9/earley/grammar/symbol"
)

type RuleNum uint32

const (
	RuleNumNil   = RuleNum(0)
	RuleNumStart = RuleNum(1)
	RuleNumMin   = RuleNum(2)
)

func (n RuleNum) Int() int {
	return int(n)
}

func (n RuleNum) String() string {
	return strconv.Itoa(int(n))
}

// Rule is a production `LHS → RHS`. The RHS may be empty.
//
// A rule is identified by its instance, not by its structure. A Grammar numbers every rule instance it
// receives, so two rules spelled identically but created separately are distinct rules.
type Rule struct {
	Num RuleNum
	LHS string
	RHS []symbol.Symbol
}

// NewRule returns a rule that is not numbered yet. NewGrammar numbers it.
func NewRule(lhs string, rhs ...symbol.Symbol) *Rule {
	if rhs == nil {
		rhs = []symbol.Symbol{}
	}
	return &Rule{
		LHS: lhs,
		RHS: rhs,
	}
}

func (r *Rule) IsEmpty() bool {
	return len(r.RHS) == 0
}

func (r *Rule) IsStart() bool {
	return r.Num == RuleNumStart
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.LHS)
	b.WriteString(" →")
	if r.IsEmpty() {
		b.WriteString(" ε")
		return b.String()
	}
	for _, sym := range r.RHS {
		b.WriteString(" ")
		b.WriteString(sym.String())
	}
	return b.String()
}

// equals reports whether two rules are spelled identically. It doesn't mean they are the same rule.
func (r *Rule) equals(q *Rule) bool {
	if r.LHS != q.LHS || len(r.RHS) != len(q.RHS) {
		return false
	}
	for i, sym := range r.RHS {
		if q.RHS[i] != sym {
			return false
		}
	}
	return true
}

type ruleSet struct {
	rules     []*Rule
	lhs2Rules map[string][]*Rule
	inst2Rule map[*Rule]*Rule
	num       RuleNum
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		lhs2Rules: map[string][]*Rule{},
		inst2Rule: map[*Rule]*Rule{},
		num:       RuleNumMin,
	}
}

// append copies a rule instance and numbers the copy. When the same instance is passed again, append
// returns the existing copy and false.
func (rs *ruleSet) append(rule *Rule) (*Rule, bool) {
	if r, ok := rs.inst2Rule[rule]; ok {
		return r, false
	}

	rhs := make([]symbol.Symbol, len(rule.RHS))
	copy(rhs, rule.RHS)
	r := &Rule{
		Num: rs.num,
		LHS: rule.LHS,
		RHS: rhs,
	}
	rs.num++

	rs.rules = append(rs.rules, r)
	rs.lhs2Rules[r.LHS] = append(rs.lhs2Rules[r.LHS], r)
	rs.inst2Rule[rule] = r

	return r, true
}

func (rs *ruleSet) findByLHS(lhs string) ([]*Rule, bool) {
	rules, ok := rs.lhs2Rules[lhs]
	return rules, ok
}
