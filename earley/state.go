package earley

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/nihei9/earley/grammar"
	"github.com/nihei9/earley/grammar/symbol"
)

// State is a dotted rule `[A → α • β, origin]` located in the cell `end`. The k-th back pointer records how
// the k-th RHS symbol was matched: nil for a terminal, otherwise the done state that derived the
// non-terminal. A state never changes once it is inserted into a chart.
type State struct {
	id           int
	rule         *grammar.Rule
	dot          int
	origin       int
	end          int
	backPointers []*State
}

func newState(rule *grammar.Rule, dot int, origin int, end int, backPointers []*State) *State {
	if dot < 0 || dot > len(rule.RHS) {
		panic(fmt.Errorf("a dot is out of range; rule: %v, dot: %v", rule, dot))
	}
	if len(backPointers) != dot {
		panic(fmt.Errorf("the number of back pointers must equal the dot; rule: %v, dot: %v, back pointers: %v", rule, dot, len(backPointers)))
	}
	return &State{
		rule:         rule,
		dot:          dot,
		origin:       origin,
		end:          end,
		backPointers: backPointers,
	}
}

// advance returns a state whose dot moves forward over the next symbol. `bp` is nil when the next symbol
// is a terminal.
func (s *State) advance(end int, bp *State) *State {
	bps := make([]*State, len(s.backPointers)+1)
	copy(bps, s.backPointers)
	bps[len(s.backPointers)] = bp
	return newState(s.rule, s.dot+1, s.origin, end, bps)
}

// ID is assigned in insertion order when a state enters a chart. IDs are unique within one parse.
func (s *State) ID() int {
	return s.id
}

func (s *State) Rule() *grammar.Rule {
	return s.rule
}

func (s *State) Dot() int {
	return s.dot
}

func (s *State) Origin() int {
	return s.origin
}

func (s *State) End() int {
	return s.end
}

func (s *State) BackPointers() []*State {
	return s.backPointers
}

func (s *State) Done() bool {
	return s.dot == len(s.rule.RHS)
}

// Next returns the symbol following the dot, or symbol.SymbolNil when the state is done.
func (s *State) Next() symbol.Symbol {
	if s.Done() {
		return symbol.SymbolNil
	}
	return s.rule.RHS[s.dot]
}

func (s *State) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(s.rule.LHS)
	b.WriteString(" →")
	for i, sym := range s.rule.RHS {
		if i == s.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(sym.String())
	}
	if s.Done() {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, ", %v]", s.origin)
	return b.String()
}

// derivesItself reports whether a done state has a descendant having the same LHS and the same span.
// Such a descendant can be reached only through children spanning the whole input of the state, and
// a derivation containing it belongs to an infinite family of derivations of the same input.
func (s *State) derivesItself() bool {
	visited := map[*State]struct{}{}
	var walk func(n *State) bool
	walk = func(n *State) bool {
		for _, c := range n.backPointers {
			if c == nil || c.origin != s.origin || c.end != s.end {
				continue
			}
			if c.rule.LHS == s.rule.LHS {
				return true
			}
			if _, ok := visited[c]; ok {
				continue
			}
			visited[c] = struct{}{}
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(s)
}

// stateKey identifies a state within a cell. bps is empty in recognition mode.
type stateKey struct {
	num    grammar.RuleNum
	dot    int
	origin int
	bps    string
}

func (s *State) key(withBackPointers bool) stateKey {
	k := stateKey{
		num:    s.rule.Num,
		dot:    s.dot,
		origin: s.origin,
	}
	if !withBackPointers || len(s.backPointers) == 0 {
		return k
	}
	buf := make([]byte, 0, len(s.backPointers)*2)
	for _, bp := range s.backPointers {
		if bp == nil {
			buf = binary.AppendUvarint(buf, 0)
			continue
		}
		buf = binary.AppendUvarint(buf, uint64(bp.id)+1)
	}
	k.bps = string(buf)
	return k
}
