package earley

import (
	"fmt"

	"github.com/nihei9/earley/grammar"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("earley")

type ParserOption func(p *Parser) error

// DisableProduceAll makes a parser a recognizer. States are identified without their back pointers, so
// the chart stays polynomial but each accepting state yields only one tree.
func DisableProduceAll() ParserOption {
	return func(p *Parser) error {
		p.produceAll = false
		return nil
	}
}

// StateLimit stops a parse with *ResourceExhaustedError when the chart is about to hold more than `n`
// states.
func StateLimit(n int) ParserOption {
	return func(p *Parser) error {
		if n <= 0 {
			return fmt.Errorf("a state limit must be positive: %v", n)
		}
		p.stateLimit = n
		return nil
	}
}

// DisableCyclePruning keeps done states whose derivations contain the same non-terminal over the same
// span. With a cyclic grammar such as `S → S S | ε`, a parse doesn't terminate without StateLimit.
func DisableCyclePruning() ParserOption {
	return func(p *Parser) error {
		p.cyclePruning = false
		return nil
	}
}

// Trace logs every prediction, scan, and completion at the debug level.
func Trace() ParserOption {
	return func(p *Parser) error {
		p.trace = true
		return nil
	}
}

// Parser is reusable and holds no state of a parse. Parse can be called concurrently.
type Parser struct {
	gram         *grammar.Grammar
	produceAll   bool
	cyclePruning bool
	stateLimit   int
	trace        bool
}

func NewParser(gram *grammar.Grammar, opts ...ParserOption) (*Parser, error) {
	if gram == nil {
		return nil, fmt.Errorf("a grammar must be non-nil")
	}

	p := &Parser{
		gram:         gram,
		produceAll:   true,
		cyclePruning: true,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse is a shorthand for NewParser followed by (*Parser).Parse.
func Parse(gram *grammar.Grammar, input []string, opts ...ParserOption) (*Result, error) {
	p, err := NewParser(gram, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(input)
}

// Parse builds a chart over `input`, a sequence of terminal values. A rejected input is not an error; it
// results in a Result whose ParseCount is 0. When the state limit is reached, Parse returns the partial
// Result together with *ResourceExhaustedError.
func (p *Parser) Parse(input []string) (*Result, error) {
	ps := &parsing{
		Parser: p,
		input:  input,
		chart:  newChart(len(input)),
	}
	err := ps.run()

	res := &Result{
		Chart: ps.chart,
		input: input,
	}
	if err != nil {
		log.Debugf("parse stopped: %v", err)
		return res, err
	}
	res.accepted = ps.accepted()

	log.Debugf("parsed: %v symbols, %v states, %v parses", len(input), ps.chart.StateCount(), len(res.accepted))

	return res, nil
}

// parsing holds the state of one parse.
type parsing struct {
	*Parser
	input []string
	chart *Chart
	pos   int
}

func (ps *parsing) run() error {
	err := ps.add(newState(ps.gram.AugmentedRule(), 0, 0, 0, nil))
	if err != nil {
		return err
	}

	for ps.pos = 0; ps.pos < ps.chart.Len(); ps.pos++ {
		cell := ps.chart.Cell(ps.pos)
		// The bound is re-read every iteration because the steps append states to this cell.
		for i := 0; i < cell.Len(); i++ {
			s := cell.State(i)
			var err error
			switch {
			case s.Done():
				err = ps.complete(s)
			case s.Next().IsNonTerminal():
				err = ps.predict(s)
			default:
				err = ps.scan(s)
			}
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (ps *parsing) predict(s *State) error {
	name := s.Next().Text()
	for _, rule := range ps.gram.RulesByLHS(name) {
		err := ps.add(newState(rule, 0, ps.pos, ps.pos, nil))
		if err != nil {
			return err
		}
	}

	// A non-terminal completed over no input before `s` was added doesn't wake `s` up by completion, so
	// `s` is advanced over such done states here.
	if !ps.gram.Nullable(name) {
		return nil
	}
	cell := ps.chart.Cell(ps.pos)
	for i := 0; i < cell.Len(); i++ {
		c := cell.State(i)
		if !c.Done() || c.origin != ps.pos || c.rule.LHS != name {
			continue
		}
		err := ps.add(s.advance(ps.pos, c))
		if err != nil {
			return err
		}
	}
	return nil
}

func (ps *parsing) scan(s *State) error {
	if ps.pos >= len(ps.input) {
		return nil
	}
	if s.Next().Text() != ps.input[ps.pos] {
		return nil
	}
	return ps.add(s.advance(ps.pos+1, nil))
}

func (ps *parsing) complete(s *State) error {
	if s.rule.IsStart() {
		return nil
	}
	cell := ps.chart.Cell(s.origin)
	for i := 0; i < cell.Len(); i++ {
		caller := cell.State(i)
		if caller.Done() {
			continue
		}
		next := caller.Next()
		if !next.IsNonTerminal() || next.Text() != s.rule.LHS {
			continue
		}
		err := ps.add(caller.advance(ps.pos, s))
		if err != nil {
			return err
		}
	}
	return nil
}

func (ps *parsing) add(s *State) error {
	if ps.produceAll && ps.cyclePruning && s.Done() && ps.gram.DerivesItself(s.rule.LHS) && s.derivesItself() {
		if ps.trace {
			log.Debugf("prune: %v %v-%v", s, s.origin, s.end)
		}
		return nil
	}
	if ps.stateLimit > 0 && ps.chart.StateCount() >= ps.stateLimit {
		if _, ok := ps.chart.Cell(s.end).index[s.key(ps.produceAll)]; ok {
			return nil
		}
		return &ResourceExhaustedError{
			Limit: ps.stateLimit,
			Pos:   ps.pos,
		}
	}
	ok := ps.chart.insert(s, ps.produceAll)
	if ok && ps.trace {
		log.Debugf("add: #%v %v in %v", s.id, s, s.end)
	}
	return nil
}

// accepted returns the done states of the augmented rule in the last cell.
func (ps *parsing) accepted() []*State {
	var states []*State
	last := ps.chart.Cell(ps.chart.Len() - 1)
	for _, s := range last.States() {
		if s.rule.IsStart() && s.Done() {
			states = append(states, s)
		}
	}
	return states
}
