package earley

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nihei9/earley/grammar"
	"github.com/nihei9/earley/grammar/symbol"
)

// Result is the outcome of a parse. Trees are built from the accepting states on demand.
type Result struct {
	Chart *Chart

	input    []string
	accepted []*State
}

// ParseCount returns the number of accepting states. In the produce-all mode, it is the number of distinct
// parse trees.
func (r *Result) ParseCount() int {
	return len(r.accepted)
}

func (r *Result) Accepted() []*State {
	return r.accepted
}

// Forest returns all trees in the order their accepting states were added to the chart.
func (r *Result) Forest() []*Node {
	trees := make([]*Node, 0, len(r.accepted))
	r.EachTree(func(_ int, tree *Node) bool {
		trees = append(trees, tree)
		return true
	})
	return trees
}

// EachTree builds the trees one at a time and passes them to `f` until `f` returns false.
func (r *Result) EachTree(f func(i int, tree *Node) bool) {
	for i, s := range r.accepted {
		if !f(i, newTree(s)) {
			return
		}
	}
}

// Tree returns the i-th tree or nil when i is out of range.
func (r *Result) Tree(i int) *Node {
	if i < 0 || i >= len(r.accepted) {
		return nil
	}
	return newTree(r.accepted[i])
}

// newTree builds a tree rooted at the start symbol from an accepting state `S' → S •`.
func newTree(accepted *State) *Node {
	return newNonTerminalNode(accepted.backPointers[0])
}

func newNonTerminalNode(s *State) *Node {
	node := &Node{
		Type:     NodeTypeNonTerminal,
		KindName: s.rule.LHS,
		Pos:      s.origin,
		End:      s.end,
		Rule:     s.rule,
		Children: make([]*Node, 0, len(s.backPointers)),
	}
	pos := s.origin
	for k, bp := range s.backPointers {
		if bp == nil {
			node.Children = append(node.Children, &Node{
				Type: NodeTypeTerminal,
				Text: s.rule.RHS[k].Text(),
				Pos:  pos,
				End:  pos + 1,
			})
			pos++
			continue
		}
		node.Children = append(node.Children, newNonTerminalNode(bp))
		pos = bp.end
	}
	return node
}

type NodeType int

const (
	NodeTypeTerminal    = NodeType(1)
	NodeTypeNonTerminal = NodeType(2)
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeTerminal:
		return "terminal"
	case NodeTypeNonTerminal:
		return "non-terminal"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Node is a node of a parse tree. A terminal node has Text, and a non-terminal node has KindName, Rule, and
// Children. Pos and End are the input positions the node covers.
type Node struct {
	Type     NodeType
	KindName string
	Text     string
	Pos      int
	End      int
	Rule     *grammar.Rule
	Children []*Node
}

// Leaves returns the terminal nodes from left to right.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == NodeTypeTerminal {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return leaves
}

// Yield returns the input symbols the node derives.
func (n *Node) Yield() []string {
	leaves := n.Leaves()
	yield := make([]string, len(leaves))
	for i, l := range leaves {
		yield[i] = l.Text
	}
	return yield
}

// Format returns the tree as a single-line S-expression such as `(S (T (S 'i')) '+' (T (S 'i')))`.
func (n *Node) Format() string {
	var b strings.Builder
	n.format(&b)
	return b.String()
}

func (n *Node) format(b *strings.Builder) {
	if n.Type == NodeTypeTerminal {
		b.WriteString(symbol.NewTerminal(n.Text).String())
		return
	}
	b.WriteString("(")
	b.WriteString(n.KindName)
	for _, c := range n.Children {
		b.WriteString(" ")
		c.format(b)
	}
	b.WriteString(")")
}

func (n *Node) String() string {
	return n.Format()
}

func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case NodeTypeTerminal:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
			Pos  int    `json:"pos"`
		}{
			Type: n.Type.String(),
			Text: n.Text,
			Pos:  n.Pos,
		})
	case NodeTypeNonTerminal:
		var rule string
		if n.Rule != nil {
			rule = n.Rule.String()
		}
		return json.Marshal(struct {
			Type     string  `json:"type"`
			KindName string  `json:"kind_name"`
			Rule     string  `json:"rule,omitempty"`
			Pos      int     `json:"pos"`
			End      int     `json:"end"`
			Children []*Node `json:"children"`
		}{
			Type:     n.Type.String(),
			KindName: n.KindName,
			Rule:     rule,
			Pos:      n.Pos,
			End:      n.End,
			Children: n.Children,
		})
	default:
		return nil, fmt.Errorf("invalid node type: %v", n.Type)
	}
}
