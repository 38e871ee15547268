package test

import (
	"bytes"
	"fmt"

	"github.com/nihei9/earley/earley"
	"github.com/nihei9/earley/grammar/symbol"
)

// Wildcard is a kind matching any non-terminal.
const Wildcard = "_"

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// Tree is an expected parse tree. A terminal tree has Lexeme and no Kind.
type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Children []*Tree
	Lexeme   string
	Terminal bool
}

func NewNonTerminalTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func NewTerminalTree(lexeme string) *Tree {
	return &Tree{
		Lexeme:   lexeme,
		Terminal: true,
	}
}

// ConvertNode makes a tree of a parse tree.
func ConvertNode(node *earley.Node) *Tree {
	if node.Type == earley.NodeTypeTerminal {
		return NewTerminalTree(node.Text)
	}
	children := make([]*Tree, len(node.Children))
	for i, c := range node.Children {
		children[i] = ConvertNode(c)
	}
	return NewNonTerminalTree(node.KindName, children...)
}

func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) label() string {
	if t.Terminal {
		return symbol.NewTerminal(t.Lexeme).String()
	}
	return t.Kind
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.label()
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.label())
}

// Format returns the tree in the notation of a test case file, one node per line.
func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	if t.Terminal {
		buf.WriteString(t.label())
		return
	}
	buf.WriteString("(")
	buf.WriteString(t.Kind)
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected.Terminal != actual.Terminal {
		msg := fmt.Sprintf("unexpected node: expected %v but got %v", expected.label(), actual.label())
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if expected.Terminal {
		if expected.Lexeme != actual.Lexeme {
			msg := fmt.Sprintf("unexpected lexeme: expected %v but got %v", expected.label(), actual.label())
			return []*TreeDiff{
				newTreeDiff(expected, actual, msg),
			}
		}
		return nil
	}
	if expected.Kind != Wildcard && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}
