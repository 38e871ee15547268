package earley

import (
	"fmt"
	"io"
	"strings"
)

// PrintTree prints a tree with ruled lines.
func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	switch node.Type {
	case NodeTypeTerminal:
		fmt.Fprintf(w, "%v%#v\n", ruledLine, node.Text)
	case NodeTypeNonTerminal:
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)

		num := len(node.Children)
		for i, child := range node.Children {
			var line string
			if num > 1 && i < num-1 {
				line = "├─ "
			} else {
				line = "└─ "
			}

			var prefix string
			if i >= num-1 {
				prefix = "   "
			} else {
				prefix = "│  "
			}

			printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
		}
	}
}

const ruleTreeIndent = "  "

// PrintRuleTree prints the rule of each non-terminal node, indented by depth, with the matched terminals
// one level deeper than the rule matching them.
func PrintRuleTree(w io.Writer, node *Node) {
	printRuleTree(w, node, 0)
}

func printRuleTree(w io.Writer, node *Node, depth int) {
	if node == nil {
		return
	}
	prefix := strings.Repeat(ruleTreeIndent, depth)
	if node.Type == NodeTypeTerminal {
		fmt.Fprintf(w, "%v%v\n", prefix, node.Text)
		return
	}
	if node.Rule != nil {
		fmt.Fprintf(w, "%v%v\n", prefix, node.Rule)
	} else {
		fmt.Fprintf(w, "%v%v\n", prefix, node.KindName)
	}
	for _, c := range node.Children {
		printRuleTree(w, c, depth+1)
	}
}

// PrintChart prints every cell of a chart. Each state is followed by the IDs of its back pointers, and `-`
// stands for a matched terminal.
func PrintChart(w io.Writer, chart *Chart) {
	for i := 0; i < chart.Len(); i++ {
		cell := chart.Cell(i)
		fmt.Fprintf(w, "cell %v: %v states\n", cell.Pos(), cell.Len())
		for _, s := range cell.States() {
			fmt.Fprintf(w, "    #%v %v", s.ID(), s)
			if len(s.BackPointers()) > 0 {
				bps := make([]string, len(s.BackPointers()))
				for k, bp := range s.BackPointers() {
					if bp == nil {
						bps[k] = "-"
						continue
					}
					bps[k] = fmt.Sprintf("#%v", bp.ID())
				}
				fmt.Fprintf(w, " (%v)", strings.Join(bps, " "))
			}
			fmt.Fprintln(w)
		}
	}
}
