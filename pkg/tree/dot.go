// Debug export of decision trees in Graphviz dot format.
package tree

import (
	"fmt"
	"os"
	"strings"

	"github.com/thiagofelicissimo/lambdapi/pkg/logger"
)

// Dot renders the tree as a Graphviz digraph. Node labels show the swap
// column; edge labels show the constructor key taken, or "*" for the
// default branch.
func Dot(t Tree) string {
	var b strings.Builder
	b.WriteString("digraph tree {\n")
	b.WriteString("  node [shape=box];\n")
	next := 0
	fresh := func() int {
		id := next
		next++
		return id
	}
	var walk func(t Tree) int
	walk = func(t Tree) int {
		id := fresh()
		switch n := t.(type) {
		case *Leaf:
			fmt.Fprintf(&b, "  n%d [label=\"leaf %s\" shape=ellipse];\n", id, envString(n.EnvBuilder))
		case *Fail:
			fmt.Fprintf(&b, "  n%d [label=\"fail\" shape=ellipse];\n", id)
		case *Fetch:
			fmt.Fprintf(&b, "  n%d [label=\"fetch store=%v\"];\n", id, n.Store)
			child := walk(n.Next)
			fmt.Fprintf(&b, "  n%d -> n%d;\n", id, child)
		case *Node:
			fmt.Fprintf(&b, "  n%d [label=\"swap %d store=%v\"];\n", id, n.Swap, n.Store)
			for _, k := range n.Order {
				child := walk(n.Children[k])
				fmt.Fprintf(&b, "  n%d -> n%d [label=%q];\n", id, child, k.String())
			}
			if n.Default != nil {
				child := walk(n.Default)
				fmt.Fprintf(&b, "  n%d -> n%d [label=\"*\"];\n", id, child)
			}
		}
		return id
	}
	walk(t)
	b.WriteString("}\n")
	return b.String()
}

func envString(env map[int]int) string {
	if len(env) == 0 {
		return "{}"
	}
	max := 0
	for k := range env {
		if k > max {
			max = k
		}
	}
	var parts []string
	for k := 0; k <= max; k++ {
		if slot, ok := env[k]; ok {
			parts = append(parts, fmt.Sprintf("%d>%d", k, slot))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// WriteDot writes the dot rendering of t to path
func WriteDot(path string, t Tree) error {
	if err := os.WriteFile(path, []byte(Dot(t)), 0644); err != nil {
		return err
	}
	logger.LogDotExport(path)
	return nil
}
