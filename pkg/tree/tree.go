// Package tree compiles the rewrite rules of a head symbol into a
// decision tree.
//
// Design: a clause matrix (rows = rules, columns = argument slots) is
// reduced column by column; each step either switches on the most
// discriminating column or, once the first row holds no constructor,
// selects that row and emits the trailing fetch chain. Leaves carry the
// slot map that instantiates the right-hand side from the capture buffer.
package tree

import "github.com/thiagofelicissimo/lambdapi/pkg/term"

// Tree is a compiled decision tree node
type Tree interface {
	tree()
}

// Leaf selects a rule. EnvBuilder maps capture-buffer indices to slots of
// the right-hand side binder.
type Leaf struct {
	EnvBuilder map[int]int
	RHS        *term.MBinder
}

func (*Leaf) tree() {}

// Fail means no rule applies on this path
type Fail struct{}

func (*Fail) tree() {}

// Node switches on the argument at column Swap. If Store holds, the
// inspected term is pushed onto the capture buffer before descending.
// Order records the insertion order of Children for deterministic
// iteration.
type Node struct {
	Swap     int
	Store    bool
	Children map[Key]Tree
	Order    []Key
	Default  Tree
}

func (*Node) tree() {}

// Fetch unconditionally consumes the next term of the residual stack,
// capturing it when Store holds
type Fetch struct {
	Store bool
	Next  Tree
}

func (*Fetch) tree() {}

// Folder bundles the per-variant handlers of a tree fold
type Folder[T any] struct {
	Leaf  func(*Leaf) T
	Fail  func(*Fail) T
	Node  func(n *Node, children []T, deflt *T) T
	Fetch func(f *Fetch, next T) T
}

// Fold reduces a tree bottom-up. Children are folded in insertion order;
// deflt is nil when the node has no default subtree.
func Fold[T any](t Tree, f Folder[T]) T {
	switch n := t.(type) {
	case *Leaf:
		return f.Leaf(n)
	case *Fail:
		return f.Fail(n)
	case *Fetch:
		return f.Fetch(n, Fold(n.Next, f))
	case *Node:
		children := make([]T, 0, len(n.Order))
		for _, k := range n.Order {
			children = append(children, Fold(n.Children[k], f))
		}
		var deflt *T
		if n.Default != nil {
			d := Fold(n.Default, f)
			deflt = &d
		}
		return f.Node(n, children, deflt)
	default:
		panic("tree: unknown tree node")
	}
}

// Iter walks every node of a tree, invoking the matching handler. Nil
// handlers are skipped.
func Iter(t Tree, leaf func(*Leaf), fail func(*Fail), node func(*Node), fetch func(*Fetch)) {
	Fold(t, Folder[struct{}]{
		Leaf: func(l *Leaf) struct{} {
			if leaf != nil {
				leaf(l)
			}
			return struct{}{}
		},
		Fail: func(f *Fail) struct{} {
			if fail != nil {
				fail(f)
			}
			return struct{}{}
		},
		Node: func(n *Node, _ []struct{}, _ *struct{}) struct{} {
			if node != nil {
				node(n)
			}
			return struct{}{}
		},
		Fetch: func(f *Fetch, _ struct{}) struct{} {
			if fetch != nil {
				fetch(f)
			}
			return struct{}{}
		},
	})
}

// Capacity bounds the number of entries any execution of the tree can
// place in the capture buffer
func Capacity(t Tree) int {
	return Fold(t, Folder[int]{
		Leaf: func(*Leaf) int { return 0 },
		Fail: func(*Fail) int { return 0 },
		Node: func(n *Node, children []int, deflt *int) int {
			depth := 0
			if deflt != nil {
				depth = *deflt
			}
			for _, c := range children {
				if c > depth {
					depth = c
				}
			}
			if n.Store {
				depth++
			}
			return depth
		},
		Fetch: func(f *Fetch, next int) int {
			if f.Store {
				return next + 1
			}
			return next
		},
	})
}
