// Package tree - shared test fixtures: term builders and a small
// stack-machine evaluator that drives compiled trees the way the
// reduction engine does.
package tree

import (
	"testing"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
)

func sym(name string) term.Term {
	return &term.Symb{Sym: &term.Sym{Name: name}}
}

func app(head term.Term, args ...term.Term) term.Term {
	return term.AddArgs(head, args)
}

func patt(slot int, name string, env ...term.Term) term.Term {
	return &term.Patt{Slot: slot, Name: name, Env: env}
}

func bvar(i int, name string) term.Term {
	return &term.BVar{Index: i, Name: name}
}

func mbinder(body term.Term, names ...string) *term.MBinder {
	return &term.MBinder{Names: names, Body: body}
}

// natRules is the running example: plus-like rules over Z and S
//
//	f Z (S $m) --> S $m
//	f $n Z     --> $n
//	f (S $n) (S $m) --> S (S $m)
func natRules() []Rule {
	z := sym("Z")
	s := func(t term.Term) term.Term { return app(sym("S"), t) }
	return []Rule{
		{
			LHS:  []term.Term{z, s(patt(0, "m"))},
			RHS:  mbinder(s(bvar(0, "m")), "m"),
			Vars: []VarMeta{{Name: "m"}},
		},
		{
			LHS:  []term.Term{patt(0, "n"), z},
			RHS:  mbinder(bvar(0, "n"), "n"),
			Vars: []VarMeta{{Name: "n"}},
		},
		{
			LHS:  []term.Term{app(sym("S"), patt(term.NoSlot, "n")), s(patt(0, "m"))},
			RHS:  mbinder(s(s(bvar(0, "m"))), "m"),
			Vars: []VarMeta{{Name: "n"}, {Name: "m"}},
		},
	}
}

// runTree executes a compiled tree against an argument stack, mirroring
// the reduction engine: Node splices the inspected term's arguments in
// place of the inspected column, Fetch consumes one stack term, Leaf
// instantiates the right-hand side from the capture buffer. It returns
// the instantiated RHS, whether a rule applied, and the peak capture
// buffer size observed.
func runTree(t *testing.T, tr Tree, stack []term.Term) (term.Term, bool, int) {
	t.Helper()
	var buf []term.Term
	peak := 0
	note := func() {
		if len(buf) > peak {
			peak = len(buf)
		}
	}

	stack = append([]term.Term{}, stack...)
	cur := tr
	for {
		switch n := cur.(type) {
		case *Fail:
			return nil, false, peak
		case *Leaf:
			env := make([]term.Term, n.RHS.Arity())
			for k, slot := range n.EnvBuilder {
				env[slot] = buf[k]
			}
			return n.RHS.Subst(env), true, peak
		case *Fetch:
			if len(stack) == 0 {
				t.Fatalf("fetch on empty stack")
			}
			u := stack[0]
			stack = stack[1:]
			if n.Store {
				buf = append(buf, u)
				note()
			} else if a, ok := u.(*term.Abst); ok {
				_, body := a.Body.Unbind()
				stack = append([]term.Term{body}, stack...)
			}
			cur = n.Next
		case *Node:
			if n.Swap >= len(stack) {
				t.Fatalf("node swap %d out of range (stack %d)", n.Swap, len(stack))
			}
			u := stack[n.Swap]
			if n.Store {
				buf = append(buf, u)
				note()
			}
			var child Tree
			ok := false
			if IsTreeCons(u) {
				child, ok = n.Children[KeyOf(u)]
			}
			if ok {
				_, args := term.GetArgs(u)
				spliced := make([]term.Term, 0, len(stack)-1+len(args))
				spliced = append(spliced, stack[:n.Swap]...)
				spliced = append(spliced, args...)
				spliced = append(spliced, stack[n.Swap+1:]...)
				stack = spliced
				cur = child
				continue
			}
			if n.Default == nil {
				return nil, false, peak
			}
			dropped := make([]term.Term, 0, len(stack)-1)
			dropped = append(dropped, stack[:n.Swap]...)
			dropped = append(dropped, stack[n.Swap+1:]...)
			stack = dropped
			cur = n.Default
		default:
			t.Fatalf("unknown tree node %T", cur)
		}
	}
}
