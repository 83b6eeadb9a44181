// Decision-tree compilation: matrix reduction and the trailing fetch
// chain.
package tree

import (
	"fmt"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
)

// Compile builds the decision tree of an ordered rule set sharing a head
// symbol. Row order is rule priority: when several rules match, the
// first surviving row wins.
func Compile(rules []Rule) Tree {
	return CompileMatrix(OfRules(rules))
}

// CompileMatrix reduces a clause matrix to a tree
func CompileMatrix(m *Matrix) Tree {
	if m.IsEmpty() {
		return &Fail{}
	}
	if m.Exhausted() {
		return compileLeaf(m)
	}

	candidates := m.DiscardConsFree()
	if len(candidates) == 0 {
		panic("tree: non-exhausted matrix with no switchable column")
	}
	ci := candidates[m.PickBestAmong(candidates)]
	col := m.GetCol(ci)
	store := InRHS(col)

	catalogue := append(m.VarPos(ci), m.varCatalogue...)

	children := make(map[Key]Tree)
	var order []Key
	for _, c := range GetCons(col) {
		k := KeyOf(c)
		sub := &Matrix{
			clauses:      Specialize(c, ci, m.clauses),
			varCatalogue: catalogue,
		}
		children[k] = CompileMatrix(sub)
		order = append(order, k)
	}

	var deflt Tree
	if rows := Default(ci, m.clauses); len(rows) > 0 {
		deflt = CompileMatrix(&Matrix{clauses: rows, varCatalogue: catalogue})
	}

	return &Node{Swap: ci, Store: store, Children: children, Order: order, Default: deflt}
}

// compileLeaf resolves an exhausted matrix: the first row wins. The
// catalogue, reversed into capture order, yields the slot map for every
// position the right-hand side needs; the fetch chain then retrieves the
// pattern variables never visited during switching.
func compileLeaf(m *Matrix) Tree {
	r := m.clauses[0]
	env := make(map[int]int)
	depth := len(m.varCatalogue)
	for i := 0; i < depth; i++ {
		// earliest capture sits at buffer index 0
		p := m.varCatalogue[depth-1-i]
		if slot, ok := r.vars[p.Key()]; ok {
			env[i] = slot
		}
		// positions captured for other rules are simply discarded
	}
	if len(env) > len(r.vars) {
		panic("tree: environment larger than the rule's variable map")
	}
	return buildFetch(r.lhs, depth, env, r.rhs)
}

// buildFetch builds the linear chain consuming the remaining cells until
// every RHS slot is filled. depth is the number of terms already sitting
// in the capture buffer.
func buildFetch(cells []Cell, depth int, env map[int]int, rhs *term.MBinder) Tree {
	missing := rhs.Arity() - len(env)
	queue := make([]term.Term, 0, len(cells))
	for _, c := range cells {
		queue = append(queue, c.Term)
	}

	added := 0
	var walk func(queue []term.Term) Tree
	walk = func(queue []term.Term) Tree {
		if added == missing {
			return &Leaf{EnvBuilder: env, RHS: rhs}
		}
		if len(queue) == 0 {
			panic("tree: fetch ran out of cells before filling the environment")
		}
		t, rest := queue[0], queue[1:]
		head, args := term.GetArgs(term.Unfold(t))
		switch h := head.(type) {
		case *term.Patt:
			next := append(append([]term.Term{}, args...), rest...)
			if h.InRHS() && !slotAssigned(env, h.Slot) {
				env[depth+added] = h.Slot
				added++
				return &Fetch{Store: true, Next: walk(next)}
			}
			// anonymous, or a non-linear occurrence of a slot already
			// captured; the convertibility check happens at reduction
			return &Fetch{Store: false, Next: walk(next)}
		case *term.Abst:
			_, body := h.Body.Unbind()
			next := append([]term.Term{body}, rest...)
			return &Fetch{Store: false, Next: walk(next)}
		default:
			panic(fmt.Sprintf("tree: fetch cannot consume a cell headed by %s", head))
		}
	}
	return walk(queue)
}

func slotAssigned(env map[int]int, slot int) bool {
	for _, s := range env {
		if s == slot {
			return true
		}
	}
	return false
}
