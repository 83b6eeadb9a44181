// Clause matrix: the pattern-matching problem as rows of rules and
// columns of positional argument slots.
package tree

import (
	"fmt"

	"github.com/hashicorp/go-set"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
)

// VarMeta describes one bound variable of a rule right-hand side
type VarMeta struct {
	Name  string
	Arity int
}

// Rule is one rewrite rule of a head symbol: the LHS argument patterns
// and the RHS multi-binder, whose arity is the number of distinct
// pattern variables the RHS uses
type Rule struct {
	LHS  []term.Term
	RHS  *term.MBinder
	Vars []VarMeta
}

// row is one clause of the matrix. vars maps LHS positions (by key) to
// the RHS slot that must receive the term matched there.
type row struct {
	lhs  []Cell
	rhs  *term.MBinder
	vars map[string]int
}

// Matrix is an ephemeral clause matrix. clauses are ordered by rule
// priority. varCatalogue lists the positions captured along the current
// compilation path, most recent first.
type Matrix struct {
	clauses      []row
	varCatalogue []Subterm
}

// OfRules builds the initial matrix, one row per rule. Argument terms
// are tagged from Succ(Init()); the head symbol occupies Init().
func OfRules(rules []Rule) *Matrix {
	m := &Matrix{clauses: make([]row, 0, len(rules))}
	for _, r := range rules {
		cells := Tag(r.LHS, Init().Succ())
		m.clauses = append(m.clauses, row{
			lhs:  cells,
			rhs:  r.RHS,
			vars: flushoutVars(cells, r.RHS.Arity()),
		})
	}
	return m
}

// flushoutVars scans the LHS depth-first and binds the position of the
// first occurrence of each slot-carrying pattern variable to its slot. The
// scan stops as soon as every RHS slot has been bound.
func flushoutVars(cells []Cell, arity int) map[string]int {
	vars := map[string]int{}
	bound := set.New[int](arity)

	var walk func(t term.Term, p Subterm) bool
	walk = func(t term.Term, p Subterm) bool {
		if bound.Size() == arity {
			return true
		}
		switch x := term.Unfold(t).(type) {
		case *term.Patt:
			// non-linear occurrences past the first are left to the
			// reduction engine's convertibility check
			if x.InRHS() && bound.Insert(x.Slot) {
				vars[p.Key()] = x.Slot
			}
		case *term.Var, *term.Symb:
			// leaf, advance to the next sibling
		case *term.Appl:
			head, args := term.GetArgs(x)
			if pt, ok := head.(*term.Patt); ok && pt.InRHS() && bound.Insert(pt.Slot) {
				vars[p.Key()] = pt.Slot
			}
			q := p.Sub()
			for _, a := range args {
				if walk(a, q) {
					return true
				}
				q = q.Succ()
			}
		case *term.Abst:
			_, body := x.Body.Unbind()
			return walk(body, p.Sub())
		default:
			panic(fmt.Sprintf("tree: %s cannot appear in a rule left-hand side", x))
		}
		return bound.Size() == arity
	}

	for _, c := range cells {
		if walk(c.Term, c.Pos) {
			break
		}
	}
	return vars
}

// IsEmpty reports whether the matrix has no clause left
func (m *Matrix) IsEmpty() bool { return len(m.clauses) == 0 }

// Exhausted reports whether the first row can no longer be discriminated:
// its LHS holds no tree constructor
func (m *Matrix) Exhausted() bool {
	if m.IsEmpty() {
		return false
	}
	for _, c := range m.clauses[0].lhs {
		if IsTreeCons(c.Term) {
			return false
		}
	}
	return true
}

// Width returns the number of active columns
func (m *Matrix) Width() int {
	if m.IsEmpty() {
		return 0
	}
	return len(m.clauses[0].lhs)
}

// GetCol returns column i across all rows
func (m *Matrix) GetCol(i int) []Cell {
	col := make([]Cell, 0, len(m.clauses))
	for _, r := range m.clauses {
		col = append(col, r.lhs[i])
	}
	return col
}

// score counts the cells of a column that are not tree constructors.
// Lower is better: a column full of pattern variables discriminates
// nothing.
func score(col []Cell) int {
	n := 0
	for _, c := range col {
		if !IsTreeCons(c.Term) {
			n++
		}
	}
	return n
}

// CanSwitchOn reports whether some row holds a tree constructor in
// column k
func (m *Matrix) CanSwitchOn(k int) bool {
	for _, r := range m.clauses {
		if IsTreeCons(r.lhs[k].Term) {
			return true
		}
	}
	return false
}

// DiscardConsFree returns the indices of all switchable columns. When
// the matrix is not exhausted at least one exists.
func (m *Matrix) DiscardConsFree() []int {
	var keep []int
	for k := 0; k < m.Width(); k++ {
		if m.CanSwitchOn(k) {
			keep = append(keep, k)
		}
	}
	return keep
}

// PickBestAmong returns the index into candidates of the column with the
// fewest non-constructor cells. Ties go to the last candidate (the
// update fires on <=); see DESIGN.md on the tie-break.
func (m *Matrix) PickBestAmong(candidates []int) int {
	best := 0
	bestScore := int(^uint(0) >> 1)
	for j, ci := range candidates {
		if s := score(m.GetCol(ci)); s <= bestScore {
			best, bestScore = j, s
		}
	}
	return best
}

// GetCons deduplicates the constructor terms of a column, keeping one
// representative per distinct constructor key in first-occurrence order
func GetCons(col []Cell) []term.Term {
	seen := set.New[Key](len(col))
	var reps []term.Term
	for _, c := range col {
		if !IsTreeCons(c.Term) {
			continue
		}
		if seen.Insert(KeyOf(c.Term)) {
			reps = append(reps, c.Term)
		}
	}
	return reps
}

// InRHS reports whether some cell of the column is a pattern variable
// the right-hand side uses, in which case the inspected term must be
// captured
func InRHS(col []Cell) bool {
	for _, c := range col {
		if p, ok := term.Unfold(c.Term).(*term.Patt); ok && p.InRHS() {
			return true
		}
	}
	return false
}

// VarPos returns the ordered unique positions of slot-carrying pattern
// variables in column ci
func (m *Matrix) VarPos(ci int) []Subterm {
	seen := set.New[string](len(m.clauses))
	var out []Subterm
	for _, r := range m.clauses {
		c := r.lhs[ci]
		if p, ok := term.Unfold(c.Term).(*term.Patt); ok && p.InRHS() {
			if seen.Insert(c.Pos.Key()) {
				out = append(out, c.Pos)
			}
		}
	}
	return out
}

// specFilter decides whether a row whose cell ci holds hd survives
// specialisation on pat
func specFilter(pat, hd term.Term) bool {
	hd = term.Unfold(hd)
	if p, ok := hd.(*term.Patt); ok {
		// a pattern variable matches pat only if pat is closed with
		// respect to the variables of its environment
		return term.ClosedUnder(pat, p.Env)
	}
	switch p := term.Unfold(pat).(type) {
	case *term.Symb:
		h, ok := hd.(*term.Symb)
		return ok && term.Eq(p, h)
	case *term.Var:
		h, ok := hd.(*term.Var)
		return ok && p == h
	case *term.Appl:
		h, ok := hd.(*term.Appl)
		if !ok {
			return false
		}
		phead, pargs := term.GetArgs(p)
		hhead, hargs := term.GetArgs(h)
		return len(pargs) == len(hargs) && headsMatch(phead, hhead)
	default:
		panic(fmt.Sprintf("tree: cannot specialize on %s", pat))
	}
}

func headsMatch(a, b term.Term) bool {
	switch x := a.(type) {
	case *term.Symb:
		y, ok := b.(*term.Symb)
		return ok && term.Eq(x, y)
	case *term.Var:
		y, ok := b.(*term.Var)
		return ok && x == y
	default:
		return false
	}
}

// specTransform replaces a matched cell with the sub-columns its
// arguments open up
func specTransform(pat term.Term, c Cell) []Cell {
	switch hd := term.Unfold(c.Term).(type) {
	case *term.Patt:
		pappl, ok := term.Unfold(pat).(*term.Appl)
		if !ok {
			// specialising a variable against a constant: the cell is
			// simply consumed
			return nil
		}
		_, pargs := term.GetArgs(pappl)
		fresh := make([]term.Term, len(pargs))
		for i := range pargs {
			fresh[i] = &term.Patt{Slot: term.NoSlot, Name: hd.Name, Env: hd.Env}
		}
		return Tag(fresh, c.Pos.Sub())
	default:
		_, args := term.GetArgs(hd)
		return Tag(args, c.Pos.Sub())
	}
}

// Specialize keeps the rows whose cell ci matches pat and splices the
// argument sub-columns of that cell in place
func Specialize(pat term.Term, ci int, rows []row) []row {
	out := make([]row, 0, len(rows))
	for _, r := range rows {
		if !specFilter(pat, r.lhs[ci].Term) {
			continue
		}
		sub := specTransform(pat, r.lhs[ci])
		lhs := make([]Cell, 0, len(r.lhs)-1+len(sub))
		lhs = append(lhs, r.lhs[:ci]...)
		lhs = append(lhs, sub...)
		lhs = append(lhs, r.lhs[ci+1:]...)
		out = append(out, row{lhs: lhs, rhs: r.rhs, vars: r.vars})
	}
	return out
}

// Default keeps the rows whose cell ci is a pattern variable and drops
// that column
func Default(ci int, rows []row) []row {
	out := make([]row, 0, len(rows))
	for _, r := range rows {
		if _, ok := term.Unfold(r.lhs[ci].Term).(*term.Patt); !ok {
			continue
		}
		lhs := make([]Cell, 0, len(r.lhs)-1)
		lhs = append(lhs, r.lhs[:ci]...)
		lhs = append(lhs, r.lhs[ci+1:]...)
		out = append(out, row{lhs: lhs, rhs: r.rhs, vars: r.vars})
	}
	return out
}
