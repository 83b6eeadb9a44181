// Subterm positions: tree addresses into a rule left-hand side.
package tree

import (
	"strconv"
	"strings"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
)

// Subterm addresses a node of a left-hand side as a path of child
// indices. Values are immutable; every operation returns a fresh path.
type Subterm struct {
	path []int
}

// Init is the root position, occupied by the head symbol
func Init() Subterm {
	return Subterm{path: []int{0}}
}

// Succ is the next sibling position
func (p Subterm) Succ() Subterm {
	q := p.clone()
	q.path[len(q.path)-1]++
	return q
}

// Sub is the first child position beneath p
func (p Subterm) Sub() Subterm {
	q := Subterm{path: make([]int, len(p.path)+1)}
	copy(q.path, p.path)
	return q
}

// Prefix re-roots q under p
func (p Subterm) Prefix(q Subterm) Subterm {
	r := Subterm{path: make([]int, 0, len(p.path)+len(q.path))}
	r.path = append(r.path, p.path...)
	r.path = append(r.path, q.path...)
	return r
}

// Compare is the total lexicographic order on positions
func (p Subterm) Compare(q Subterm) int {
	for i := 0; i < len(p.path) && i < len(q.path); i++ {
		if p.path[i] != q.path[i] {
			if p.path[i] < q.path[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p.path) < len(q.path):
		return -1
	case len(p.path) > len(q.path):
		return 1
	}
	return 0
}

// Key renders the position as a map key
func (p Subterm) Key() string {
	var b strings.Builder
	for i, c := range p.path {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(c))
	}
	return b.String()
}

func (p Subterm) String() string { return p.Key() }

func (p Subterm) clone() Subterm {
	q := Subterm{path: make([]int, len(p.path))}
	copy(q.path, p.path)
	return q
}

// Cell is a term paired with its position in the original left-hand side
type Cell struct {
	Term term.Term
	Pos  Subterm
}

// Tag assigns consecutive sibling positions to terms, starting at from.
// Argument arrays are tagged from Succ(Init()), the head holding Init().
func Tag(terms []term.Term, from Subterm) []Cell {
	cells := make([]Cell, len(terms))
	p := from
	for i, t := range terms {
		cells[i] = Cell{Term: t, Pos: p}
		p = p.Succ()
	}
	return cells
}
