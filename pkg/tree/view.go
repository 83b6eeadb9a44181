// Term view: classification of left-hand-side terms and constructor keys.
package tree

import (
	"fmt"
	"strings"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
)

// Key identifies a tree constructor: a head symbol applied to a fixed
// number of arguments. Two applications of the same symbol at different
// arities index different subtrees. Bound-variable heads key with an
// empty path and the variable's unique name.
type Key struct {
	Path  string
	Name  string
	Arity int
}

func (k Key) String() string {
	name := k.Name
	if k.Path != "" {
		name = k.Path + "." + name
	}
	return fmt.Sprintf("%s/%d", name, k.Arity)
}

// Compare is the total order on keys: path, then name, then arity
func (k Key) Compare(l Key) int {
	if c := strings.Compare(k.Path, l.Path); c != 0 {
		return c
	}
	if c := strings.Compare(k.Name, l.Name); c != 0 {
		return c
	}
	switch {
	case k.Arity < l.Arity:
		return -1
	case k.Arity > l.Arity:
		return 1
	}
	return 0
}

// IsTreeCons reports whether the head of t, after stripping applications,
// is a variable or a defined symbol. Abstractions, metavariables and
// pattern variables are not tree constructors. Any other head is illegal
// in a left-hand side.
func IsTreeCons(t term.Term) bool {
	head, _ := term.GetArgs(term.Unfold(t))
	switch head.(type) {
	case *term.Var, *term.Symb:
		return true
	case *term.Abst, *term.Meta, *term.Patt:
		return false
	default:
		panic(fmt.Sprintf("tree: %s cannot appear in a rule left-hand side", head))
	}
}

// KeyOf extracts the constructor key of t
func KeyOf(t term.Term) Key {
	head, args := term.GetArgs(term.Unfold(t))
	switch h := head.(type) {
	case *term.Symb:
		return Key{Path: strings.Join(h.Sym.Path, "."), Name: h.Sym.Name, Arity: len(args)}
	case *term.Var:
		return Key{Name: h.UniqueName(), Arity: len(args)}
	default:
		panic(fmt.Sprintf("tree: no constructor key for %s", head))
	}
}
