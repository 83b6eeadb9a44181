// Slot allocation: turning parsed sides into a compiler rule.
package notation

import (
	"github.com/pkg/errors"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
	"github.com/thiagofelicissimo/lambdapi/pkg/tree"
)

// assemble allocates RHS slots in first-use order, stamps them onto the
// LHS pattern variables, and closes the RHS into a multi-binder.
func assemble(lhs []term.Term, rhs term.Term, line int) (tree.Rule, error) {
	var rule tree.Rule

	// slots, in order of first use in the RHS
	slots := map[string]int{}
	var slotNames []string
	visitPatts(rhs, func(p *term.Patt) {
		if _, ok := slots[p.Name]; !ok {
			slots[p.Name] = len(slotNames)
			slotNames = append(slotNames, p.Name)
		}
	})

	// every pattern variable of the rule, in LHS order, with its arity
	arities := map[string]int{}
	var metas []tree.VarMeta
	for _, t := range lhs {
		visitPatts(t, func(p *term.Patt) {
			if _, ok := arities[p.Name]; !ok {
				arities[p.Name] = len(p.Env)
				metas = append(metas, tree.VarMeta{Name: p.Name, Arity: len(p.Env)})
			}
		})
	}
	for _, name := range slotNames {
		if _, ok := arities[name]; !ok {
			return rule, errors.Errorf("line %d: pattern variable $%s is not bound by the left-hand side", line, name)
		}
	}

	newLHS := make([]term.Term, len(lhs))
	for i, t := range lhs {
		newLHS[i] = mapPatts(t, func(p *term.Patt) term.Term {
			slot, ok := slots[p.Name]
			if !ok {
				slot = term.NoSlot
			}
			return &term.Patt{Slot: slot, Name: p.Name, Env: p.Env}
		})
	}

	body := mapPatts(rhs, func(p *term.Patt) term.Term {
		return &term.BVar{Index: slots[p.Name], Name: p.Name}
	})

	rule = tree.Rule{
		LHS:  newLHS,
		RHS:  &term.MBinder{Names: slotNames, Body: body},
		Vars: metas,
	}
	return rule, nil
}

func visitPatts(t term.Term, f func(*term.Patt)) {
	switch x := t.(type) {
	case *term.Patt:
		f(x)
	case *term.Appl:
		visitPatts(x.Fn, f)
		visitPatts(x.Arg, f)
	case *term.Abst:
		_, body := x.Body.Unbind()
		visitPatts(body, f)
	}
}

func mapPatts(t term.Term, f func(*term.Patt) term.Term) term.Term {
	switch x := t.(type) {
	case *term.Patt:
		return f(x)
	case *term.Appl:
		return &term.Appl{Fn: mapPatts(x.Fn, f), Arg: mapPatts(x.Arg, f)}
	case *term.Abst:
		v, body := x.Body.Unbind()
		return &term.Abst{Type: x.Type, Body: term.Bind(v, mapPatts(body, f))}
	default:
		return t
	}
}
