// Binders: single binders for abstractions, products and lets, and the
// multi-binder carried by a rule right-hand side.
package term

// Binder binds one variable in a body
type Binder struct {
	v    *Var
	body Term
}

// Bind closes body over v
func Bind(v *Var, body Term) *Binder {
	return &Binder{v: v, body: body}
}

// Name returns the printed name of the bound variable
func (b *Binder) Name() string { return b.v.Name }

// Unbind opens the binder with a fresh variable
func (b *Binder) Unbind() (*Var, Term) {
	v := FreshVar(b.v.Name)
	return v, replaceVar(b.body, b.v, v)
}

// Subst substitutes t for the bound variable
func (b *Binder) Subst(t Term) Term {
	return substVar(b.body, b.v, t)
}

// IsClosed reports whether the bound variable does not occur in the body
func (b *Binder) IsClosed() bool {
	_, occurs := FreeVars(b.body)[b.v]
	return !occurs
}

func replaceVar(t Term, old, new *Var) Term {
	return substVar(t, old, new)
}

// substVar performs substitution of u for v. Variables are globally fresh,
// so no capture can occur and no renaming is needed.
func substVar(t Term, v *Var, u Term) Term {
	switch x := t.(type) {
	case *Var:
		if x == v {
			return u
		}
		return x
	case *Appl:
		return &Appl{Fn: substVar(x.Fn, v, u), Arg: substVar(x.Arg, v, u)}
	case *Abst:
		return &Abst{Type: substVar(x.Type, v, u), Body: x.Body.substUnder(v, u)}
	case *Prod:
		return &Prod{Type: substVar(x.Type, v, u), Body: x.Body.substUnder(v, u)}
	case *LLet:
		return &LLet{
			Type: substVar(x.Type, v, u),
			Def:  substVar(x.Def, v, u),
			Body: x.Body.substUnder(v, u),
		}
	case *Meta:
		return &Meta{Name: x.Name, Args: substAll(x.Args, v, u)}
	case *Patt:
		return &Patt{Slot: x.Slot, Name: x.Name, Env: substAll(x.Env, v, u)}
	case *TRef:
		return substVar(Unfold(x), v, u)
	default:
		return t
	}
}

func (b *Binder) substUnder(v *Var, u Term) *Binder {
	if b.v == v {
		return b
	}
	return &Binder{v: b.v, body: substVar(b.body, v, u)}
}

func substAll(ts []Term, v *Var, u Term) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = substVar(t, v, u)
	}
	return out
}

// MBinder binds an array of slots in a body; slot i occurs in the body as
// BVar{Index: i}. Rule right-hand sides are multi-binders whose arity is
// the number of distinct pattern variables the RHS uses.
type MBinder struct {
	Names []string
	Body  Term
}

// Arity returns the number of bound slots
func (m *MBinder) Arity() int { return len(m.Names) }

// Subst instantiates the binder with env; len(env) must equal Arity
func (m *MBinder) Subst(env []Term) Term {
	if len(env) != len(m.Names) {
		panic("term: multi-binder arity mismatch")
	}
	return substBVars(m.Body, env)
}

func substBVars(t Term, env []Term) Term {
	switch x := t.(type) {
	case *BVar:
		return env[x.Index]
	case *Appl:
		return &Appl{Fn: substBVars(x.Fn, env), Arg: substBVars(x.Arg, env)}
	case *Abst:
		return &Abst{Type: substBVars(x.Type, env), Body: bvarUnder(x.Body, env)}
	case *Prod:
		return &Prod{Type: substBVars(x.Type, env), Body: bvarUnder(x.Body, env)}
	case *LLet:
		return &LLet{
			Type: substBVars(x.Type, env),
			Def:  substBVars(x.Def, env),
			Body: bvarUnder(x.Body, env),
		}
	case *Meta:
		return &Meta{Name: x.Name, Args: substBVarsAll(x.Args, env)}
	case *Patt:
		return &Patt{Slot: x.Slot, Name: x.Name, Env: substBVarsAll(x.Env, env)}
	case *TRef:
		return substBVars(Unfold(x), env)
	default:
		return t
	}
}

func bvarUnder(b *Binder, env []Term) *Binder {
	return &Binder{v: b.v, body: substBVars(b.body, env)}
}

func substBVarsAll(ts []Term, env []Term) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = substBVars(t, env)
	}
	return out
}
