// Package notation - unit tests for the rule notation parser
package notation

import (
	"strings"
	"testing"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
	"github.com/thiagofelicissimo/lambdapi/pkg/tree"
)

const natSource = `
# addition-like rules
f Z (S $m) --> S $m
f $n Z --> $n
f (S $n) (S $m) --> S (S $m)
`

func TestParseNatRules(t *testing.T) {
	rs, err := Parse(natSource)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rs.Head != "f" {
		t.Errorf("head = %q, want f", rs.Head)
	}
	if len(rs.Rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(rs.Rules))
	}

	// rule 1: one slot, filled by $m under S
	r := rs.Rules[0]
	if r.RHS.Arity() != 1 {
		t.Errorf("rule 1 arity = %d, want 1", r.RHS.Arity())
	}
	_, args := term.GetArgs(r.LHS[1])
	if len(args) != 1 {
		t.Fatalf("rule 1 second argument = %s, want S applied once", r.LHS[1])
	}
	p, ok := args[0].(*term.Patt)
	if !ok || p.Slot != 0 {
		t.Errorf("rule 1 $m = %s, want slot 0", args[0])
	}

	// rule 3: $n is unused by the RHS and gets no slot
	r = rs.Rules[2]
	if r.RHS.Arity() != 1 {
		t.Errorf("rule 3 arity = %d, want 1 (only $m is used)", r.RHS.Arity())
	}
	_, args = term.GetArgs(r.LHS[0])
	if p, ok := args[0].(*term.Patt); !ok || p.InRHS() {
		t.Errorf("rule 3 $n = %s, want an unused pattern variable", args[0])
	}
	if len(r.Vars) != 2 {
		t.Errorf("rule 3 metadata lists %d variables, want 2", len(r.Vars))
	}
}

func TestParsedRulesCompile(t *testing.T) {
	rs, err := Parse(natSource)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tr := tree.Compile(rs.Rules)
	if tree.Capacity(tr) < 1 {
		t.Errorf("nat rules capture at least one term")
	}
	if !strings.Contains(tree.Dot(tr), "S/1") {
		t.Errorf("compiled tree switches on S/1")
	}
}

func TestParseAbstraction(t *testing.T) {
	rs, err := Parse(`h (\x, $b) --> $b`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rs.Rules[0]
	a, ok := r.LHS[0].(*term.Abst)
	if !ok {
		t.Fatalf("argument = %s, want an abstraction", r.LHS[0])
	}
	_, body := a.Body.Unbind()
	p, ok := body.(*term.Patt)
	if !ok {
		t.Fatalf("body = %s, want a pattern variable", body)
	}
	if p.Slot != 0 {
		t.Errorf("$b slot = %d, want 0", p.Slot)
	}
	if len(p.Env) != 1 {
		t.Errorf("$b environment = %d variables, want the bound x", len(p.Env))
	}
	if r.Vars[0].Arity != 1 {
		t.Errorf("metadata arity = %d, want 1", r.Vars[0].Arity)
	}
}

func TestParseBoundVariableReference(t *testing.T) {
	rs, err := Parse(`k (\x, c x) --> Zero`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := rs.Rules[0].LHS[0].(*term.Abst)
	v, body := a.Body.Unbind()
	_, args := term.GetArgs(body)
	if len(args) != 1 {
		t.Fatalf("body = %s, want c applied to x", body)
	}
	if w, ok := args[0].(*term.Var); !ok || w != v {
		t.Errorf("x inside the body must be the bound variable, got %s", args[0])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "empty input", source: "\n\n", want: "no rules"},
		{name: "missing arrow", source: "f Z", want: "-->"},
		{name: "mixed heads", source: "f Z --> Z\ng Z --> Z", want: "single head"},
		{name: "unbound rhs variable", source: "f Z --> $x", want: "not bound"},
		{name: "unclosed paren", source: "f (S Z --> Z", want: ")"},
		{name: "bad character", source: "f % --> Z", want: "unexpected character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
