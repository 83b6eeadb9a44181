// Package notation parses the surface syntax used to feed rules to the
// tree compiler:
//
//	f Z (S $m) --> S $m
//	f $n Z --> $n
//
// One rule per line; '$x' is a pattern variable, '\x, t' an abstraction,
// juxtaposition application. All rules of a file must share their head
// symbol. The parser allocates RHS slots in first-use order; pattern
// variables the RHS never uses get no slot.
package notation

import (
	"github.com/pkg/errors"

	"github.com/thiagofelicissimo/lambdapi/pkg/term"
	"github.com/thiagofelicissimo/lambdapi/pkg/tree"
)

// RuleSet is the parsed form of a rule file
type RuleSet struct {
	Head  string
	Rules []tree.Rule
}

type parser struct {
	toks []Token
	pos  int
}

// Parse parses a rule file
func Parse(source string) (*RuleSet, error) {
	toks := NewLexer(source).Tokens()
	last := toks[len(toks)-1]
	if last.Type == ILLEGAL {
		return nil, errors.Errorf("line %d: %s", last.Line, last.Lexeme)
	}
	p := &parser{toks: toks}

	rs := &RuleSet{}
	for {
		for p.check(NEWLINE) {
			p.advance()
		}
		if p.check(EOF) {
			break
		}
		head, rule, err := p.rule()
		if err != nil {
			return nil, err
		}
		if rs.Head == "" {
			rs.Head = head
		} else if rs.Head != head {
			return nil, errors.Errorf("line %d: rule head %q differs from %q; a rule set has a single head symbol",
				p.peek().Line, head, rs.Head)
		}
		rs.Rules = append(rs.Rules, rule)
	}
	if len(rs.Rules) == 0 {
		return nil, errors.New("no rules in input")
	}
	return rs, nil
}

// rule := NAME atom* '-->' term (NEWLINE | EOF)
func (p *parser) rule() (string, tree.Rule, error) {
	var rule tree.Rule

	headTok := p.peek()
	if headTok.Type != NAME {
		return "", rule, errors.Errorf("line %d: a rule starts with its head symbol", headTok.Line)
	}
	p.advance()

	sc := newScope()
	var lhs []term.Term
	for !p.check(ARROW) {
		if p.check(NEWLINE) || p.check(EOF) {
			return "", rule, errors.Errorf("line %d: rule is missing '-->'", headTok.Line)
		}
		arg, err := p.atom(sc)
		if err != nil {
			return "", rule, err
		}
		lhs = append(lhs, arg)
	}
	p.advance() // consume '-->'

	rhs, err := p.term(sc)
	if err != nil {
		return "", rule, err
	}
	if !p.check(NEWLINE) && !p.check(EOF) {
		return "", rule, errors.Errorf("line %d: trailing input after rule", p.peek().Line)
	}
	if p.check(NEWLINE) {
		p.advance()
	}

	rule, err = assemble(lhs, rhs, headTok.Line)
	return headTok.Lexeme, rule, err
}

// term := atom atom*
func (p *parser) term(sc *scope) (term.Term, error) {
	head, err := p.atom(sc)
	if err != nil {
		return nil, err
	}
	var args []term.Term
	for p.check(NAME) || p.check(PATTVAR) || p.check(LPAREN) || p.check(LAMBDA) {
		a, err := p.atom(sc)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return term.AddArgs(head, args), nil
}

// atom := NAME | PATTVAR | '(' term ')' | '\' NAME ',' term
func (p *parser) atom(sc *scope) (term.Term, error) {
	tok := p.peek()
	switch tok.Type {
	case NAME:
		p.advance()
		if v, ok := sc.lookup(tok.Lexeme); ok {
			return v, nil
		}
		return &term.Symb{Sym: &term.Sym{Name: tok.Lexeme}}, nil
	case PATTVAR:
		p.advance()
		return &term.Patt{Slot: term.NoSlot, Name: tok.Lexeme, Env: sc.env()}, nil
	case LPAREN:
		p.advance()
		t, err := p.term(sc)
		if err != nil {
			return nil, err
		}
		if !p.check(RPAREN) {
			return nil, errors.Errorf("line %d: expected ')'", p.peek().Line)
		}
		p.advance()
		return t, nil
	case LAMBDA:
		p.advance()
		nameTok := p.peek()
		if nameTok.Type != NAME {
			return nil, errors.Errorf("line %d: expected bound variable name after '\\'", nameTok.Line)
		}
		p.advance()
		if !p.check(COMMA) {
			return nil, errors.Errorf("line %d: expected ',' after bound variable", p.peek().Line)
		}
		p.advance()
		v := term.FreshVar(nameTok.Lexeme)
		sc.push(nameTok.Lexeme, v)
		body, err := p.term(sc)
		sc.pop()
		if err != nil {
			return nil, err
		}
		return &term.Abst{Type: &term.Wild{}, Body: term.Bind(v, body)}, nil
	default:
		return nil, errors.Errorf("line %d: unexpected token %q", tok.Line, tok.Lexeme)
	}
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) check(t TokenType) bool { return p.toks[p.pos].Type == t }

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

// scope tracks the bound variables in lexical order
type scope struct {
	names []string
	vars  []*term.Var
}

func newScope() *scope { return &scope{} }

func (s *scope) push(name string, v *term.Var) {
	s.names = append(s.names, name)
	s.vars = append(s.vars, v)
}

func (s *scope) pop() {
	s.names = s.names[:len(s.names)-1]
	s.vars = s.vars[:len(s.vars)-1]
}

func (s *scope) lookup(name string) (*term.Var, bool) {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return s.vars[i], true
		}
	}
	return nil, false
}

func (s *scope) env() []term.Term {
	env := make([]term.Term, len(s.vars))
	for i, v := range s.vars {
		env[i] = v
	}
	return env
}
