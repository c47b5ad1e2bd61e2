package verilock

import (
	"fmt"

	"github.com/db47h/verilock/internal/sv"
)

// parse turns source text into an AST. It accepts only the supported
// subset: ANSI-style module and interface headers, one instantiation per
// statement, positional port binding, non-nested declarations and blocking
// assignments. Anything else fails with a ParseError pointing at the
// offending construct; parsing stops at the first error.
//
func parse(src string) (*AST, *ParseError) {
	p := &parser{l: sv.New(src)}
	p.next()
	ast := &AST{}
	for {
		switch p.tok.Type {
		case sv.EOF:
			return ast, nil
		case sv.Module:
			m, err := p.module()
			if err != nil {
				return nil, err
			}
			ast.Modules = append(ast.Modules, m)
		case sv.Interface:
			i, err := p.iface()
			if err != nil {
				return nil, err
			}
			ast.Interfaces = append(ast.Interfaces, i)
		default:
			return nil, p.unexpected("expected 'module' or 'interface'")
		}
	}
}

type parser struct {
	l   *sv.Lexer
	tok sv.Token
}

func (p *parser) next() {
	p.tok = p.l.Next()
}

func (p *parser) errAt(t sv.Token, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(what string) *ParseError {
	t := p.tok
	if t.Type == sv.Illegal {
		if t.Text == "unterminated comment" {
			return p.errAt(t, "unterminated comment")
		}
		return p.errAt(t, "unsupported character %q", t.Text)
	}
	return p.errAt(t, "%s, found %s", what, t)
}

func (p *parser) expect(tt sv.Type, what string) (sv.Token, *ParseError) {
	if p.tok.Type != tt {
		return sv.Token{}, p.unexpected("expected " + what)
	}
	t := p.tok
	p.next()
	return t, nil
}

func pos(t sv.Token) Pos { return Pos{Line: t.Line, Col: t.Col} }

func (p *parser) iface() (*InterfaceDecl, *ParseError) {
	kw := p.tok
	p.next()
	name, err := p.expect(sv.Ident, "interface name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(sv.LParen, "'('"); err != nil {
		return nil, err
	}
	if p.tok.Type != sv.RParen {
		return nil, p.errAt(p.tok, "interface ports are not supported")
	}
	p.next()
	if _, err := p.expect(sv.Semi, "';'"); err != nil {
		return nil, err
	}
	decl := &InterfaceDecl{Name: name.Text, Pos: pos(kw)}
	for {
		switch p.tok.Type {
		case sv.Wire, sv.Logic, sv.Reg:
			sigs, err := p.signalDecl()
			if err != nil {
				return nil, err
			}
			decl.Signals = append(decl.Signals, sigs...)
		case sv.Endinterface:
			p.next()
			return decl, nil
		case sv.Module, sv.Interface:
			return nil, p.errAt(p.tok, "nested declarations are not supported")
		default:
			return nil, p.unexpected("expected signal declaration or 'endinterface'")
		}
	}
}

func (p *parser) module() (*ModuleDecl, *ParseError) {
	kw := p.tok
	p.next()
	name, err := p.expect(sv.Ident, "module name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(sv.LParen, "'('"); err != nil {
		return nil, err
	}
	decl := &ModuleDecl{Name: name.Text, Pos: pos(kw)}
	if p.tok.Type != sv.RParen {
		for {
			port, err := p.port()
			if err != nil {
				return nil, err
			}
			decl.Ports = append(decl.Ports, port)
			if p.tok.Type != sv.Comma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(sv.RParen, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(sv.Semi, "';'"); err != nil {
		return nil, err
	}
	for {
		switch p.tok.Type {
		case sv.Wire, sv.Logic, sv.Reg:
			sigs, err := p.signalDecl()
			if err != nil {
				return nil, err
			}
			decl.Signals = append(decl.Signals, sigs...)
		case sv.Always, sv.Initial:
			proc, err := p.process()
			if err != nil {
				return nil, err
			}
			decl.Procs = append(decl.Procs, proc)
		case sv.Ident:
			inst, err := p.instantiation()
			if err != nil {
				return nil, err
			}
			decl.Insts = append(decl.Insts, inst)
		case sv.Endmodule:
			p.next()
			return decl, nil
		case sv.Module, sv.Interface:
			return nil, p.errAt(p.tok, "nested declarations are not supported")
		case sv.Input, sv.Output, sv.Inout:
			return nil, p.errAt(p.tok, "port direction in module body: non-ANSI headers are not supported")
		default:
			return nil, p.unexpected("expected module item")
		}
	}
}

func (p *parser) port() (Port, *ParseError) {
	t := p.tok
	switch t.Type {
	case sv.Input, sv.Output:
		dir := DirInput
		if t.Type == sv.Output {
			dir = DirOutput
		}
		p.next()
		if p.tok.Type == sv.Wire || p.tok.Type == sv.Logic {
			p.next()
		}
		name, err := p.expect(sv.Ident, "port name")
		if err != nil {
			return Port{}, err
		}
		return Port{Name: name.Text, Dir: dir, Pos: pos(t)}, nil
	case sv.Inout:
		return Port{}, p.errAt(t, "port direction 'inout' is not supported")
	case sv.Ident:
		iface := t.Text
		p.next()
		if p.tok.Type != sv.Ident {
			return Port{}, p.errAt(t, "port %q has no direction: non-ANSI headers are not supported", iface)
		}
		name := p.tok
		p.next()
		return Port{Name: name.Text, Iface: iface, Pos: pos(t)}, nil
	default:
		return Port{}, p.unexpected("expected port declaration")
	}
}

func (p *parser) signalDecl() ([]SignalDecl, *ParseError) {
	p.next() // wire, logic or reg
	var sigs []SignalDecl
	for {
		name, err := p.expect(sv.Ident, "signal name")
		if err != nil {
			return nil, err
		}
		sig := SignalDecl{Name: name.Text, Pos: pos(name)}
		if p.tok.Type == sv.Assign {
			p.next()
			v, err := p.expect(sv.Number, "reset value")
			if err != nil {
				return nil, err
			}
			if v.Val > 1 {
				return nil, p.errAt(v, "only 0 and 1 values are supported")
			}
			sig.Reset = v.Val == 1
		}
		sigs = append(sigs, sig)
		if p.tok.Type == sv.Comma {
			p.next()
			continue
		}
		if _, err := p.expect(sv.Semi, "';'"); err != nil {
			return nil, err
		}
		return sigs, nil
	}
}

func (p *parser) instantiation() (Inst, *ParseError) {
	typ := p.tok
	p.next()
	name, err := p.expect(sv.Ident, "instance name")
	if err != nil {
		return Inst{}, err
	}
	if _, err := p.expect(sv.LParen, "'('"); err != nil {
		return Inst{}, err
	}
	inst := Inst{Type: typ.Text, Name: name.Text, Pos: pos(typ)}
	if p.tok.Type != sv.RParen {
		for {
			if p.tok.Type == sv.Dot {
				return Inst{}, p.errAt(p.tok, "named port binding is not supported, bind ports by position")
			}
			ref, err := p.signalRef()
			if err != nil {
				return Inst{}, err
			}
			inst.Args = append(inst.Args, ref)
			if p.tok.Type != sv.Comma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(sv.RParen, "')'"); err != nil {
		return Inst{}, err
	}
	if p.tok.Type == sv.Comma {
		return Inst{}, p.errAt(p.tok, "multiple instantiations in one statement are not supported")
	}
	if _, err := p.expect(sv.Semi, "';'"); err != nil {
		return Inst{}, err
	}
	return inst, nil
}

func (p *parser) process() (*Process, *ParseError) {
	kw := p.tok
	p.next()
	body, err := p.stmt()
	if err != nil {
		return nil, err
	}
	kind := ProcAlways
	if kw.Type == sv.Initial {
		kind = ProcInitial
	}
	return &Process{Kind: kind, Body: body, Pos: pos(kw)}, nil
}

func (p *parser) stmt() (Stmt, *ParseError) {
	t := p.tok
	switch t.Type {
	case sv.Begin:
		p.next()
		blk := &Block{Pos: pos(t)}
		for p.tok.Type != sv.End {
			if p.tok.Type == sv.EOF {
				return nil, p.unexpected("expected statement or 'end'")
			}
			s, err := p.stmt()
			if err != nil {
				return nil, err
			}
			blk.Stmts = append(blk.Stmts, s)
		}
		p.next()
		return blk, nil
	case sv.Wait:
		p.next()
		cond, err := p.parenExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(sv.Semi, "';'"); err != nil {
			return nil, err
		}
		return &Wait{Cond: cond, Pos: pos(t)}, nil
	case sv.If:
		return p.ifStmt()
	case sv.While:
		p.next()
		cond, err := p.parenExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.stmt()
		if err != nil {
			return nil, err
		}
		return &While{Cond: cond, Body: body, Pos: pos(t)}, nil
	case sv.Ident:
		lhs, err := p.signalRef()
		if err != nil {
			return nil, err
		}
		if p.tok.Type == sv.LtEq {
			return nil, p.errAt(p.tok, "non-blocking assignment is not supported, use blocking '='")
		}
		if _, err := p.expect(sv.Assign, "'='"); err != nil {
			return nil, err
		}
		rhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(sv.Semi, "';'"); err != nil {
			return nil, err
		}
		return &Assign{LHS: lhs, RHS: rhs, Pos: pos(t)}, nil
	default:
		return nil, p.unexpected("expected statement")
	}
}

func (p *parser) ifStmt() (Stmt, *ParseError) {
	t := p.tok
	p.next()
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.stmt()
	if err != nil {
		return nil, err
	}
	s := &If{Arms: []Arm{{Cond: cond, Body: body}}, Pos: pos(t)}
	for p.tok.Type == sv.Else {
		p.next()
		if p.tok.Type != sv.If {
			els, err := p.stmt()
			if err != nil {
				return nil, err
			}
			s.Else = els
			break
		}
		p.next()
		cond, err := p.parenExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.stmt()
		if err != nil {
			return nil, err
		}
		s.Arms = append(s.Arms, Arm{Cond: cond, Body: body})
	}
	return s, nil
}

func (p *parser) parenExpr() (Expr, *ParseError) {
	if _, err := p.expect(sv.LParen, "'('"); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(sv.RParen, "')'"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) expr() (Expr, *ParseError) {
	return p.orExpr()
}

func (p *parser) orExpr() (Expr, *ParseError) {
	x, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == sv.OrOr {
		op := p.tok
		p.next()
		y, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: OpOr, X: x, Y: y, Pos: pos(op)}
	}
	return x, nil
}

func (p *parser) andExpr() (Expr, *ParseError) {
	x, err := p.eqExpr()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == sv.AndAnd {
		op := p.tok
		p.next()
		y, err := p.eqExpr()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: OpAnd, X: x, Y: y, Pos: pos(op)}
	}
	return x, nil
}

func (p *parser) eqExpr() (Expr, *ParseError) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.tok.Type == sv.Eq || p.tok.Type == sv.Neq {
		op := p.tok
		p.next()
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		o := OpEq
		if op.Type == sv.Neq {
			o = OpNeq
		}
		x = &Binary{Op: o, X: x, Y: y, Pos: pos(op)}
	}
	return x, nil
}

func (p *parser) unary() (Expr, *ParseError) {
	t := p.tok
	switch t.Type {
	case sv.Bang:
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNot, X: x, Pos: pos(t)}, nil
	case sv.LParen:
		return p.parenExpr()
	case sv.Number:
		if t.Val > 1 {
			return nil, p.errAt(t, "only 0 and 1 literals are supported")
		}
		p.next()
		return &Lit{Val: t.Val == 1, Pos: pos(t)}, nil
	case sv.Ident:
		ref, err := p.signalRef()
		if err != nil {
			return nil, err
		}
		return &Ref{SignalRef: ref}, nil
	default:
		return nil, p.unexpected("expected expression")
	}
}

func (p *parser) signalRef() (SignalRef, *ParseError) {
	name, err := p.expect(sv.Ident, "signal name")
	if err != nil {
		return SignalRef{}, err
	}
	ref := SignalRef{Name: name.Text, Pos: pos(name)}
	if p.tok.Type == sv.Dot {
		p.next()
		member, err := p.expect(sv.Ident, "member name after '.'")
		if err != nil {
			return SignalRef{}, err
		}
		ref.Member = member.Text
	}
	return ref, nil
}
