package verilock

import "sort"

// The model builder interprets each component's process as a finite
// control automaton: control states are points between statements, and
// each statement contributes guarded transitions. A guard is the condition
// under which a statement may fire; firing applies the statement's signal
// writes atomically and advances control. An if chain without a final else
// arm blocks until one arm's condition holds, which is how a component
// waits on a handshake. Components synchronize through shared signals: the
// read and write sets recorded on each automaton form that relation; its
// resolution is the explorer's job.

// boolean expression over flat signal indices
const (
	opLit = iota
	opSig
	opNot
	opAnd
	opOr
	opEq
	opNeq
)

type bexpr struct {
	op   int
	val  bool
	sig  int
	x, y *bexpr
}

// eval evaluates the expression under a signal valuation. A nil expression
// is true.
//
func (e *bexpr) eval(v []bool) bool {
	if e == nil {
		return true
	}
	switch e.op {
	case opLit:
		return e.val
	case opSig:
		return v[e.sig]
	case opNot:
		return !e.x.eval(v)
	case opAnd:
		return e.x.eval(v) && e.y.eval(v)
	case opOr:
		return e.x.eval(v) || e.y.eval(v)
	case opEq:
		return e.x.eval(v) == e.y.eval(v)
	default:
		return e.x.eval(v) != e.y.eval(v)
	}
}

func bnot(x *bexpr) *bexpr { return &bexpr{op: opNot, x: x} }

func band(x, y *bexpr) *bexpr {
	if x == nil {
		return y
	}
	if y == nil {
		return x
	}
	return &bexpr{op: opAnd, x: x, y: y}
}

func (e *bexpr) signals(set map[int]bool) {
	if e == nil {
		return
	}
	if e.op == opSig {
		set[e.sig] = true
		return
	}
	e.x.signals(set)
	e.y.signals(set)
}

// A write assigns the value of rhs (evaluated against the pre-state) to a
// signal.
type write struct {
	sig int
	rhs *bexpr
}

// A transition fires when the component is at its source control state and
// the guard holds; it applies all writes atomically and moves control to
// dst.
type transition struct {
	dst    int
	guard  *bexpr
	writes []write
	desc   string
	pos    Pos
}

// An automaton is the control state machine of one component.
//
type automaton struct {
	comp     *component
	nstates  int
	terminal int // terminal control state of an initial process, -1 for always
	trans    [][]transition

	reads    []int // signals read by guards
	writeSet []int // signals written by transitions
}

// waitingOn returns the signals read by the guards leaving the given
// control state, for blocked-state diagnostics.
//
func (a *automaton) waitingOn(state int) []int {
	set := make(map[int]bool)
	for _, t := range a.trans[state] {
		t.guard.signals(set)
	}
	return sortedKeys(set)
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// buildAutomata builds one automaton per component of the netlist.
//
func buildAutomata(nl *netlist) ([]*automaton, *ModelError) {
	auts := make([]*automaton, len(nl.comps))
	for i, c := range nl.comps {
		a, err := buildAutomaton(c)
		if err != nil {
			return nil, err
		}
		auts[i] = a
	}
	return auts, nil
}

func buildAutomaton(c *component) (*automaton, *ModelError) {
	if len(c.module.Procs) > 1 {
		return nil, &ModelError{Component: c.name, Pos: c.module.Procs[1].Pos,
			Msg: "a module may contain a single always or initial block"}
	}
	proc := c.module.Procs[0]
	b := &builder{a: &automaton{comp: c, terminal: -1}, c: c}
	entry := b.newState()
	switch proc.Kind {
	case ProcAlways:
		if err := b.stmt(proc.Body, entry, entry); err != nil {
			return nil, err
		}
	case ProcInitial:
		term := b.newState()
		if err := b.stmt(proc.Body, entry, term); err != nil {
			return nil, err
		}
		b.a.terminal = term
	}
	b.record()
	return b.a, nil
}

type builder struct {
	a *automaton
	c *component
}

func (b *builder) newState() int {
	s := b.a.nstates
	b.a.nstates++
	b.a.trans = append(b.a.trans, nil)
	return s
}

func (b *builder) addTrans(from, to int, guard *bexpr, writes []write, desc string, at Pos) {
	b.a.trans[from] = append(b.a.trans[from], transition{
		dst: to, guard: guard, writes: writes, desc: desc, pos: at,
	})
}

func (b *builder) stmt(s Stmt, from, to int) *ModelError {
	switch s := s.(type) {
	case *Block:
		if len(s.Stmts) == 0 {
			b.addTrans(from, to, nil, nil, "skip", s.Pos)
			return nil
		}
		cur := from
		for i, sub := range s.Stmts {
			next := to
			if i < len(s.Stmts)-1 {
				next = b.newState()
			}
			if err := b.stmt(sub, cur, next); err != nil {
				return err
			}
			cur = next
		}
		return nil
	case *Assign:
		w, desc, err := b.assign(s)
		if err != nil {
			return err
		}
		b.addTrans(from, to, nil, []write{w}, desc, s.Pos)
		return nil
	case *Wait:
		g, err := b.expr(s.Cond)
		if err != nil {
			return err
		}
		b.addTrans(from, to, g, nil, "wait ("+exprString(s.Cond)+")", s.Pos)
		return nil
	case *If:
		var taken *bexpr // disjunction of arm conditions, for the else arm
		for _, arm := range s.Arms {
			g, err := b.expr(arm.Cond)
			if err != nil {
				return err
			}
			gdesc := "if (" + exprString(arm.Cond) + ")"
			if err := b.guarded(g, gdesc, arm.Body, from, to); err != nil {
				return err
			}
			if taken == nil {
				taken = g
			} else {
				taken = &bexpr{op: opOr, x: taken, y: g}
			}
		}
		if s.Else != nil {
			if err := b.guarded(bnot(taken), "else", s.Else, from, to); err != nil {
				return err
			}
		}
		return nil
	case *While:
		g, err := b.expr(s.Cond)
		if err != nil {
			return err
		}
		cs := exprString(s.Cond)
		if err := b.guarded(g, "while ("+cs+")", s.Body, from, from); err != nil {
			return err
		}
		b.addTrans(from, to, bnot(g), nil, "exit while ("+cs+")", s.Pos)
		return nil
	}
	return &ModelError{Component: b.c.name, Pos: s.stmtPos(), Msg: "unsupported statement form"}
}

// guarded compiles a statement fired under an extra guard. Simple bodies
// (a single assignment or wait) merge into one atomic transition; compound
// bodies spend one step on the guard and then run normally.
//
func (b *builder) guarded(g *bexpr, gdesc string, body Stmt, from, to int) *ModelError {
	switch s := body.(type) {
	case *Assign:
		w, desc, err := b.assign(s)
		if err != nil {
			return err
		}
		b.addTrans(from, to, g, []write{w}, gdesc+" "+desc, s.Pos)
		return nil
	case *Wait:
		cond, err := b.expr(s.Cond)
		if err != nil {
			return err
		}
		b.addTrans(from, to, band(g, cond), nil, gdesc+" wait ("+exprString(s.Cond)+")", s.Pos)
		return nil
	default:
		mid := b.newState()
		b.addTrans(from, mid, g, nil, gdesc, body.stmtPos())
		return b.stmt(body, mid, to)
	}
}

func (b *builder) assign(s *Assign) (write, string, *ModelError) {
	sig, ok := b.c.resolve(s.LHS)
	if !ok {
		return write{}, "", &ModelError{Component: b.c.name, Pos: s.LHS.Pos,
			Msg: "signal " + s.LHS.String() + " is not declared"}
	}
	rhs, err := b.expr(s.RHS)
	if err != nil {
		return write{}, "", err
	}
	return write{sig: sig, rhs: rhs}, s.LHS.String() + " = " + exprString(s.RHS), nil
}

func (b *builder) expr(e Expr) (*bexpr, *ModelError) {
	switch e := e.(type) {
	case *Lit:
		return &bexpr{op: opLit, val: e.Val}, nil
	case *Ref:
		sig, ok := b.c.resolve(e.SignalRef)
		if !ok {
			return nil, &ModelError{Component: b.c.name, Pos: e.SignalRef.Pos,
				Msg: "signal " + e.SignalRef.String() + " is not declared"}
		}
		return &bexpr{op: opSig, sig: sig}, nil
	case *Unary:
		x, err := b.expr(e.X)
		if err != nil {
			return nil, err
		}
		return bnot(x), nil
	case *Binary:
		x, err := b.expr(e.X)
		if err != nil {
			return nil, err
		}
		y, err := b.expr(e.Y)
		if err != nil {
			return nil, err
		}
		op := opAnd
		switch e.Op {
		case OpOr:
			op = opOr
		case OpEq:
			op = opEq
		case OpNeq:
			op = opNeq
		}
		return &bexpr{op: op, x: x, y: y}, nil
	}
	return nil, &ModelError{Component: b.c.name, Pos: e.exprPos(), Msg: "unsupported expression form"}
}

// record fills the automaton's read and write sets (the signal-sharing
// relation used by the composition).
//
func (b *builder) record() {
	reads := make(map[int]bool)
	writes := make(map[int]bool)
	for _, ts := range b.a.trans {
		for _, t := range ts {
			t.guard.signals(reads)
			for _, w := range t.writes {
				writes[w.sig] = true
			}
		}
	}
	b.a.reads = sortedKeys(reads)
	b.a.writeSet = sortedKeys(writes)
}

func exprString(e Expr) string {
	switch e := e.(type) {
	case *Lit:
		if e.Val {
			return "1"
		}
		return "0"
	case *Ref:
		return e.SignalRef.String()
	case *Unary:
		return "!" + exprString(e.X)
	case *Binary:
		return "(" + exprString(e.X) + " " + e.Op + " " + exprString(e.Y) + ")"
	}
	return "?"
}
