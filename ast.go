package verilock

// Pos is a 1-based position in the source text.
//
type Pos struct {
	Line int
	Col  int
}

// An AST holds the top level declarations of a source text.
//
type AST struct {
	Modules    []*ModuleDecl
	Interfaces []*InterfaceDecl
}

// An InterfaceDecl declares a named bundle of signals used as a handshake
// channel between module instances.
//
type InterfaceDecl struct {
	Name    string
	Signals []SignalDecl
	Pos     Pos
}

// A ModuleDecl is a module declaration with an ANSI-style header.
//
type ModuleDecl struct {
	Name    string
	Ports   []Port
	Signals []SignalDecl
	Insts   []Inst
	Procs   []*Process
	Pos     Pos
}

// Direction of a module port.
//
type Dir int

// Port directions.
const (
	DirInput Dir = iota
	DirOutput
)

// A Port is a single entry of an ANSI module header. Iface is the interface
// type name for bundle ports and empty for plain signal ports.
//
type Port struct {
	Name  string
	Dir   Dir
	Iface string
	Pos   Pos
}

// A SignalDecl declares a boolean signal with an optional reset value
// (false if omitted).
//
type SignalDecl struct {
	Name  string
	Reset bool
	Pos   Pos
}

// An Inst instantiates a module or an interface with positional
// connections.
//
type Inst struct {
	Type string
	Name string
	Args []SignalRef
	Pos  Pos
}

// A SignalRef names a signal, or a member of an interface bundle when
// Member is non empty.
//
type SignalRef struct {
	Name   string
	Member string
	Pos    Pos
}

func (r SignalRef) String() string {
	if r.Member != "" {
		return r.Name + "." + r.Member
	}
	return r.Name
}

// ProcKind distinguishes looping from run-once processes.
//
type ProcKind int

// Process kinds.
const (
	ProcAlways ProcKind = iota
	ProcInitial
)

// A Process is the behavioral block of a module.
//
type Process struct {
	Kind ProcKind
	Body Stmt
	Pos  Pos
}

// A Stmt is a statement in a process body.
//
type Stmt interface {
	stmtPos() Pos
}

// A Block is a begin/end statement sequence.
type Block struct {
	Stmts []Stmt
	Pos   Pos
}

// An Assign is a blocking assignment.
type Assign struct {
	LHS SignalRef
	RHS Expr
	Pos Pos
}

// A Wait blocks until its condition holds.
type Wait struct {
	Cond Expr
	Pos  Pos
}

// An Arm is one guarded branch of an If.
type Arm struct {
	Cond Expr
	Body Stmt
}

// An If is a chain of guarded branches with an optional else branch.
// Without an else branch the statement blocks until some arm's condition
// holds.
type If struct {
	Arms []Arm
	Else Stmt // nil if absent
	Pos  Pos
}

// A While loops on its body while the condition holds. It never blocks.
type While struct {
	Cond Expr
	Body Stmt
	Pos  Pos
}

func (s *Block) stmtPos() Pos  { return s.Pos }
func (s *Assign) stmtPos() Pos { return s.Pos }
func (s *Wait) stmtPos() Pos   { return s.Pos }
func (s *If) stmtPos() Pos     { return s.Pos }
func (s *While) stmtPos() Pos  { return s.Pos }

// An Expr is a boolean expression over signals.
//
type Expr interface {
	exprPos() Pos
}

// A Lit is a 0 or 1 literal.
type Lit struct {
	Val bool
	Pos Pos
}

// A Ref reads a signal.
type Ref struct {
	SignalRef
}

// Unary and binary operators.
const (
	OpNot = "!"
	OpAnd = "&&"
	OpOr  = "||"
	OpEq  = "=="
	OpNeq = "!="
)

// A Unary is a negation.
type Unary struct {
	Op  string
	X   Expr
	Pos Pos
}

// A Binary combines two subexpressions.
type Binary struct {
	Op   string
	X, Y Expr
	Pos  Pos
}

func (e *Lit) exprPos() Pos    { return e.Pos }
func (e *Ref) exprPos() Pos    { return e.SignalRef.Pos }
func (e *Unary) exprPos() Pos  { return e.Pos }
func (e *Binary) exprPos() Pos { return e.Pos }
