package verilock

import "fmt"

// A ParseError reports a malformed or unsupported construct in the source
// text. Parsing stops at the first error, so a ParseError always points at
// the first offending construct.
//
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Stage returns the pipeline stage that produced the error.
func (e *ParseError) Stage() string { return "parse" }

// An ElabError reports a structural problem found while flattening the
// instantiation hierarchy: an undeclared module, a port arity mismatch or
// an unresolvable signal driver conflict.
//
type ElabError struct {
	Scope string // hierarchical instance path, empty at top level
	Pos   Pos
	Msg   string
}

func (e *ElabError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%d:%d: in %s: %s", e.Pos.Line, e.Pos.Col, e.Scope, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// Stage returns the pipeline stage that produced the error.
func (e *ElabError) Stage() string { return "elaboration" }

// A ModelError reports a process that cannot be interpreted as a control
// automaton: an unbound signal reference or an unsupported statement form.
//
type ModelError struct {
	Component string
	Pos       Pos
	Msg       string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%d:%d: in %s: %s", e.Pos.Line, e.Pos.Col, e.Component, e.Msg)
}

// Stage returns the pipeline stage that produced the error.
func (e *ModelError) Stage() string { return "model" }
