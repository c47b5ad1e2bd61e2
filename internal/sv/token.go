// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sv implements a lexer for the supported Verilog subset.
//
package sv

import "strconv"

// Type is the type of a lexical token.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Illegal
	Ident
	Number

	LParen
	RParen
	Semi
	Comma
	Dot
	Assign // =
	Bang   // !
	AndAnd // &&
	OrOr   // ||
	Eq     // ==
	Neq    // !=
	LtEq   // <= (recognized so the parser can reject it by name)

	Module
	Endmodule
	Interface
	Endinterface
	Input
	Output
	Inout
	Wire
	Logic
	Reg
	Always
	Initial
	Begin
	End
	If
	Else
	While
	Wait
)

var tokenNames = map[Type]string{
	EOF:          "end of input",
	Illegal:      "illegal token",
	Ident:        "identifier",
	Number:       "number",
	LParen:       "'('",
	RParen:       "')'",
	Semi:         "';'",
	Comma:        "','",
	Dot:          "'.'",
	Assign:       "'='",
	Bang:         "'!'",
	AndAnd:       "'&&'",
	OrOr:         "'||'",
	Eq:           "'=='",
	Neq:          "'!='",
	LtEq:         "'<='",
	Module:       "'module'",
	Endmodule:    "'endmodule'",
	Interface:    "'interface'",
	Endinterface: "'endinterface'",
	Input:        "'input'",
	Output:       "'output'",
	Inout:        "'inout'",
	Wire:         "'wire'",
	Logic:        "'logic'",
	Reg:          "'reg'",
	Always:       "'always'",
	Initial:      "'initial'",
	Begin:        "'begin'",
	End:          "'end'",
	If:           "'if'",
	Else:         "'else'",
	While:        "'while'",
	Wait:         "'wait'",
}

var keywords = map[string]Type{
	"module":       Module,
	"endmodule":    Endmodule,
	"interface":    Interface,
	"endinterface": Endinterface,
	"input":        Input,
	"output":       Output,
	"inout":        Inout,
	"wire":         Wire,
	"logic":        Logic,
	"reg":          Reg,
	"always":       Always,
	"initial":      Initial,
	"begin":        Begin,
	"end":          End,
	"if":           If,
	"else":         Else,
	"while":        While,
	"wait":         Wait,
}

func (t Type) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// A Token is a lexical token with its position in the source text.
// Line and Col are 1-based.
//
type Token struct {
	Type Type
	Text string
	Val  int // value of a Number token
	Line int
	Col  int
}

// String returns a human readable representation of the token suitable for
// inclusion in error messages.
//
func (t Token) String() string {
	switch t.Type {
	case Ident, Number, Illegal:
		return "'" + t.Text + "'"
	}
	return t.Type.String()
}
