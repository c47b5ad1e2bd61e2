package sv

import "unicode"

// A Lexer scans a source string into tokens. The zero value is not usable,
// use New.
//
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// New returns a new Lexer for the given source text.
//
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// skipSpace skips whitespace and comments. It returns false on an
// unterminated block comment.
//
func (l *Lexer) skipSpace() bool {
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.src) {
					return false
				}
				if l.advance() == '*' && l.peek() == '/' {
					l.advance()
					break
				}
			}
		default:
			return true
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// Next returns the next token in the input. Once the input is exhausted,
// Next returns EOF tokens forever.
//
func (l *Lexer) Next() Token {
	if !l.skipSpace() {
		return Token{Type: Illegal, Text: "unterminated comment", Line: l.line, Col: l.col}
	}
	t := Token{Line: l.line, Col: l.col}
	if l.pos >= len(l.src) {
		t.Type = EOF
		return t
	}
	c := l.advance()
	switch {
	case isIdentStart(c):
		start := l.pos - 1
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			l.advance()
		}
		t.Text = l.src[start:l.pos]
		if k, ok := keywords[t.Text]; ok {
			t.Type = k
		} else {
			t.Type = Ident
		}
	case '0' <= c && c <= '9':
		start := l.pos - 1
		v := int(c - '0')
		for l.pos < len(l.src) && '0' <= l.peek() && l.peek() <= '9' {
			v = v*10 + int(l.peek()-'0')
			l.advance()
		}
		t.Type, t.Text, t.Val = Number, l.src[start:l.pos], v
	case c == '(':
		t.Type = LParen
	case c == ')':
		t.Type = RParen
	case c == ';':
		t.Type = Semi
	case c == ',':
		t.Type = Comma
	case c == '.':
		t.Type = Dot
	case c == '=':
		if l.peek() == '=' {
			l.advance()
			t.Type = Eq
		} else {
			t.Type = Assign
		}
	case c == '!':
		if l.peek() == '=' {
			l.advance()
			t.Type = Neq
		} else {
			t.Type = Bang
		}
	case c == '&':
		if l.peek() == '&' {
			l.advance()
			t.Type = AndAnd
		} else {
			t.Type, t.Text = Illegal, "&"
		}
	case c == '|':
		if l.peek() == '|' {
			l.advance()
			t.Type = OrOr
		} else {
			t.Type, t.Text = Illegal, "|"
		}
	case c == '<':
		if l.peek() == '=' {
			l.advance()
			t.Type = LtEq
		} else {
			t.Type, t.Text = Illegal, "<"
		}
	default:
		t.Type, t.Text = Illegal, string(rune(c))
	}
	return t
}
