package pattern

import (
	"fmt"
)

// Lexer splits a pattern into tokens. Patterns are ASCII; any other byte is
// reported as an error token.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{input: src}
}

// NextToken returns the next token. After the input is exhausted it keeps
// returning TokenEOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	if typ, ok := punctuation[ch]; ok {
		l.pos++
		return Token{Type: typ, Literal: string(ch), Pos: start}
	}

	switch {
	case ch == '#':
		return l.readCode()
	case isIdentChar(ch):
		return l.readIdent()
	}

	l.pos++
	return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character %q", ch), Pos: start}
}

var punctuation = map[byte]TokenType{
	'.': TokenDot,
	',': TokenComma,
	'|': TokenPipe,
	'*': TokenStar,
	'?': TokenQuestion,
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) readIdent() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	return Token{Type: TokenIdent, Literal: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) readCode() Token {
	start := l.pos
	l.pos++ // '#'
	digits := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == digits {
		return Token{Type: TokenError, Literal: "expected digits after '#'", Pos: start}
	}
	return Token{Type: TokenCode, Literal: l.input[digits:l.pos], Pos: start}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || isDigit(ch) || ch == '_'
}
