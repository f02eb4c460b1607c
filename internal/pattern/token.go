package pattern

import (
	"fmt"
)

// TokenType is the type of a lexical token.
type TokenType int

const (
	TokenError TokenType = iota
	TokenEOF

	TokenIdent // key name, keyword or action
	TokenCode  // #65307

	TokenDot      // .
	TokenComma    // ,
	TokenPipe     // |
	TokenStar     // *
	TokenQuestion // ?
	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
)

// Token is a lexical token. Pos is the byte offset of its first character.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of pattern"
	case TokenError:
		return fmt.Sprintf("error(%s)", t.Literal)
	case TokenCode:
		return fmt.Sprintf("%q", "#"+t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}
