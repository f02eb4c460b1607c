package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"interact/internal/event"
	"interact/internal/keys"
	"interact/internal/recognizer"
)

// Parser builds a recognizer prototype from pattern tokens.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	resolve   Resolver
}

// NewParser returns a parser over src that resolves actions with resolve.
func NewParser(src string, resolve Resolver) *Parser {
	p := &Parser{
		lexer:   NewLexer(src),
		resolve: resolve,
	}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// Parse parses the whole input as a single expression.
func (p *Parser) Parse() (recognizer.Recognizer, error) {
	if p.curToken.Type == TokenEOF {
		return nil, p.errorf(p.curToken, "empty pattern")
	}
	r, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.curToken.Type != TokenEOF {
		return nil, p.unexpected()
	}
	return r, nil
}

// parseExpr handles seq ('|' seq)*.
func (p *Parser) parseExpr() (recognizer.Recognizer, error) {
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	var rest []recognizer.Recognizer
	for p.curToken.Type == TokenPipe {
		p.nextToken()
		r, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		rest = append(rest, r)
	}
	if len(rest) == 0 {
		return first, nil
	}
	return recognizer.Either(first, rest[0], rest[1:]...), nil
}

// parseSeq handles postfix+.
func (p *Parser) parseSeq() (recognizer.Recognizer, error) {
	var steps []recognizer.Recognizer
	for p.startsPrimary() {
		r, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		steps = append(steps, r)
	}
	switch len(steps) {
	case 0:
		return nil, p.unexpected()
	case 1:
		return steps[0], nil
	default:
		return recognizer.Concat(steps[0], steps[1], steps[2:]...), nil
	}
}

func (p *Parser) startsPrimary() bool {
	switch p.curToken.Type {
	case TokenIdent, TokenCode, TokenLParen:
		return true
	}
	return false
}

// parsePostfix handles primary ('*' | '?' | '[' action ']')*.
func (p *Parser) parsePostfix() (recognizer.Recognizer, error) {
	r, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.curToken.Type {
		case TokenStar:
			p.nextToken()
			r = recognizer.Repeat(r)
		case TokenQuestion:
			p.nextToken()
			r = recognizer.Maybe(r)
		case TokenLBracket:
			h, err := p.parseAction()
			if err != nil {
				return nil, err
			}
			r = recognizer.WithHandler(r, h)
		default:
			return r, nil
		}
	}
}

func (p *Parser) parsePrimary() (recognizer.Recognizer, error) {
	tok := p.curToken
	switch tok.Type {
	case TokenLParen:
		p.nextToken()
		r, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return r, nil
	case TokenCode:
		return p.parseKey()
	case TokenIdent:
	default:
		return nil, p.unexpected()
	}

	switch tok.Literal {
	case "chord":
		return p.parseChord()
	case "until":
		return p.parseUntil()
	case "keys":
		p.nextToken()
		if err := p.expect(TokenLParen); err != nil {
			return nil, err
		}
		r, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return recognizer.IgnoreKeyUp(r), nil
	case "mouse":
		return p.parseButton()
	case "move":
		p.nextToken()
		return recognizer.Move(), nil
	case "scroll":
		p.nextToken()
		return recognizer.Scroll(), nil
	}
	return p.parseKey()
}

// parseKey handles KEY ['.' phase] where KEY is a name or #code.
func (p *Parser) parseKey() (recognizer.Recognizer, error) {
	code, err := p.keyCode()
	if err != nil {
		return nil, err
	}
	phase, err := p.parsePhase()
	if err != nil {
		return nil, err
	}
	return recognizer.NewMatch(event.Key{Code: code, Phase: phase}, nil), nil
}

// keyCode consumes a key name or #code token.
func (p *Parser) keyCode() (int, error) {
	tok := p.curToken
	switch tok.Type {
	case TokenCode:
		code, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return 0, p.errorf(tok, "invalid key code #%s", tok.Literal)
		}
		p.nextToken()
		return code, nil
	case TokenIdent:
		code, ok := keys.Lookup(tok.Literal)
		if !ok {
			return 0, p.errorf(tok, "unknown key %q", tok.Literal)
		}
		p.nextToken()
		return code, nil
	default:
		return 0, p.errorf(tok, "expected key, found %s", tok)
	}
}

// parseButton handles 'mouse' '.' BUTTON ['.' phase].
func (p *Parser) parseButton() (recognizer.Recognizer, error) {
	p.nextToken() // mouse
	if err := p.expect(TokenDot); err != nil {
		return nil, err
	}
	tok := p.curToken
	if tok.Type != TokenIdent {
		return nil, p.errorf(tok, "expected mouse button, found %s", tok)
	}
	b, err := event.ParseButton(strings.ToLower(tok.Literal))
	if err != nil {
		return nil, p.errorf(tok, "unknown mouse button %q", tok.Literal)
	}
	p.nextToken()
	phase, err := p.parsePhase()
	if err != nil {
		return nil, err
	}
	return recognizer.NewMatch(event.MouseButton{Button: b, Phase: phase}, nil), nil
}

// parsePhase consumes an optional '.down' or '.up' suffix.
func (p *Parser) parsePhase() (event.Phase, error) {
	if p.curToken.Type != TokenDot {
		return event.Down, nil
	}
	p.nextToken()
	tok := p.curToken
	if tok.Type != TokenIdent {
		return event.Down, p.errorf(tok, "expected down or up, found %s", tok)
	}
	phase, err := event.ParsePhase(strings.ToLower(tok.Literal))
	if err != nil {
		return event.Down, p.errorf(tok, "expected down or up, found %s", tok)
	}
	p.nextToken()
	return phase, nil
}

// parseChord handles 'chord' '(' KEY ['[' action ']'] ',' expr ')'.
func (p *Parser) parseChord() (recognizer.Recognizer, error) {
	p.nextToken() // chord
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	code, err := p.keyCode()
	if err != nil {
		return nil, err
	}
	var arm recognizer.Handler
	if p.curToken.Type == TokenLBracket {
		if arm, err = p.parseAction(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(TokenComma); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return recognizer.Chord(code, arm, body), nil
}

// parseUntil handles 'until' '(' expr ',' expr ')'.
func (p *Parser) parseUntil() (recognizer.Recognizer, error) {
	p.nextToken() // until
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenComma); err != nil {
		return nil, err
	}
	interrupt, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return recognizer.RepeatUntil(body, interrupt), nil
}

// parseAction handles '[' name ']' and resolves name.
func (p *Parser) parseAction() (recognizer.Handler, error) {
	if err := p.expect(TokenLBracket); err != nil {
		return nil, err
	}
	tok := p.curToken
	if tok.Type != TokenIdent {
		return nil, p.errorf(tok, "expected action name, found %s", tok)
	}
	var h recognizer.Handler
	ok := false
	if p.resolve != nil {
		h, ok = p.resolve(tok.Literal)
	}
	if !ok {
		return nil, p.errorf(tok, "unknown action %q", tok.Literal)
	}
	p.nextToken()
	if err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return h, nil
}

func (p *Parser) expect(typ TokenType) error {
	if p.curToken.Type != typ {
		return p.unexpected()
	}
	p.nextToken()
	return nil
}

func (p *Parser) unexpected() error {
	tok := p.curToken
	if tok.Type == TokenError {
		return p.errorf(tok, "%s", tok.Literal)
	}
	return p.errorf(tok, "unexpected %s", tok)
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}
