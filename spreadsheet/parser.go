package spreadsheet

import (
	"fmt"
	"strconv"
)

// ParseError reports why formula text failed to parse: the rune
// position of the offending token and the token class that was
// expected there. Parsing is total; malformed input always comes back
// as a ParseError, never a panic.
type ParseError struct {
	Pos      int
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("parse error at %d: expected %s", e.Pos, e.Expected)
	}
	return fmt.Sprintf("parse error at %d: expected %s, got %q", e.Pos, e.Expected, e.Got)
}

// Parser parses tokens into an AST
type Parser struct {
	tokens []Token
	pos    int
}

// ParseFormula parses formula source text, including the leading '='
// marker, into an expression tree.
func ParseFormula(src string) (Expr, *ParseError) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// NewParser creates a new parser over a token stream produced by
// Lexer.Tokenize.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token stream and returns the expression.
func (p *Parser) Parse() (Expr, *ParseError) {
	if len(p.tokens) == 0 || p.tokens[0].Type != TokenEquals {
		return nil, &ParseError{Pos: 0, Expected: "'=' formula marker"}
	}
	p.pos = 1 // consume the equals token

	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	// the whole input must be one expression
	if tok := p.current(); tok.Type != TokenEOF {
		return nil, p.errorAt(tok, "end of formula")
	}

	return node, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Pos: len(p.tokens)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) errorAt(tok Token, expected string) *ParseError {
	got := tok.Value
	if tok.Type == TokenEOF {
		got = "end of formula"
	}
	return &ParseError{Pos: tok.Pos, Expected: expected, Got: got}
}

// parseComparison handles comparison operators (lowest precedence)
func (p *Parser) parseComparison() (Expr, *ParseError) {
	left, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenBinaryOp {
			break
		}

		var op BinaryOp
		switch tok.Value {
		case "=":
			op = BinOpEqual
		case "<>":
			op = BinOpNotEqual
		case "<":
			op = BinOpLess
		case "<=":
			op = BinOpLessEqual
		case ">":
			op = BinOpGreater
		case ">=":
			op = BinOpGreaterEqual
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, Left: left, Right: right, Position: left.Pos()}
	}

	return left, nil
}

// parseConcatenation handles the string concatenation operator
func (p *Parser) parseConcatenation() (Expr, *ParseError) {
	left, err := p.parseAddition()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenBinaryOp || tok.Value != "&" {
			break
		}

		p.pos++
		right, err := p.parseAddition()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: BinOpConcat, Left: left, Right: right, Position: left.Pos()}
	}

	return left, nil
}

// parseAddition handles addition and subtraction
func (p *Parser) parseAddition() (Expr, *ParseError) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenBinaryOp {
			break
		}

		var op BinaryOp
		switch tok.Value {
		case "+":
			op = BinOpAdd
		case "-":
			op = BinOpSubtract
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, Left: left, Right: right, Position: left.Pos()}
	}

	return left, nil
}

// parseMultiplication handles multiplication and division
func (p *Parser) parseMultiplication() (Expr, *ParseError) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenBinaryOp {
			break
		}

		var op BinaryOp
		switch tok.Value {
		case "*":
			op = BinOpMultiply
		case "/":
			op = BinOpDivide
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, Left: left, Right: right, Position: left.Pos()}
	}

	return left, nil
}

// parsePower handles exponentiation
func (p *Parser) parsePower() (Expr, *ParseError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	// right-associative
	if tok := p.current(); tok.Type == TokenBinaryOp && tok.Value == "^" {
		p.pos++
		right, err := p.parsePower() // recursive for right-associativity
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: BinOpPower, Left: left, Right: right, Position: left.Pos()}, nil
	}

	return left, nil
}

// parseUnary handles prefix sign operators
func (p *Parser) parseUnary() (Expr, *ParseError) {
	tok := p.current()

	if tok.Type == TokenUnaryPrefixOp {
		var op UnaryOp
		switch tok.Value {
		case "+":
			op = UnaryOpPlus
		case "-":
			op = UnaryOpMinus
		default:
			return nil, p.errorAt(tok, "unary '+' or '-'")
		}

		p.pos++
		operand, err := p.parseUnary() // recurse for chained unary operators
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: op, X: operand, Position: tok.Pos}, nil
	}

	return p.parsePostfix()
}

// parsePostfix handles the postfix percent operator
func (p *Parser) parsePostfix() (Expr, *ParseError) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenUnaryPostfixOp {
			break
		}
		p.pos++
		node = &UnaryExpr{Op: UnaryOpPercent, X: node, Position: node.Pos()}
	}

	return node, nil
}

// parsePrimary handles primary expressions (literals, references,
// function calls, parentheses)
func (p *Parser) parsePrimary() (Expr, *ParseError) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.pos++
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorAt(tok, "number")
		}
		return &Literal{Val: NumberValue(val), Position: tok.Pos}, nil

	case TokenString:
		p.pos++
		return &Literal{Val: TextValue(tok.Value), Position: tok.Pos}, nil

	case TokenBoolean:
		p.pos++
		return &Literal{Val: BoolValue(tok.Value == "TRUE"), Position: tok.Pos}, nil

	case TokenCell:
		p.pos++
		addr, err := ParseAddress(tok.Value)
		if err != nil {
			return nil, p.errorAt(tok, "cell reference")
		}
		return &CellRef{Addr: addr, Position: tok.Pos}, nil

	case TokenRange:
		p.pos++
		span, err := ParseRange(tok.Value)
		if err != nil {
			return nil, p.errorAt(tok, "range reference")
		}
		return &RangeRef{Span: span.Normalize(), Position: tok.Pos}, nil

	case TokenFunction:
		return p.parseFunctionCall()

	case TokenLeftParen:
		p.pos++
		node, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if closer := p.current(); closer.Type != TokenRightParen {
			return nil, p.errorAt(closer, "')'")
		}
		p.pos++
		return node, nil

	default:
		return nil, p.errorAt(tok, "value")
	}
}

// parseFunctionCall parses a function call
func (p *Parser) parseFunctionCall() (Expr, *ParseError) {
	funcTok := p.current()
	p.pos++

	// the lexer only emits TokenFunction when '(' follows
	if open := p.current(); open.Type != TokenLeftParen {
		return nil, p.errorAt(open, "'('")
	}
	p.pos++

	args := []Expr{}

	// empty argument list, e.g. PI()
	if p.current().Type == TokenRightParen {
		p.pos++
		return &CallExpr{Name: funcTok.Value, Args: args, Position: funcTok.Pos}, nil
	}

	for {
		arg, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.current()
		if tok.Type == TokenRightParen {
			p.pos++
			break
		}
		if tok.Type != TokenComma {
			return nil, p.errorAt(tok, "',' or ')'")
		}
		p.pos++
	}

	return &CallExpr{Name: funcTok.Value, Args: args, Position: funcTok.Pos}, nil
}
