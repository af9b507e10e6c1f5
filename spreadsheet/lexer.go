package spreadsheet

// TokenType represents different types of tokens in formulas
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenEquals
	TokenNumber
	TokenString
	TokenBoolean
	TokenCell
	TokenRange
	TokenFunction
	TokenUnaryPrefixOp
	TokenUnaryPostfixOp
	TokenBinaryOp
	TokenComma
	TokenLeftParen
	TokenRightParen
	TokenIdentifier
)

// tokenTypeNames gives human-readable names for diagnostics.
var tokenTypeNames = map[TokenType]string{
	TokenEOF:            "end of formula",
	TokenEquals:         "'='",
	TokenNumber:         "number",
	TokenString:         "string",
	TokenBoolean:        "boolean",
	TokenCell:           "cell reference",
	TokenRange:          "range reference",
	TokenFunction:       "function",
	TokenUnaryPrefixOp:  "unary operator",
	TokenUnaryPostfixOp: "'%'",
	TokenBinaryOp:       "operator",
	TokenComma:          "','",
	TokenLeftParen:      "'('",
	TokenRightParen:     "')'",
	TokenIdentifier:     "identifier",
}

// character classification constants. slightly easier to read.
const (
	charNull      = 0
	charTab       = '\t'
	charNewline   = '\n'
	charReturn    = '\r'
	charSpace     = ' '
	charQuote     = '"'
	charPercent   = '%'
	charAmpersand = '&'
	charLParen    = '('
	charRParen    = ')'
	charAsterisk  = '*'
	charPlus      = '+'
	charComma     = ','
	charMinus     = '-'
	charPeriod    = '.'
	charSlash     = '/'
	charColon     = ':'
	charLess      = '<'
	charEqual     = '='
	charGreater   = '>'
	charCaret     = '^'
)

// Token represents a lexical token with position information
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune position in input
}

// lexerState tracks enough context to classify + and - as unary or
// binary. The grammar itself is enforced by the parser.
type lexerState int

const (
	stateStart lexerState = iota
	stateAfterValue
	stateAfterOperator
	stateAfterLeftParen
	stateAfterRightParen
	stateAfterComma
)

// Lexer tokenizes spreadsheet formula expressions
type Lexer struct {
	runes []rune // UTF-8 aware representation
	pos   int
	state lexerState
}

// NewLexer creates a new lexer for the given formula input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		runes: []rune(input), // runes for UTF-8 support. could do without but a real pain
	}
}

// Tokenize scans the entire input. The input must start with the '='
// formula marker, which is emitted as the first token. A nil error
// means the token stream ends with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, *ParseError) {
	if len(l.runes) == 0 || l.runes[0] != charEqual {
		return nil, &ParseError{Pos: 0, Expected: "'=' formula marker", Got: l.substring(0, min(len(l.runes), 1))}
	}

	tokens := []Token{{Type: TokenEquals, Value: "=", Pos: 0}}
	l.pos = 1
	l.state = stateStart

	for l.pos < len(l.runes) {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenEOF {
			break
		}
		tokens = append(tokens, tok)
		l.updateState(tok.Type)
	}

	tokens = append(tokens, Token{Type: TokenEOF, Pos: l.pos})
	return tokens, nil
}

// updateState advances the unary/binary classification state.
func (l *Lexer) updateState(tokenType TokenType) {
	switch tokenType {
	case TokenNumber, TokenString, TokenBoolean, TokenCell, TokenRange, TokenIdentifier:
		l.state = stateAfterValue
	case TokenUnaryPrefixOp, TokenBinaryOp:
		l.state = stateAfterOperator
	case TokenUnaryPostfixOp:
		// postfix operators keep the value state
		l.state = stateAfterValue
	case TokenLeftParen:
		l.state = stateAfterLeftParen
	case TokenRightParen:
		l.state = stateAfterRightParen
	case TokenComma:
		l.state = stateAfterComma
	case TokenFunction:
		// function name is always followed by '('
	}
}

// nextToken returns the next token from the input
func (l *Lexer) nextToken() (Token, *ParseError) {
	l.skipWhitespace()

	if l.pos >= len(l.runes) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	startPos := l.pos
	ch := l.current()

	if ch == charQuote {
		return l.scanString()
	}

	if isDigit(ch) || (ch == charPeriod && isDigit(l.peek(1))) {
		return l.scanNumber(), nil
	}

	switch ch {
	case charLParen:
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Pos: startPos}, nil
	case charRParen:
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Pos: startPos}, nil
	case charComma:
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: startPos}, nil
	case charPlus, charMinus:
		l.pos++
		if l.isUnaryContext() {
			return Token{Type: TokenUnaryPrefixOp, Value: string(ch), Pos: startPos}, nil
		}
		return Token{Type: TokenBinaryOp, Value: string(ch), Pos: startPos}, nil
	case charAsterisk, charSlash, charCaret, charAmpersand:
		l.pos++
		return Token{Type: TokenBinaryOp, Value: string(ch), Pos: startPos}, nil
	case charPercent:
		l.pos++
		return Token{Type: TokenUnaryPostfixOp, Value: "%", Pos: startPos}, nil
	case charEqual:
		l.pos++
		return Token{Type: TokenBinaryOp, Value: "=", Pos: startPos}, nil
	case charLess:
		l.pos++
		if l.current() == charEqual {
			l.pos++
			return Token{Type: TokenBinaryOp, Value: "<=", Pos: startPos}, nil
		}
		if l.current() == charGreater {
			l.pos++
			return Token{Type: TokenBinaryOp, Value: "<>", Pos: startPos}, nil
		}
		return Token{Type: TokenBinaryOp, Value: "<", Pos: startPos}, nil
	case charGreater:
		l.pos++
		if l.current() == charEqual {
			l.pos++
			return Token{Type: TokenBinaryOp, Value: ">=", Pos: startPos}, nil
		}
		return Token{Type: TokenBinaryOp, Value: ">", Pos: startPos}, nil
	}

	if isAlpha(ch) || ch == '_' {
		return l.scanIdentifierOrCell(), nil
	}

	return Token{}, &ParseError{Pos: startPos, Expected: "valid token", Got: string(ch)}
}

// helper methods for character navigation and classification

func (l *Lexer) substring(start, end int) string {
	if start < 0 || end > len(l.runes) || start > end {
		return ""
	}
	return string(l.runes[start:end])
}

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.runes) || pos < 0 {
		return charNull
	}
	return l.runes[pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn {
			l.pos++
		} else {
			break
		}
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}

// scanNumber scans a number token including decimals and scientific notation
func (l *Lexer) scanNumber() Token {
	startPos := l.pos

	for l.pos < len(l.runes) && isDigit(l.current()) {
		l.pos++
	}

	if l.current() == charPeriod && isDigit(l.peek(1)) {
		l.pos++ // consume '.'
		for l.pos < len(l.runes) && isDigit(l.current()) {
			l.pos++
		}
	}

	// scientific notation (e or E)
	if l.current() == 'e' || l.current() == 'E' {
		savedPos := l.pos
		l.pos++

		if l.current() == charPlus || l.current() == charMinus {
			l.pos++
		}

		if !isDigit(l.current()) {
			// not scientific notation, restore position
			l.pos = savedPos
		} else {
			for l.pos < len(l.runes) && isDigit(l.current()) {
				l.pos++
			}
		}
	}

	return Token{Type: TokenNumber, Value: l.substring(startPos, l.pos), Pos: startPos}
}

// scanString scans a string literal with support for double-quote escapes
func (l *Lexer) scanString() (Token, *ParseError) {
	startPos := l.pos
	l.pos++ // consume opening quote

	var result []rune

	for l.pos < len(l.runes) {
		ch := l.current()

		if ch == charQuote {
			if l.peek(1) == charQuote {
				// doubled quote is an escaped quote
				result = append(result, charQuote)
				l.pos += 2
			} else {
				l.pos++ // consume closing quote
				return Token{Type: TokenString, Value: string(result), Pos: startPos}, nil
			}
		} else {
			result = append(result, ch)
			l.pos++
		}
	}

	return Token{}, &ParseError{Pos: startPos, Expected: "closing '\"'", Got: "end of formula"}
}

// scanIdentifierOrCell scans identifiers, functions, cells, ranges, and booleans
func (l *Lexer) scanIdentifierOrCell() Token {
	startPos := l.pos

	for l.pos < len(l.runes) && (isAlphaNumeric(l.current()) || l.current() == '_') {
		l.pos++
	}

	value := l.substring(startPos, l.pos)
	upperValue := asciiUpper(value)

	if upperValue == "TRUE" || upperValue == "FALSE" {
		return Token{Type: TokenBoolean, Value: upperValue, Pos: startPos}
	}

	if isCellText(value) {
		// check for a range (A1:B2)
		if l.current() == charColon {
			savedPos := l.pos
			l.pos++ // consume ':'

			cellStart := l.pos
			for l.pos < len(l.runes) && isAlphaNumeric(l.current()) {
				l.pos++
			}

			secondCell := l.substring(cellStart, l.pos)
			if isCellText(secondCell) {
				return Token{Type: TokenRange, Value: l.substring(startPos, l.pos), Pos: startPos}
			}
			// not a valid range, restore position and return just the cell
			l.pos = savedPos
		}
		return Token{Type: TokenCell, Value: value, Pos: startPos}
	}

	// function name when followed by an open paren
	if l.current() == charLParen {
		return Token{Type: TokenFunction, Value: upperValue, Pos: startPos}
	}

	return Token{Type: TokenIdentifier, Value: value, Pos: startPos}
}

// isCellText checks if a string is a valid cell reference (e.g., A1, B12)
func isCellText(s string) bool {
	if len(s) < 2 {
		return false
	}

	letterEnd := 0
	for i, ch := range s {
		if ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' {
			letterEnd = i + 1
		} else {
			break
		}
	}

	// at least one letter and one digit
	if letterEnd == 0 || letterEnd == len(s) {
		return false
	}

	for i := letterEnd; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// asciiUpper converts a string to uppercase without touching non-letters.
func asciiUpper(s string) string {
	result := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch >= 'a' && ch <= 'z' {
			ch -= 32
		}
		result = append(result, ch)
	}
	return string(result)
}

// isUnaryContext checks if the current context allows for unary operators
func (l *Lexer) isUnaryContext() bool {
	switch l.state {
	case stateStart, stateAfterOperator, stateAfterLeftParen, stateAfterComma:
		return true
	default:
		return false
	}
}
