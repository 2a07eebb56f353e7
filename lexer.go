// lexer.go — whitespace-sensitive lexer for the functional expression language.
//
// The scanner mirrors the conventions of the parser (parser.go):
//   - '(' is CLROUND when it immediately follows something callable (no
//     whitespace in between); only CLROUND participates in calls.
//   - every token records whether a newline occurred before it; the parser
//     uses that to terminate statements (operators must trail a line to
//     continue an expression).
//   - '#' starts a comment running to end of line.
package functional

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND  // "(" preceded by whitespace (grouping)
	CLROUND // "(" not preceded by whitespace (call)
	RROUND  // ")"
	LSQUARE // "["
	RSQUARE // "]"
	COMMA   // ","
	DOTS    // "..."

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	ASSIGN     // "="
	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="
	ARROW      // "->" lambda sugar
	TILDE      // "~"  lambda parameter chain
	COALESCE   // "??" truthiness fallback
	COMPOSE_L  // "<<" right-to-left composition
	COMPOSE_R  // ">>" left-to-right composition

	// Literals & identifiers
	ID
	STRING
	INTEGER
	NUMBER
	BOOLEAN
	NULL

	// Keywords
	AND
	OR
	NOT
	LET
	DO
	END
	IF
	THEN
	ELSE
	FUNCTION
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type     TokenType
	Lexeme   string
	Literal  interface{} // parsed value for literals
	Line     int
	Col      int
	NLBefore bool // a newline separated this token from the previous one
}

var keywords = map[string]TokenType{
	"null":  NULL,
	"false": BOOLEAN,
	"true":  BOOLEAN,
	"and":   AND,
	"or":    OR,
	"not":   NOT,
	"let":   LET,
	"do":    DO,
	"end":   END,
	"if":    IF,
	"then":  THEN,
	"else":  ELSE,
	"fun":   FUNCTION,
}

// LexError is a scanning failure at a 1-based source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans a source string into tokens.
type Lexer struct {
	src    string
	cur    int
	start  int
	line   int
	col    int
	tokens []Token

	whitespaceBefore bool
	newlineBefore    bool

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 0}
}

// Scan tokenizes the whole source. The returned slice always ends with EOF.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipBlanks()
		l.start = l.cur
		l.tokStartLine, l.tokStartCol = l.line, l.col+1
		if l.isAtEnd() {
			l.addToken(EOF, nil)
			return l.tokens, nil
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekN(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) match(expect byte) bool {
	if l.isAtEnd() || l.src[l.cur] != expect {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:     tt,
		Lexeme:   l.src[l.start:l.cur],
		Literal:  lit,
		Line:     l.tokStartLine,
		Col:      l.tokStartCol,
		NLBefore: l.newlineBefore,
	})
	l.whitespaceBefore = false
	l.newlineBefore = false
}

func (l *Lexer) previousToken() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

// skipBlanks consumes whitespace and '#' comments, tracking whether a newline
// was seen (statement separation) and whether any whitespace preceded the next
// token (call-paren disambiguation).
func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.whitespaceBefore = true
			l.advance()
		case '\n':
			l.whitespaceBefore = true
			l.newlineBefore = true
			l.advance()
		case '#':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// canBeLeftOperand reports whether a token may end a callee expression; '('
// directly after one of these (no whitespace) is a call paren.
func canBeLeftOperand(t TokenType) bool {
	switch t {
	case ID, STRING, INTEGER, NUMBER, BOOLEAN, NULL, RROUND, RSQUARE, END:
		return true
	default:
		return false
	}
}

func (l *Lexer) scanToken() error {
	ch := l.advance()
	switch ch {
	case '(':
		prev := l.previousToken()
		if !l.whitespaceBefore && prev != nil && canBeLeftOperand(prev.Type) {
			l.addToken(CLROUND, nil)
		} else {
			l.addToken(LROUND, nil)
		}
	case ')':
		l.addToken(RROUND, nil)
	case '[':
		l.addToken(LSQUARE, nil)
	case ']':
		l.addToken(RSQUARE, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '+':
		l.addToken(PLUS, nil)
	case '-':
		if l.match('>') {
			l.addToken(ARROW, nil)
		} else {
			l.addToken(MINUS, nil)
		}
	case '*':
		l.addToken(MULT, nil)
	case '/':
		l.addToken(DIV, nil)
	case '%':
		l.addToken(MOD, nil)
	case '~':
		l.addToken(TILDE, nil)
	case '=':
		if l.match('=') {
			l.addToken(EQ, nil)
		} else {
			l.addToken(ASSIGN, nil)
		}
	case '!':
		if l.match('=') {
			l.addToken(NEQ, nil)
		} else {
			return l.err("unexpected character '!'")
		}
	case '<':
		switch {
		case l.match('='):
			l.addToken(LESS_EQ, nil)
		case l.match('<'):
			l.addToken(COMPOSE_L, nil)
		default:
			l.addToken(LESS, nil)
		}
	case '>':
		switch {
		case l.match('='):
			l.addToken(GREATER_EQ, nil)
		case l.match('>'):
			l.addToken(COMPOSE_R, nil)
		default:
			l.addToken(GREATER, nil)
		}
	case '?':
		if l.match('?') {
			l.addToken(COALESCE, nil)
		} else {
			return l.err("unexpected character '?'")
		}
	case '.':
		if l.peek() == '.' && l.peekN(1) == '.' {
			l.advance()
			l.advance()
			l.addToken(DOTS, nil)
		} else {
			return l.err("unexpected character '.'")
		}
	case '"':
		return l.scanString()
	default:
		switch {
		case isDigit(ch):
			return l.scanNumber()
		case isAlpha(ch):
			l.scanIdent()
		default:
			return l.err(fmt.Sprintf("unexpected character %q", string(ch)))
		}
	}
	return nil
}

// scanString parses a double-quoted string with the usual escapes.
func (l *Lexer) scanString() error {
	var out []byte
	for {
		if l.isAtEnd() {
			return l.err("unterminated string")
		}
		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch == '\n' {
			return l.err("unterminated string")
		}
		if ch == '\\' {
			if l.isAtEnd() {
				return l.err("unfinished escape sequence")
			}
			esc := l.advance()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				return l.err(fmt.Sprintf("invalid escape '\\%s'", string(esc)))
			}
			continue
		}
		out = append(out, ch)
	}
	l.addToken(STRING, string(out))
	return nil
}

func (l *Lexer) scanNumber() error {
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	text := l.src[l.start:l.cur]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.err("malformed number: " + text)
		}
		l.addToken(NUMBER, f)
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return l.err("malformed integer: " + text)
	}
	l.addToken(INTEGER, n)
	return nil
}

func (l *Lexer) scanIdent() {
	for isAlphaNum(l.peek()) {
		l.advance()
	}
	text := l.src[l.start:l.cur]
	if tt, ok := keywords[text]; ok {
		switch tt {
		case BOOLEAN:
			l.addToken(BOOLEAN, text == "true")
		case NULL:
			l.addToken(NULL, nil)
		default:
			l.addToken(tt, nil)
		}
		return
	}
	l.addToken(ID, text)
}
