// parser.go — Pratt parser producing compact S-expressions.
//
// The AST is a tree of S-expressions: []any whose first element is a string
// tag. **This list is the most important reference.**
//
// Literals & identifiers:
//
//	("id",   string)
//	("int",  int64)
//	("num",  float64)
//	("str",  string)
//	("bool", bool)
//	("null")
//	("const", Value)               // synthetic; produced by SubstituteCall
//
// Operators / expressions:
//
//	("unop",  op, rhs)             // prefix "-" or "not"
//	("binop", op, lhs, rhs)        // "+","-","*","/","%",comparisons,"and","or","<<",">>"
//	("orelse", a, b)               // a ?? b (rhs lazy)
//	("let",    name, value)
//	("assign", name, value)
//
// Calls:
//
//	("call", callee, arg...)       // arg is expr, ("named", name, expr), or ("dots")
//
// Collections, functions, control:
//
//	("array", e1, e2, ...)
//	("fun", ("params", ("param", name, default?)..., ("dots")?), bodyBlock)
//	("if", cond, thenBlock, elseBlockOrNull)
//	("block", n1, n2, ...)
//
// Lambda sugar `x -> expr` and `x ~ y -> expr` desugars to ("fun", ...) here;
// it has no independent runtime representation.
//
// Statement separation is newline-driven: an infix operator only continues an
// expression when it appears on the same line as its left operand (operators
// trail lines in multi-line expressions). Interactive parsing surfaces
// unterminated constructs as *ParseError{Incomplete: true} so REPLs can prompt
// for continuation (IsIncomplete in errors.go).
package functional

import (
	"fmt"
)

// S is the S-expression AST node: a list whose head is a string tag.
type S = []any

// L builds an S-expression node.
func L(tag string, parts ...any) S { return append([]any{tag}, parts...) }

// ParseSExpr parses a complete source string and returns its AST ("block" root).
func ParseSExpr(src string) (S, error) {
	return parseSExpr(src, false)
}

// ParseSExprInteractive is ParseSExpr in interactive mode: unterminated
// constructs at EOF yield a *ParseError with Incomplete set, letting REPLs
// distinguish "keep typing" from hard syntax errors.
func ParseSExprInteractive(src string) (S, error) {
	return parseSExpr(src, true)
}

func parseSExpr(src string, interactive bool) (S, error) {
	lex := NewLexer(src)
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, interactive: interactive}
	return p.parseProgram()
}

type parser struct {
	toks        []Token
	i           int
	interactive bool
}

func (p *parser) peek() Token  { return p.toks[p.i] }
func (p *parser) atEnd() bool  { return p.peek().Type == EOF }
func (p *parser) next() Token  { t := p.toks[p.i]; p.i++; return t }

func (p *parser) errAt(t Token, msg string) error {
	return &ParseError{Line: t.Line, Col: t.Col, Msg: msg}
}

// errEOF reports a failure at end of input; in interactive mode it is marked
// incomplete so the REPL keeps reading.
func (p *parser) errEOF(msg string) error {
	t := p.peek()
	return &ParseError{Line: t.Line, Col: t.Col, Msg: msg, Incomplete: p.interactive}
}

func (p *parser) need(tt TokenType, msg string) (Token, error) {
	if p.peek().Type == tt {
		return p.next(), nil
	}
	if p.atEnd() {
		return Token{}, p.errEOF(msg)
	}
	return Token{}, p.errAt(p.peek(), msg)
}

func (p *parser) parseProgram() (S, error) {
	blk, err := p.parseBlock(EOF)
	if err != nil {
		return nil, err
	}
	return blk, nil
}

// parseBlock reads statements until the given terminator (not consumed).
func (p *parser) parseBlock(enders ...TokenType) (S, error) {
	isEnder := func(t TokenType) bool {
		for _, e := range enders {
			if t == e {
				return true
			}
		}
		return false
	}
	stmts := []any{}
	for !isEnder(p.peek().Type) {
		if p.atEnd() {
			return nil, p.errEOF("unexpected end of input")
		}
		st, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
		// The next statement must start on a fresh line (or end the block).
		if !isEnder(p.peek().Type) && !p.atEnd() && !p.peek().NLBefore {
			return nil, p.errAt(p.peek(), fmt.Sprintf("unexpected token '%s'", p.peek().Lexeme))
		}
	}
	return L("block", stmts...), nil
}

func (p *parser) parseStmt() (S, error) {
	if p.peek().Type == LET {
		p.next()
		name, err := p.need(ID, "expected identifier after 'let'")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(ASSIGN, "expected '=' after let name"); err != nil {
			return nil, err
		}
		if p.atEnd() {
			return nil, p.errEOF("expected expression after '='")
		}
		val, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		return L("let", name.Lexeme, val), nil
	}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if len(e) > 0 {
		if tag, ok := e[0].(string); ok && tag == "params" {
			return nil, p.errAt(p.peek(), "'~' parameter chain without '->'")
		}
	}
	return e, nil
}

// ───────────────────────── precedence / associativity ──────────────────────

func lbp(t TokenType) (int, bool) {
	switch t {
	case ASSIGN:
		return 10, true
	case ARROW:
		return 15, true
	case TILDE:
		return 18, true
	case COALESCE:
		return 20, true
	case OR:
		return 25, true
	case AND:
		return 30, true
	case EQ, NEQ:
		return 40, true
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 50, true
	case COMPOSE_L, COMPOSE_R:
		return 55, true
	case PLUS, MINUS:
		return 60, true
	case MULT, DIV, MOD:
		return 70, true
	}
	return 0, false
}

func isRightAssoc(tt TokenType) bool { return tt == ASSIGN || tt == ARROW }

// ─────────────────────────────── Pratt core ─────────────────────────────────

func (p *parser) expr(minBP int) (S, error) {
	if p.atEnd() {
		return nil, p.errEOF("unexpected end of input")
	}
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	// postfix: call chains
	for p.peek().Type == CLROUND {
		p.next()
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		left = L("call", append([]any{any(left)}, args...)...)
	}

	// infix
	for {
		op := p.peek()
		bp, ok := lbp(op.Type)
		if !ok || bp < minBP {
			break
		}
		// An operator on a fresh line starts a new statement instead.
		if op.NLBefore {
			break
		}
		p.next()

		nextBP := bp + 1
		if isRightAssoc(op.Type) {
			nextBP = bp
		}

		switch op.Type {
		case ASSIGN:
			name, ok := idName(left)
			if !ok {
				return nil, p.errAt(op, "invalid assignment target")
			}
			rhs, err := p.expr(nextBP)
			if err != nil {
				return nil, err
			}
			left = L("assign", name, rhs)

		case ARROW:
			params, err := p.lambdaParams(left, op)
			if err != nil {
				return nil, err
			}
			body, err := p.expr(nextBP)
			if err != nil {
				return nil, err
			}
			left = L("fun", params, L("block", body))

		case TILDE:
			rhs, err := p.expr(nextBP)
			if err != nil {
				return nil, err
			}
			rn, ok := idName(rhs)
			if !ok {
				return nil, p.errAt(op, "'~' expects an identifier on the right")
			}
			if ln, ok := idName(left); ok {
				left = L("params", L("param", ln), L("param", rn))
			} else if tag, _ := left[0].(string); tag == "params" {
				left = append(left, L("param", rn))
			} else {
				return nil, p.errAt(op, "'~' expects identifiers")
			}

		case COALESCE:
			rhs, err := p.expr(nextBP)
			if err != nil {
				return nil, err
			}
			left = L("orelse", left, rhs)

		default:
			rhs, err := p.expr(nextBP)
			if err != nil {
				return nil, err
			}
			left = L("binop", op.Lexeme, left, rhs)
		}

		// postfix calls may follow a parenthesized infix result
		for p.peek().Type == CLROUND {
			p.next()
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			left = L("call", append([]any{any(left)}, args...)...)
		}
	}
	return left, nil
}

func idName(e S) (string, bool) {
	if len(e) == 2 {
		if tag, ok := e[0].(string); ok && tag == "id" {
			if n, ok := e[1].(string); ok {
				return n, true
			}
		}
	}
	return "", false
}

// lambdaParams converts the left operand of '->' (an identifier or a '~'
// chain) into a ("params", ...) node.
func (p *parser) lambdaParams(left S, at Token) (S, error) {
	if n, ok := idName(left); ok {
		return L("params", L("param", n)), nil
	}
	if len(left) > 0 {
		if tag, ok := left[0].(string); ok && tag == "params" {
			return left, nil
		}
	}
	return nil, p.errAt(at, "lambda parameters must be identifiers")
}

func (p *parser) prefix() (S, error) {
	t := p.next()
	switch t.Type {
	case NULL:
		return L("null"), nil
	case BOOLEAN:
		return L("bool", t.Literal.(bool)), nil
	case INTEGER:
		return L("int", t.Literal.(int64)), nil
	case NUMBER:
		return L("num", t.Literal.(float64)), nil
	case STRING:
		return L("str", t.Literal.(string)), nil
	case ID:
		return L("id", t.Lexeme), nil
	case MINUS:
		rhs, err := p.expr(75)
		if err != nil {
			return nil, err
		}
		return L("unop", "-", rhs), nil
	case NOT:
		rhs, err := p.expr(35)
		if err != nil {
			return nil, err
		}
		return L("unop", "not", rhs), nil
	case LROUND, CLROUND:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case LSQUARE:
		return p.parseArray()
	case FUNCTION:
		return p.parseFun()
	case IF:
		return p.parseIf()
	case DO:
		blk, err := p.parseBlock(END)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(END, "expected 'end'"); err != nil {
			return nil, err
		}
		return blk, nil
	case EOF:
		return nil, p.errEOF("unexpected end of input")
	}
	return nil, p.errAt(t, fmt.Sprintf("unexpected token '%s'", t.Lexeme))
}

func (p *parser) parseArray() (S, error) {
	elems := []any{}
	for p.peek().Type != RSQUARE {
		if p.atEnd() {
			return nil, p.errEOF("expected ']'")
		}
		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peek().Type == COMMA {
			p.next()
			continue
		}
		break
	}
	if _, err := p.need(RSQUARE, "expected ']'"); err != nil {
		return nil, err
	}
	return L("array", elems...), nil
}

// parseCallArgs reads call arguments after the opening paren. Each argument is
// an expression, `name = expr` (named), or `...` (forward the caller's
// variadic arguments).
func (p *parser) parseCallArgs() ([]any, error) {
	args := []any{}
	for p.peek().Type != RROUND {
		if p.atEnd() {
			return nil, p.errEOF("expected ')'")
		}
		switch {
		case p.peek().Type == DOTS:
			p.next()
			args = append(args, L("dots"))
		case p.peek().Type == ID && p.toks[p.i+1].Type == ASSIGN:
			name := p.next()
			p.next() // '='
			val, err := p.expr(11) // above ASSIGN, so '=' never nests
			if err != nil {
				return nil, err
			}
			args = append(args, L("named", name.Lexeme, val))
		default:
			e, err := p.expr(11)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		if p.peek().Type == COMMA {
			p.next()
			continue
		}
		break
	}
	if _, err := p.need(RROUND, "expected ')'"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseFun reads `fun(a, b = expr, ...) do body end`.
func (p *parser) parseFun() (S, error) {
	if p.peek().Type != LROUND && p.peek().Type != CLROUND {
		if p.atEnd() {
			return nil, p.errEOF("expected '(' after 'fun'")
		}
		return nil, p.errAt(p.peek(), "expected '(' after 'fun'")
	}
	p.next()

	params := []any{}
	sawDots := false
	for p.peek().Type != RROUND {
		if p.atEnd() {
			return nil, p.errEOF("expected ')'")
		}
		if sawDots {
			return nil, p.errAt(p.peek(), "'...' must be the last parameter")
		}
		if p.peek().Type == DOTS {
			p.next()
			params = append(params, L("dots"))
			sawDots = true
		} else {
			name, err := p.need(ID, "expected parameter name")
			if err != nil {
				return nil, err
			}
			if p.peek().Type == ASSIGN {
				p.next()
				def, err := p.expr(11)
				if err != nil {
					return nil, err
				}
				params = append(params, L("param", name.Lexeme, def))
			} else {
				params = append(params, L("param", name.Lexeme))
			}
		}
		if p.peek().Type == COMMA {
			p.next()
			continue
		}
		break
	}
	if _, err := p.need(RROUND, "expected ')'"); err != nil {
		return nil, err
	}
	if _, err := p.need(DO, "expected 'do' after parameter list"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(END)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(END, "expected 'end'"); err != nil {
		return nil, err
	}
	return L("fun", L("params", params...), body), nil
}

// parseIf reads `if cond then block [else block] end`.
func (p *parser) parseIf() (S, error) {
	cond, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(THEN, "expected 'then'"); err != nil {
		return nil, err
	}
	thenBlk, err := p.parseBlock(ELSE, END)
	if err != nil {
		return nil, err
	}
	elseBlk := S(L("null"))
	if p.peek().Type == ELSE {
		p.next()
		elseBlk, err = p.parseBlock(END)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(END, "expected 'end'"); err != nil {
		return nil, err
	}
	return L("if", cond, thenBlk, elseBlk), nil
}
