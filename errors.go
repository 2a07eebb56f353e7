// errors.go — user-facing error wrapping and caret-snippet rendering.
//
// Lexer and parser diagnostics are turned into readable snippets with a caret
// pointing at the offending column:
//
//	PARSE ERROR at 3:12: unexpected token ')'
//
//	   2 | let x = (1 + 2
//	   3 |              )
//	     |            ^
//
// Runtime faults carry no position (the evaluator works on positionless
// S-expressions) and render as a plain "RUNTIME ERROR: msg" line.
package functional

import (
	"fmt"
	"strings"
)

// ParseError is a syntax failure at a 1-based source position. Incomplete is
// set in interactive mode when the input merely ended too early (unclosed
// construct at EOF); REPLs use it to prompt for continuation.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err marks input that ended mid-construct.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Incomplete
}

// RuntimeError represents an execution-time failure. All public Eval*/Apply
// entry points surface runtime faults as this type.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string {
	return "RUNTIME ERROR: " + e.Msg
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lexer/parser errors and leaves
// other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		if e.Incomplete {
			return e // continuation, not a rendering target
		}
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds a snippet with a header and a caret. It shows at
// most one previous and one next line. Coordinates are 1-based and clamped.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// rtErr is the private runtime-fault signal. Natives and the evaluator raise
// it through fail(); the public entry points recover it into *RuntimeError.
type rtErr struct {
	msg string
}

func fail(msg string) { panic(rtErr{msg: msg}) }

func failf(format string, args ...interface{}) {
	panic(rtErr{msg: fmt.Sprintf(format, args...)})
}
