package functional

import (
	"reflect"
	"strings"
	"testing"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// parseStmt1 parses a source fragment and returns the single top-level
// statement of the resulting block.
func parseStmt1(t *testing.T, src string) S {
	t.Helper()
	blk, err := ParseSExpr(src)
	if err != nil {
		t.Fatalf("parse error: %v\nsource: %s", err, src)
	}
	if len(blk) != 2 {
		t.Fatalf("want 1 statement, got %d in %q", len(blk)-1, src)
	}
	return blk[1].(S)
}

func wantAST(t *testing.T, src string, want S) {
	t.Helper()
	got := parseStmt1(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AST mismatch for %q:\n got: %v\nwant: %v", src, got, want)
	}
}

// wantSurface checks parse + FormatSExpr round-tripping, a terser way to pin
// the tree shape when the rendering is unambiguous.
func wantSurface(t *testing.T, src, want string) {
	t.Helper()
	got := FormatSExpr(parseStmt1(t, src))
	if got != want {
		t.Fatalf("surface mismatch for %q:\n got: %s\nwant: %s", src, got, want)
	}
}

func Test_Parser_Precedence(t *testing.T) {
	wantAST(t, `1 + 2 * 3`,
		L("binop", "+", L("int", int64(1)), L("binop", "*", L("int", int64(2)), L("int", int64(3)))))
	wantAST(t, `(1 + 2) * 3`,
		L("binop", "*", L("binop", "+", L("int", int64(1)), L("int", int64(2))), L("int", int64(3))))
	// comparison binds tighter than 'and'
	wantAST(t, `a < b and c`,
		L("binop", "and", L("binop", "<", L("id", "a"), L("id", "b")), L("id", "c")))
}

func Test_Parser_Calls(t *testing.T) {
	wantAST(t, `f(1, b = 2, ...)`,
		L("call", S(L("id", "f")),
			L("int", int64(1)),
			L("named", "b", L("int", int64(2))),
			L("dots")))
	// call chains: the result of one call is immediately callable
	wantSurface(t, `partial(f, 1)(10)`, `partial(f, 1)(10)`)
}

func Test_Parser_LambdaSugar(t *testing.T) {
	wantSurface(t, `x -> x + 1`, `fun(x) do x + 1 end`)
	wantSurface(t, `x ~ y -> x - y`, `fun(x, y) do x - y end`)
	wantSurface(t, `x ~ y ~ z -> z`, `fun(x, y, z) do z end`)
	// '->' is right-associative: a curried chain
	wantSurface(t, `x -> y -> x`, `fun(x) do fun(y) do x end end`)
}

func Test_Parser_FunAndDefaults(t *testing.T) {
	wantSurface(t, `fun(a, b = a + 1, ...) do b end`, `fun(a, b = a + 1, ...) do b end`)
	wantSurface(t, `fun() do 1 end`, `fun() do 1 end`)
}

func Test_Parser_ComposeAndOrElse(t *testing.T) {
	wantAST(t, `g << f`, L("binop", "<<", L("id", "g"), L("id", "f")))
	wantAST(t, `f >> g`, L("binop", ">>", L("id", "f"), L("id", "g")))
	wantAST(t, `a ?? b`, L("orelse", S(L("id", "a")), S(L("id", "b"))))
	// '??' binds looser than comparison
	wantAST(t, `a < b ?? c`,
		L("orelse", S(L("binop", "<", L("id", "a"), L("id", "b"))), S(L("id", "c"))))
}

func Test_Parser_NewlinesSeparateStatements(t *testing.T) {
	blk, err := ParseSExpr("1\n- 2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(blk) != 3 {
		t.Fatalf("want 2 statements, got %d", len(blk)-1)
	}
	// a trailing operator continues the expression onto the next line
	wantAST(t, "1 +\n2", L("binop", "+", L("int", int64(1)), L("int", int64(2))))
}

func Test_Parser_Errors(t *testing.T) {
	cases := map[string]string{
		`1 = 2`:       "invalid assignment target",
		`x ~ y`:       "parameter chain",
		`let = 1`:     "expected identifier",
		`f(1 2)`:      "expected ')'",
		`fun(...) 1`:  "expected 'do'",
		`1 2`:         "unexpected token",
		`f (1)`:       "unexpected token", // space before '(' means grouping, not a call
		`1 ~ y -> y`:  "'~' expects identifiers",
		`x -> y ~ 1`:  "'~' expects an identifier",
	}
	for src, substr := range cases {
		_, err := ParseSExpr(src)
		if err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
		pe, ok := err.(*ParseError)
		if !ok {
			t.Fatalf("want *ParseError for %q, got %T", src, err)
		}
		if !containsFold(pe.Msg, substr) {
			t.Fatalf("error for %q: got %q, want substring %q", src, pe.Msg, substr)
		}
	}
}

func Test_Parser_IncompleteDetection(t *testing.T) {
	incomplete := []string{
		`fun(x) do`,
		`f(1,`,
		`if a then`,
		`do`,
		`[1, 2`,
		`let x =`,
	}
	for _, src := range incomplete {
		_, err := ParseSExprInteractive(src)
		if !IsIncomplete(err) {
			t.Fatalf("want incomplete for %q, got %v", src, err)
		}
		// batch mode reports the same input as a hard error
		if _, err := ParseSExpr(src); err == nil || IsIncomplete(err) {
			t.Fatalf("batch parse of %q should hard-fail, got %v", src, err)
		}
	}
	// a syntax error mid-line is never incomplete, even interactively
	if _, err := ParseSExprInteractive(`f(]`); IsIncomplete(err) || err == nil {
		t.Fatalf("hard error misreported: %v", err)
	}
}
