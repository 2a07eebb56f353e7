package functional

import (
	"strings"
	"testing"
)

// --- small helpers ----------------------------------------------------------

func newRT() *Interp { return NewRuntime() }

// evalWithRT evaluates persistently so `let` bindings survive across calls
// within a test.
func evalWithRT(t *testing.T, ip *Interp, src string) Value {
	t.Helper()
	v, err := ip.EvalPersistentSource(src)
	if err != nil {
		t.Fatalf("eval error: %v\nsource:\n%s", err, src)
	}
	return v
}

func mustFailContains(t *testing.T, ip *Interp, src, substr string) {
	t.Helper()
	_, err := ip.EvalPersistentSource(src)
	if err == nil {
		t.Fatalf("expected error containing %q, got success\nsource:\n%s", substr, src)
	}
	if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(substr)) {
		t.Fatalf("expected error containing %q, got: %v", substr, err)
	}
}

func wantInt(t *testing.T, v Value, n int64) {
	t.Helper()
	if v.Tag != VTInt || v.Data.(int64) != n {
		t.Fatalf("want Int %d, got %#v", n, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want Bool %v, got %#v", b, v)
	}
}

func wantStr(t *testing.T, v Value, s string) {
	t.Helper()
	if v.Tag != VTStr || v.Data.(string) != s {
		t.Fatalf("want Str %q, got %#v", s, v)
	}
}

// --- public API -------------------------------------------------------------

func Test_API_EvalSource_IsEphemeral(t *testing.T) {
	ip := newRT()
	if _, err := ip.EvalSource(`let x = 1`); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if _, err := ip.EvalSource(`x`); err == nil {
		t.Fatal("ephemeral binding leaked into Global")
	}
}

func Test_API_EvalPersistentSource_MutatesGlobal(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let x = 41`)
	wantInt(t, evalWithRT(t, ip, `x + 1`), 42)
}

func Test_API_Apply_And_Call0(t *testing.T) {
	ip := newRT()
	fn := evalWithRT(t, ip, `fun(a, b) do a - b end`)

	v, err := ip.Apply(fn, []Value{Int(10), Int(4)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	wantInt(t, v, 6)

	zero := evalWithRT(t, ip, `fun() do 7 end`)
	v, err = ip.Call0(zero)
	if err != nil {
		t.Fatalf("Call0: %v", err)
	}
	wantInt(t, v, 7)
}

func Test_API_ApplyNamed(t *testing.T) {
	ip := newRT()
	fn := evalWithRT(t, ip, `fun(a, b) do a - b end`)
	v, err := ip.ApplyNamed(fn, []Arg{{Name: "b", Value: Int(4)}, {Value: Int(10)}})
	if err != nil {
		t.Fatalf("ApplyNamed: %v", err)
	}
	wantInt(t, v, 6)
}

func Test_API_Closure_Construction(t *testing.T) {
	ip := newRT()
	// closure(x, y = 2) -> x + y, over Global
	body := L("block", L("binop", "+", L("id", "x"), L("id", "y")))
	fn := ip.Closure([]Param{{Name: "x"}, {Name: "y", Default: L("int", int64(2))}}, body, nil)

	v, err := ip.Apply(fn, []Value{Int(40)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	wantInt(t, v, 42)

	meta, ok := ip.FunMeta(fn)
	if !ok || meta.Arity() != 2 {
		t.Fatalf("FunMeta arity: got %v", meta)
	}
}

func Test_API_Closure_TrailingDotsIsVariadic(t *testing.T) {
	ip := newRT()
	fn := ip.Closure([]Param{{Name: "x"}, {Name: "..."}}, L("block", L("id", "x")), nil)
	meta, _ := ip.FunMeta(fn)
	if !meta.IsVariadic() || meta.Arity() != 1 {
		t.Fatalf("want variadic arity-1, got arity=%d variadic=%v", meta.Arity(), meta.IsVariadic())
	}
}

func Test_API_RegisterNative_PrimitiveCall(t *testing.T) {
	ip := newRT()
	ip.RegisterNative("answer", func(_ *Interp, args []Arg) Value {
		return Int(int64(42 + len(args)))
	})
	wantInt(t, evalWithRT(t, ip, `answer(1, 2)`), 44)
}

func Test_API_FunMeta_ExposesClosureEnv(t *testing.T) {
	ip := newRT()
	fn := evalWithRT(t, ip, `fun(x) do x end`)
	meta, ok := ip.FunMeta(fn)
	if !ok {
		t.Fatal("FunMeta failed on a function")
	}
	if meta.ClosureEnv() != ip.Global {
		t.Fatal("closure env should be the defining scope (Global)")
	}
	if _, ok := ip.FunMeta(Int(1)); ok {
		t.Fatal("FunMeta should reject non-functions")
	}
}

func Test_API_RuntimeErrorType(t *testing.T) {
	ip := newRT()
	_, err := ip.EvalSource(`undefinedName`)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
}

// --- configuration ----------------------------------------------------------

func Test_Config_PartialAliasDefined(t *testing.T) {
	ip := NewRuntime()
	v := evalWithRT(t, ip, `p(fun(a, b) do a - b end, b = 1)(10)`)
	wantInt(t, v, 9)
}

func Test_Config_NoPartialAlias(t *testing.T) {
	ip := NewRuntime(Config{NoPartialAlias: true})
	if _, err := ip.EvalSource(`p`); err == nil {
		t.Fatal("alias `p` should not be defined")
	}
	// the long name is unaffected
	if _, err := ip.EvalSource(`partial`); err != nil {
		t.Fatalf("partial should still exist: %v", err)
	}
}
