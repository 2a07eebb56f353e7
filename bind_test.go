package functional

import "testing"

func Test_Partial_EmptyBindReturnsSameFunction(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let f = fun(a, b) do a end`)
	// function equality is identity, so this pins "same reference"
	wantBool(t, evalWithRT(t, ip, `partial(f) == f`), true)

	fn := evalWithRT(t, ip, `f`)
	if got := ip.Partial(fn, nil); got.Data.(*Fun) != fn.Data.(*Fun) {
		t.Fatal("Partial with no fixed arguments must return the argument itself")
	}
}

func Test_Partial_NamedFixEqualsDirectCall(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let f = fun(a, b, c) do a - b * c end`)
	wantInt(t, evalWithRT(t, ip, `partial(f, b = 2)(10, 3)`), 4)
	wantInt(t, evalWithRT(t, ip, `f(10, 2, 3)`), 4)
	// remaining parameters keep their original order and stay name-addressable
	wantInt(t, evalWithRT(t, ip, `partial(f, b = 2)(c = 3, a = 10)`), 4)
	// fixing several names at once
	wantInt(t, evalWithRT(t, ip, `partial(f, c = 3, b = 2)(10)`), 4)
}

func Test_Partial_PositionalFixStartsAtSecondParameter(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let f = fun(a, b, c) do a - b * c end`)
	// fixes b=2 and c=3; a stays free
	evalWithRT(t, ip, `let g = partial(f, 2, 3)`)
	wantInt(t, evalWithRT(t, ip, `g(10)`), 4)
	wantInt(t, evalWithRT(t, ip, `g(a = 10)`), 4)
}

func Test_Partial_AllBoundOverflowWrapsAround(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let f = fun(x, y, z) do [x, y, z] end`)
	// 1 -> y, 2 -> z; the leftover 3 is forwarded unnamed and lands on x
	wantBool(t, evalWithRT(t, ip, `partial(f, 1, 2, 3)() == [3, 1, 2]`), true)
	// a caller argument then leaves the leftover with no slot to fill
	mustFailContains(t, ip, `partial(f, 1, 2, 3)(9)`, "unused argument")
}

func Test_Partial_FixedSetValidation(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let f = fun(x, y, z) do x end`)
	mustFailContains(t, ip, `partial(f, 1, y = 2)`, "cannot mix named and positional")
	mustFailContains(t, ip, `partial(f, w = 1)`, "unknown parameter name")
	mustFailContains(t, ip, `partial(f, y = 1, y = 2)`, "fixed more than once")
	mustFailContains(t, ip, `partial(1, 2)`, "not a function")
	mustFailContains(t, ip, `partial()`, "expects a function")
	mustFailContains(t, ip, `partial(f = f, 1)`, "expects a function")
}

func Test_Partial_VariadicAbsorbsUnknownNames(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let g = fun(a, b) do a + b end`)
	evalWithRT(t, ip, `let v = fun(a, ...) do a * g(...) end`)
	// b is no parameter of v, but the trailing '...' accepts it at fix time;
	// it rides through v's '...' into g by name
	evalWithRT(t, ip, `let bound = partial(v, b = 5)`)
	wantInt(t, evalWithRT(t, ip, `bound(10, a = 7)`), 105)
}

func Test_Partial_PrimitiveAppendsFixedAfterCallerArgs(t *testing.T) {
	ip := newRT()
	// sub(10, 1): the fixed 1 arrives second
	wantInt(t, evalWithRT(t, ip, `partial(sub, 1)(10)`), 9)
	wantInt(t, evalWithRT(t, ip, `partial(sub, 10, 1)()`), 9)
	// composes with itself: each layer appends after the one below
	wantInt(t, evalWithRT(t, ip, `partial(partial(sub, 1))(10)`), 9)
}

func Test_Partial_MissingnessOfFixedParameters(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let probe = fun(a, b) do [b, missing(b)] end`)
	// fixed by name: observably supplied
	wantBool(t, evalWithRT(t, ip, `partial(probe, b = 5)(1) == [5, false]`), true)
	// fixed positionally: the value is there, yet the parameter reads as missing
	wantBool(t, evalWithRT(t, ip, `partial(probe, 5)(1) == [5, true]`), true)
	// a defaulted parameter filled positionally does not fall back to its default
	evalWithRT(t, ip, `let probeD = fun(a, b = 0) do [b, missing(b)] end`)
	wantBool(t, evalWithRT(t, ip, `partial(probeD, 5)(1) == [5, true]`), true)
}

func Test_Partial_NestingPreservesMissingness(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip,
		`let f = fun(a, b, c) do [missing(a), missing(b), missing(c), a + b * c] end`)
	// first layer fixes b, second fixes c (positional fixing always starts at
	// the second *exposed* parameter)
	evalWithRT(t, ip, `let g1 = partial(f, 2)`)
	evalWithRT(t, ip, `let g2 = partial(g1, 3)`)
	wantBool(t, evalWithRT(t, ip, `g2(10) == [false, true, true, 16]`), true)

	// named fixes stay supplied through nesting
	evalWithRT(t, ip, `let h = partial(partial(f, c = 3), b = 2)`)
	wantBool(t, evalWithRT(t, ip, `h(10) == [false, false, false, 16]`), true)
}

func Test_Partial_BoundFunctionSignature(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let f = fun(a, b = 1, c = 2) do a end`)
	g := evalWithRT(t, ip, `partial(f, b = 9)`)
	meta, ok := ip.FunMeta(g)
	if !ok {
		t.Fatal("bound function should be introspectable")
	}
	specs := meta.ParamSpecs()
	if len(specs) != 2 || specs[0].Name != "a" || specs[1].Name != "c" {
		t.Fatalf("exposed parameters wrong: %v", specs)
	}
	// defaults are stripped from the exposed list; the target still applies its own
	if specs[1].Default != nil {
		t.Fatalf("exposed parameter kept a default: %v", specs[1])
	}
	wantInt(t, evalWithRT(t, ip, `partial(f, b = 9)(7)`), 7)
}

func Test_Partial_GenericRedispatchesPerCall(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let size = generic("size")`)
	evalWithRT(t, ip, `method(size, "Int", x ~ y -> x + y)`)
	evalWithRT(t, ip, `method(size, "Str", x ~ y -> len(x) + y)`)
	evalWithRT(t, ip, `let plus10 = partial(size, 10)`)
	// the bound generic dispatches on each call's first argument
	wantInt(t, evalWithRT(t, ip, `plus10(5)`), 15)
	wantInt(t, evalWithRT(t, ip, `plus10("abc")`), 13)
}

func Test_Partial_ShortAliasMatchesLongName(t *testing.T) {
	ip := newRT()
	evalWithRT(t, ip, `let f = fun(a, b, c) do a - b * c end`)
	wantInt(t, evalWithRT(t, ip, `p(f, b = 2)(10, 3)`), 4)
	wantBool(t, evalWithRT(t, ip, `p == partial`), true)
}
