// funclib.go — the functional-programming builtin surface: partial (and its
// short alias), compose, isFalse, identity, plus the Go-level helpers they
// delegate to.
package functional

// Compose returns h with h(args...) = g(f(args...)). h forwards its arguments
// to f unchanged and passes f's single result to g.
func (ip *Interp) Compose(g, f Value) Value {
	if g.Tag != VTFun || f.Tag != VTFun {
		fail("compose expects two functions")
	}
	env := f.Data.(*Fun).Env
	return FunVal(&Fun{
		Env: env,
		Native: func(ip *Interp, args []Arg) Value {
			r := ip.applyArgs(f, args, nil)
			return ip.applyArgs(g, []Arg{{Value: r}}, nil)
		},
	})
}

// IsFalse reports whether v is exactly false, null, or a zero-length array.
// Note that 0 and "" are NOT false under this predicate.
func IsFalse(v Value) bool {
	switch v.Tag {
	case VTBool:
		return !v.Data.(bool)
	case VTNull:
		return true
	case VTArray:
		return len(v.Data.([]Value)) == 0
	}
	return false
}

// OrElse returns a unless IsFalse(a), in which case it returns b. The lazy
// surface form is the `??` operator; this helper is for hosts that already
// hold both values.
func OrElse(a, b Value) Value {
	if IsFalse(a) {
		return b
	}
	return a
}

func registerFunBuiltins(ip *Interp) {
	// partial(f, fixed...) -> Fun
	ip.RegisterNative("partial", func(ip *Interp, args []Arg) Value {
		if len(args) == 0 || args[0].Name != "" {
			fail("partial expects a function as its first argument")
		}
		return ip.Partial(args[0].Value, args[1:])
	})
	setBuiltinDoc(ip, "partial", `Bind a fixed-argument set onto a function.

partial(f) returns f itself. Otherwise the result exposes f's parameters
minus the fixed names, in original order. Fixed arguments are either all
named (full parameter names) or all positional; positional fixing starts at
the SECOND parameter, keeping the first free. Parameters fixed by name are
observably supplied inside f; parameters fixed positionally are observably
missing although their value is available. Do not rely on the opposite.`)

	if !ip.cfg.NoPartialAlias {
		if v, err := ip.Core.Get("partial"); err == nil {
			ip.Core.Define("p", v)
		}
	}

	// compose(g, f) -> Fun, also available as g << f and f >> g
	ip.RegisterNative("compose", func(ip *Interp, args []Arg) Value {
		if len(args) != 2 {
			fail("compose expects exactly two functions")
		}
		return ip.Compose(args[0].Value, args[1].Value)
	})
	setBuiltinDoc(ip, "compose", `compose(g, f) returns h with h(...) = g(f(...)).

Operator aliases: g << f composes right-to-left, f >> g reads left-to-right.`)

	// isFalse(x) -> Bool
	ip.RegisterNative("isFalse", func(_ *Interp, args []Arg) Value {
		if len(args) != 1 {
			fail("isFalse expects one value")
		}
		return Bool(IsFalse(args[0].Value))
	})
	setBuiltinDoc(ip, "isFalse", `True for false, null, and zero-length arrays; false otherwise.

0 and "" are NOT false. The fallback operator a ?? b yields a unless
isFalse(a), in which case it evaluates and yields b.`)

	// identity(x) -> x
	ip.RegisterNative("identity", func(_ *Interp, args []Arg) Value {
		if len(args) != 1 {
			fail("identity expects one value")
		}
		return args[0].Value
	})
}
