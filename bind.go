// bind.go — the argument binder: partial application with named/positional
// fixed-argument sets.
//
// Partial(f, args...) produces a bound function whose exposed parameter list
// is f's parameter list minus every name consumed by the fixed-argument set,
// in original order. The fixed set must be all-named or all-positional for
// ordinary functions; primitives (and dispatch generics, which likewise have
// no inspectable parameter list) are bound through a generic variadic
// forwarding path instead.
//
// Missingness contract: a parameter fixed by name is observably supplied
// inside the wrapped function; a parameter fixed positionally is observably
// *missing* even though its value is available. The positional fill works
// like an injected default rather than an actual argument. Callers depend on
// the asymmetry; it is part of the calling contract.
package functional

// BindSpec is the fixed-argument set captured by Partial, attached to the
// bound function. Immutable after construction.
type BindSpec struct {
	Target Value // the wrapped function (VTFun)
	Named  []Arg // all-named fixed set; forwarded as actual named arguments
	Filled []Arg // positionally assigned fixed values; injected, observably missing
	Rest   []Value // positional fixed args beyond the formal list; forwarded unnamed
}

// Partial binds a fixed-argument set onto fn and returns the bound function.
//
// Rules:
//   - With no fixed arguments, fn itself is returned (same reference).
//   - Primitives and dispatch generics: the bound function forwards its
//     runtime arguments followed by the fixed arguments (fixed after
//     caller-supplied) through generic invocation.
//   - Ordinary functions: the fixed set must be all-named or all-positional.
//     Named fixed arguments must match a formal parameter by full name (a
//     trailing `...` absorbs any name). Positional fixed arguments assign to
//     formal parameters from the *second* onward — the first parameter stays
//     free, which serves the common "bind everything except the main operand"
//     idiom; leftovers are forwarded unnamed and validated only when the
//     bound function is called.
func (ip *Interp) Partial(fn Value, args []Arg) Value {
	if fn.Tag != VTFun {
		fail("partial: not a function")
	}
	if len(args) == 0 {
		return fn
	}
	f := fn.Data.(*Fun)

	if f.IsPrimitive() || f.Dispatch != nil {
		return ip.bindPrimitive(fn, args)
	}

	named := 0
	for _, a := range args {
		if a.Name != "" {
			named++
		}
	}
	if named != 0 && named != len(args) {
		fail("invalid arguments: cannot mix named and positional fixed arguments")
	}

	spec := &BindSpec{Target: fn}
	consumed := map[string]bool{}
	hasParam := func(name string) bool {
		for _, p := range f.Params {
			if p.Name == name {
				return true
			}
		}
		return false
	}

	if named > 0 {
		for _, a := range args {
			if hasParam(a.Name) {
				if consumed[a.Name] {
					failf("formal parameter %q fixed more than once", a.Name)
				}
				consumed[a.Name] = true
			} else if !f.Variadic {
				failf("unknown parameter name: %q", a.Name)
			}
			spec.Named = append(spec.Named, a)
		}
	} else {
		// positional: assign from the second formal onward
		idx := 1
		for _, a := range args {
			if idx < len(f.Params) {
				name := f.Params[idx].Name
				consumed[name] = true
				spec.Filled = append(spec.Filled, Arg{Name: name, Value: a.Value})
				idx++
			} else {
				spec.Rest = append(spec.Rest, a.Value)
			}
		}
	}

	// exposed parameter list: original minus consumed, order preserved, no
	// defaults (the wrapped function still applies its own)
	var exposed []Param
	for _, p := range f.Params {
		if !consumed[p.Name] {
			exposed = append(exposed, Param{Name: p.Name})
		}
	}
	return FunVal(&Fun{
		Params:   exposed,
		Variadic: f.Variadic,
		Env:      f.Env,
		Bind:     spec,
	})
}

// bindPrimitive wraps a primitive (or generic) in a variadic forwarder that
// appends the fixed arguments after the caller-supplied ones. Duplicate-name
// resolution is left to the underlying invocation mechanism.
func (ip *Interp) bindPrimitive(fn Value, args []Arg) Value {
	fixed := append([]Arg(nil), args...)
	f := fn.Data.(*Fun)
	return FunVal(&Fun{
		Env: f.Env,
		Native: func(ip *Interp, callArgs []Arg) Value {
			merged := make([]Arg, 0, len(callArgs)+len(fixed))
			merged = append(merged, callArgs...)
			merged = append(merged, fixed...)
			return ip.applyArgs(fn, merged, nil)
		},
	})
}

// applyBound invokes a function produced by Partial: it matches the caller's
// arguments against the exposed parameter list, then re-merges them with the
// captured fixed-argument set and forwards the combined call to the target.
// injected carries positional-fill values from an enclosing Partial so the
// missingness contract survives nesting.
func (ip *Interp) applyBound(g *Fun, args []Arg, injected []Arg) Value {
	b := g.Bind
	frameEnv := ip.bindCall(g, args, injected)
	fr := frameEnv.frame

	var fwd []Arg
	var inj []Arg
	for _, p := range g.Params {
		v := frameEnv.table[p.Name]
		switch {
		case fr.supplied[p.Name]:
			fwd = append(fwd, Arg{Name: p.Name, Value: v})
		case v.Tag != vtMissing:
			// filled by an enclosing Partial's positional fix: keep injecting
			inj = append(inj, Arg{Name: p.Name, Value: v})
		}
	}
	fwd = append(fwd, fr.varargs...)
	fwd = append(fwd, b.Named...)
	inj = append(inj, b.Filled...)
	for _, v := range b.Rest {
		fwd = append(fwd, Arg{Value: v})
	}
	return ip.applyArgs(b.Target, fwd, inj)
}
