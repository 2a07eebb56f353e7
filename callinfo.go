// callinfo.go — call-expression helpers for forwarding with default filling.
//
// Both helpers operate on explicit call records — a ("call", callee, arg...)
// S-expression plus the target's formal parameter list — rather than on an
// ambient call stack. Callers that forward a call hand over the expression
// they are about to (or did) evaluate.
package functional

import "fmt"

// MatchCallDefaults returns an equivalent call expression in which every
// supplied argument is normalized to named form and every parameter that has
// a default but was not supplied is filled with that default, left
// unevaluated. Parameters without a default that nothing supplied are simply
// absent from the result.
func MatchCallDefaults(call S, f *Fun) (S, error) {
	callee, args, err := splitCall(call)
	if err != nil {
		return nil, err
	}

	supplied := map[string]S{}
	var extras []any

	hasParam := func(name string) bool {
		for _, p := range f.Params {
			if p.Name == name {
				return true
			}
		}
		return false
	}

	// named pass
	var positional []S
	for _, a := range args {
		switch a[0].(string) {
		case "named":
			name := a[1].(string)
			if hasParam(name) {
				if _, dup := supplied[name]; dup {
					return nil, fmt.Errorf("formal parameter %q matched by multiple arguments", name)
				}
				supplied[name] = a[2].(S)
			} else if f.Variadic {
				extras = append(extras, a)
			} else {
				return nil, fmt.Errorf("unused argument (%s)", name)
			}
		case "dots":
			return nil, fmt.Errorf("cannot match '...' outside a call frame")
		default:
			positional = append(positional, a)
		}
	}

	// positional pass
	pi := 0
	for _, a := range positional {
		for pi < len(f.Params) {
			if _, done := supplied[f.Params[pi].Name]; !done {
				break
			}
			pi++
		}
		if pi >= len(f.Params) {
			if !f.Variadic {
				return nil, fmt.Errorf("unused argument")
			}
			extras = append(extras, a)
			continue
		}
		supplied[f.Params[pi].Name] = a
		pi++
	}

	out := []any{"call", callee}
	for _, p := range f.Params {
		if e, ok := supplied[p.Name]; ok {
			out = append(out, L("named", p.Name, e))
		} else if p.Default != nil {
			out = append(out, L("named", p.Name, p.Default))
		}
	}
	out = append(out, extras...)
	return S(out), nil
}

// SubstituteCall evaluates every argument expression of call against env and
// returns a materialized, environment-independent call expression: each
// argument becomes a ("const", value) node (names preserved), and `...` is
// expanded from the enclosing call frame. The callee expression is kept
// as written.
func (ip *Interp) SubstituteCall(call S, env *Env) (out S, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(rtErr)
			if !ok {
				panic(r)
			}
			out, err = nil, &RuntimeError{Msg: sig.msg}
		}
	}()

	callee, args, serr := splitCall(call)
	if serr != nil {
		return nil, serr
	}
	res := []any{"call", callee}
	for _, a := range args {
		switch a[0].(string) {
		case "named":
			v := ip.eval(a[2].(S), env)
			res = append(res, L("named", a[1].(string), L("const", v)))
		case "dots":
			fr := env.nearestFrame()
			if fr == nil {
				fail("'...' used outside a function")
			}
			for _, va := range fr.varargs {
				if va.Name != "" {
					res = append(res, L("named", va.Name, L("const", va.Value)))
				} else {
					res = append(res, L("const", va.Value))
				}
			}
		default:
			res = append(res, L("const", ip.eval(a, env)))
		}
	}
	return S(res), nil
}

// splitCall validates a ("call", callee, arg...) node and returns its parts.
func splitCall(call S) (callee S, args []S, err error) {
	if len(call) < 2 {
		return nil, nil, fmt.Errorf("not a call expression")
	}
	if tag, ok := call[0].(string); !ok || tag != "call" {
		return nil, nil, fmt.Errorf("not a call expression")
	}
	c, ok := call[1].(S)
	if !ok {
		return nil, nil, fmt.Errorf("malformed call expression")
	}
	for _, raw := range call[2:] {
		a, ok := raw.(S)
		if !ok {
			return nil, nil, fmt.Errorf("malformed call argument")
		}
		args = append(args, a)
	}
	return c, args, nil
}
