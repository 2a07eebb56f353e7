// eval.go — tree-walking evaluator and the call engine.
//
// The call engine implements the runtime's calling convention: actual
// arguments match formal parameters by exact name first, then positionally,
// with a trailing `...` absorbing leftovers. Each call builds a frame Env
// that records which parameters an actual argument supplied — the substrate
// for `missing(name)` introspection. Unfilled parameters evaluate their
// default expression in the new frame (strictly, in declaration order) or
// bind the missing sentinel.
//
// Failures raise the private rtErr signal via fail()/failf(); the public
// entry points in interp.go recover it into *RuntimeError.
package functional

func (ip *Interp) eval(s S, env *Env) Value {
	if len(s) == 0 {
		fail("empty expression")
	}
	tag, ok := s[0].(string)
	if !ok {
		fail("malformed expression node")
	}
	switch tag {
	case "null":
		return Null
	case "bool":
		return Bool(s[1].(bool))
	case "int":
		return Int(s[1].(int64))
	case "num":
		return Num(s[1].(float64))
	case "str":
		return Str(s[1].(string))
	case "const":
		return s[1].(Value)

	case "id":
		name := s[1].(string)
		v, err := env.Get(name)
		if err != nil {
			fail(err.Error())
		}
		if v.Tag == vtMissing {
			failf("argument %q is missing, with no default", name)
		}
		return v

	case "block":
		out := Null
		for _, st := range s[1:] {
			out = ip.eval(st.(S), env)
		}
		return out

	case "let":
		v := ip.eval(s[2].(S), env)
		env.Define(s[1].(string), v)
		return v

	case "assign":
		v := ip.eval(s[2].(S), env)
		if err := env.Set(s[1].(string), v); err != nil {
			fail(err.Error())
		}
		return v

	case "array":
		elems := make([]Value, 0, len(s)-1)
		for _, e := range s[1:] {
			elems = append(elems, ip.eval(e.(S), env))
		}
		return Arr(elems)

	case "if":
		cond := ip.eval(s[1].(S), env)
		if cond.Tag != VTBool {
			fail("if condition must be Bool")
		}
		if cond.Data.(bool) {
			return ip.eval(s[2].(S), env)
		}
		return ip.eval(s[3].(S), env)

	case "fun":
		return ip.makeFun(s, env)

	case "unop":
		return ip.evalUnop(s[1].(string), s[2].(S), env)

	case "binop":
		return ip.evalBinop(s[1].(string), s[2].(S), s[3].(S), env)

	case "orelse":
		a := ip.eval(s[1].(S), env)
		if IsFalse(a) {
			return ip.eval(s[2].(S), env)
		}
		return a

	case "call":
		return ip.evalCall(s, env)

	case "params":
		fail("'~' parameter chain without '->'")
	case "named", "dots":
		fail("argument marker outside a call")
	}
	failf("unknown expression tag %q", tag)
	return Null
}

// makeFun constructs an ordinary closure from a ("fun", params, body) node.
// Default expressions stay unevaluated until a call leaves their parameter
// unfilled.
func (ip *Interp) makeFun(s S, env *Env) Value {
	paramsNode := s[1].(S)
	var params []Param
	variadic := false
	for _, raw := range paramsNode[1:] {
		pn := raw.(S)
		if pn[0].(string) == "dots" {
			variadic = true
			continue
		}
		p := Param{Name: pn[1].(string)}
		if len(pn) > 2 {
			p.Default = pn[2].(S)
		}
		params = append(params, p)
	}
	return FunVal(&Fun{Params: params, Variadic: variadic, Body: s[2].(S), Env: env})
}

// evalCall evaluates a ("call", callee, arg...) node. `missing(x)` is a
// special form: its argument is not evaluated.
func (ip *Interp) evalCall(s S, env *Env) Value {
	calleeNode := s[1].(S)
	if n, ok := idName(calleeNode); ok && n == "missing" {
		if len(s) != 3 {
			fail("missing() takes exactly one parameter name")
		}
		argName, ok := idName(s[2].(S))
		if !ok {
			fail("missing() expects a parameter name")
		}
		return ip.evalMissing(argName, env)
	}

	callee := ip.eval(calleeNode, env)
	var args []Arg
	for _, raw := range s[2:] {
		a := raw.(S)
		switch a[0].(string) {
		case "named":
			args = append(args, Arg{Name: a[1].(string), Value: ip.eval(a[2].(S), env)})
		case "dots":
			fr := env.nearestFrame()
			if fr == nil {
				fail("'...' used outside a function")
			}
			args = append(args, fr.varargs...)
		default:
			args = append(args, Arg{Value: ip.eval(a, env)})
		}
	}
	return ip.applyArgs(callee, args, nil)
}

// evalMissing reports whether the named parameter of the innermost enclosing
// call frame that declares it received an actual argument.
func (ip *Interp) evalMissing(name string, env *Env) Value {
	for e := env; e != nil; e = e.parent {
		if e.frame == nil {
			continue
		}
		for _, p := range e.frame.fn.Params {
			if p.Name == name {
				return Bool(!e.frame.supplied[name])
			}
		}
	}
	failf("missing(%s): no enclosing function declares that parameter", name)
	return Null
}

////////////////////////////////////////////////////////////////////////////////
//                        CALL ENGINE: APPLY / MATCH
////////////////////////////////////////////////////////////////////////////////

// applyArgs invokes a function value with the given arguments. injected
// carries positionally-fixed values from Partial: they fill still-empty
// parameter slots without marking them supplied (so the callee observes them
// as missing while their value remains available).
func (ip *Interp) applyArgs(fn Value, args []Arg, injected []Arg) Value {
	if fn.Tag != VTFun {
		fail("not a function")
	}
	f := fn.Data.(*Fun)
	switch {
	case f.Dispatch != nil:
		return ip.applyDispatch(f, args)
	case f.Bind != nil:
		return ip.applyBound(f, args, injected)
	case f.Native != nil:
		return f.Native(ip, args)
	default:
		frame := ip.bindCall(f, args, injected)
		return ip.eval(f.Body, frame)
	}
}

// bindCall matches args against f's formal parameters and returns the new
// call-frame environment (child of f's defining scope).
func (ip *Interp) bindCall(f *Fun, args []Arg, injected []Arg) *Env {
	frame := &callFrame{fn: f, supplied: map[string]bool{}}
	env := NewEnv(f.Env)
	env.frame = frame

	filled := map[string]bool{}
	hasParam := func(name string) bool {
		for _, p := range f.Params {
			if p.Name == name {
				return true
			}
		}
		return false
	}

	// named pass: exact, full-name matches only
	var positional []Arg
	for _, a := range args {
		if a.Name == "" {
			positional = append(positional, a)
			continue
		}
		if hasParam(a.Name) {
			if filled[a.Name] {
				failf("formal parameter %q matched by multiple arguments", a.Name)
			}
			filled[a.Name] = true
			frame.supplied[a.Name] = true
			env.Define(a.Name, a.Value)
		} else if f.Variadic {
			frame.varargs = append(frame.varargs, a)
		} else {
			failf("unused argument (%s = %s)", a.Name, a.Value.String())
		}
	}

	// injected (positionally-fixed) values claim their slots next: like the
	// named pass they occupy the parameter, but they do not count as supplied.
	// An actual named argument for the same slot wins.
	for _, a := range injected {
		if a.Name == "" || filled[a.Name] || !hasParam(a.Name) {
			continue
		}
		filled[a.Name] = true
		env.Define(a.Name, a.Value)
	}

	// positional pass: fill remaining parameters left to right
	pi := 0
	for _, a := range positional {
		for pi < len(f.Params) && filled[f.Params[pi].Name] {
			pi++
		}
		if pi >= len(f.Params) {
			if f.Variadic {
				frame.varargs = append(frame.varargs, a)
				continue
			}
			failf("unused argument (%s)", a.Value.String())
		}
		name := f.Params[pi].Name
		filled[name] = true
		frame.supplied[name] = true
		env.Define(name, a.Value)
	}

	// defaults (strict, declaration order) and the missing sentinel
	for _, p := range f.Params {
		if filled[p.Name] {
			continue
		}
		if p.Default != nil {
			env.Define(p.Name, ip.eval(p.Default, env))
		} else {
			env.Define(p.Name, missingVal)
		}
	}
	return env
}

////////////////////////////////////////////////////////////////////////////////
//                               OPERATORS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interp) evalUnop(op string, rhs S, env *Env) Value {
	v := ip.eval(rhs, env)
	switch op {
	case "-":
		switch v.Tag {
		case VTInt:
			return Int(-v.Data.(int64))
		case VTNum:
			return Num(-v.Data.(float64))
		}
		fail("unary '-' expects a number")
	case "not":
		if v.Tag != VTBool {
			fail("'not' expects a Bool")
		}
		return Bool(!v.Data.(bool))
	}
	failf("unknown unary operator %q", op)
	return Null
}

func (ip *Interp) evalBinop(op string, lhs, rhs S, env *Env) Value {
	// short-circuit boolean operators evaluate the rhs lazily
	if op == "and" || op == "or" {
		l := ip.eval(lhs, env)
		if l.Tag != VTBool {
			failf("'%s' expects Bool operands", op)
		}
		lb := l.Data.(bool)
		if op == "and" && !lb {
			return Bool(false)
		}
		if op == "or" && lb {
			return Bool(true)
		}
		r := ip.eval(rhs, env)
		if r.Tag != VTBool {
			failf("'%s' expects Bool operands", op)
		}
		return r
	}

	l := ip.eval(lhs, env)
	r := ip.eval(rhs, env)
	switch op {
	case "<<":
		return ip.Compose(l, r)
	case ">>":
		return ip.Compose(r, l)
	case "==":
		return Bool(valueEquals(l, r))
	case "!=":
		return Bool(!valueEquals(l, r))
	case "+":
		if l.Tag == VTStr && r.Tag == VTStr {
			return Str(l.Data.(string) + r.Data.(string))
		}
		return numericOp(op, l, r)
	case "-", "*", "/", "%":
		return numericOp(op, l, r)
	case "<", "<=", ">", ">=":
		return compareOp(op, l, r)
	}
	failf("unknown operator %q", op)
	return Null
}

func isNumeric(v Value) bool { return v.Tag == VTInt || v.Tag == VTNum }

func asFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

func numericOp(op string, l, r Value) Value {
	if !isNumeric(l) || !isNumeric(r) {
		failf("'%s' expects numeric operands", op)
	}
	if l.Tag == VTInt && r.Tag == VTInt {
		a, b := l.Data.(int64), r.Data.(int64)
		switch op {
		case "+":
			return Int(a + b)
		case "-":
			return Int(a - b)
		case "*":
			return Int(a * b)
		case "/":
			if b == 0 {
				fail("division by zero")
			}
			return Int(a / b)
		case "%":
			if b == 0 {
				fail("division by zero")
			}
			return Int(a % b)
		}
	}
	a, b := asFloat(l), asFloat(r)
	switch op {
	case "+":
		return Num(a + b)
	case "-":
		return Num(a - b)
	case "*":
		return Num(a * b)
	case "/":
		if b == 0 {
			fail("division by zero")
		}
		return Num(a / b)
	case "%":
		fail("'%' expects Int operands")
	}
	failf("unknown numeric operator %q", op)
	return Null
}

func compareOp(op string, l, r Value) Value {
	var cmp int
	switch {
	case isNumeric(l) && isNumeric(r):
		a, b := asFloat(l), asFloat(r)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	case l.Tag == VTStr && r.Tag == VTStr:
		a, b := l.Data.(string), r.Data.(string)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	default:
		failf("'%s' expects two numbers or two strings", op)
	}
	switch op {
	case "<":
		return Bool(cmp < 0)
	case "<=":
		return Bool(cmp <= 0)
	case ">":
		return Bool(cmp > 0)
	case ">=":
		return Bool(cmp >= 0)
	}
	failf("unknown comparison %q", op)
	return Null
}

// valueEquals is deep structural equality; annotations are ignored and
// functions compare by identity.
func valueEquals(a, b Value) bool {
	if isNumeric(a) && isNumeric(b) {
		if a.Tag == VTInt && b.Tag == VTInt {
			return a.Data.(int64) == b.Data.(int64)
		}
		return asFloat(a) == asFloat(b)
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTArray:
		xs, ys := a.Data.([]Value), b.Data.([]Value)
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !valueEquals(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun)
	}
	return false
}
