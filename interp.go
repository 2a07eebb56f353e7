// interp.go — public surface of the functional runtime.
//
// This file exposes the runtime value model (Value, ValueTag, constructors),
// first-class functions (Fun, Param), lexical environments (Env), and the
// Interp type with the canonical entry points: source evaluation (ephemeral vs
// persistent), function application (Apply, ApplyNamed, Call0), programmatic
// closure construction (Closure), native registration (RegisterNative), and
// function introspection (FunMeta).
//
// Execution and scoping semantics
// -------------------------------
// Code evaluates in environments (*Env) forming a lexical chain via parent.
// The runtime exposes two well-known frames:
//   - Core:   built-ins and registered natives.
//   - Global: user-visible program state (REPL/module globals).
//
// EvalSource runs in a fresh child of Global (names bound during evaluation
// land in a throwaway scope); EvalPersistentSource runs in Global itself.
//
// All entry points return (Value, error); runtime faults surface as
// *RuntimeError, lex/parse faults as caret-annotated errors (errors.go).
package functional

import (
	"fmt"
	"strconv"
)

// Version is the library version reported by the CLI.
const Version = "0.3.0"

////////////////////////////////////////////////////////////////////////////////
//                              VALUE MODEL
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull  ValueTag = iota // null (no payload)
	VTBool                  // bool
	VTInt                   // int64
	VTNum                   // float64
	VTStr                   // string
	VTArray                 // []Value
	VTFun                   // *Fun (closure; native or user-defined)

	// vtMissing is the internal sentinel bound to an unfilled parameter that
	// has no default. Reading one raises "argument … is missing"; it never
	// escapes into user-visible data structures.
	vtMissing
)

// Value is the universal runtime carrier.
//
//   - Tag   — discriminant indicating which case is active.
//   - Data  — Go value appropriate for Tag (e.g. int64 for VTInt).
//   - Annot — optional annotation text (builtin docstrings, soft-error notes).
//     Annotations never affect equality.
type Value struct {
	Tag   ValueTag
	Data  interface{}
	Annot string
}

// String renders a debug representation (annotations are omitted).
func (v Value) String() string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return fmt.Sprintf("%v", v.Data.(bool))
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return fmt.Sprintf("%q", v.Data.(string))
	case VTArray:
		return fmt.Sprintf("<array len=%d>", len(v.Data.([]Value)))
	case VTFun:
		return "<fun>"
	case vtMissing:
		return "<missing>"
	default:
		return "<unknown>"
	}
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// missingVal marks an unfilled, defaultless parameter slot.
var missingVal = Value{Tag: vtMissing}

// Primitive constructors.
func Bool(b bool) Value    { return Value{Tag: VTBool, Data: b} }
func Int(n int64) Value    { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value  { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value   { return Value{Tag: VTStr, Data: s} }
func Arr(xs []Value) Value { return Value{Tag: VTArray, Data: xs} }

// FunVal wraps *Fun into a Value (Tag=VTFun).
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// withAnnot returns v with its annotation replaced.
func withAnnot(v Value, text string) Value {
	v.Annot = text
	return v
}

////////////////////////////////////////////////////////////////////////////////
//                         FUNCTIONS / PARAMETERS / ARGS
////////////////////////////////////////////////////////////////////////////////

// Param is one formal parameter: a name and an optional unevaluated default
// expression (nil when the parameter has no default).
type Param struct {
	Name    string
	Default S
}

// Arg is one actual argument: an optional name (empty for positional) and a
// value. Natives receive the raw ordered []Arg of the call; the ordinary call
// path matches []Arg against a formal parameter list (eval.go).
type Arg struct {
	Name  string
	Value Value
}

// NativeImpl is the implementation signature for host primitives. A primitive
// has no inspectable formal parameter list: it receives the combined, ordered
// argument list exactly as written at the call site.
type NativeImpl func(ip *Interp, args []Arg) Value

// Fun represents a function/closure. Functions are first-class Values (VTFun).
//
//   - Params     — ordered formal parameters (nil for primitives).
//   - Variadic   — a trailing `...` absorbs unmatched arguments.
//   - Body       — body as an S-expression (ordinary functions).
//   - Env        — closure environment captured at definition time.
//   - Native     — non-nil for host primitives; Body and Params are unused.
//   - NativeName — registration name for diagnostics ("" for anonymous).
//   - Bind       — non-nil for functions produced by Partial (bind.go).
//   - Dispatch   — non-nil for single-dispatch generics (dispatch.go).
type Fun struct {
	Params   []Param
	Variadic bool
	Body     S
	Env      *Env

	Native     NativeImpl
	NativeName string

	Bind     *BindSpec
	Dispatch *DispatchTable
}

// IsPrimitive reports whether f is implemented by the host, with no
// inspectable formal parameter list.
func (f *Fun) IsPrimitive() bool { return f.Native != nil }

////////////////////////////////////////////////////////////////////////////////
//                               ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

// callFrame records, for a function-call environment, which parameters were
// supplied by an actual (or named-fixed) argument. It is the substrate of
// missing-argument introspection.
type callFrame struct {
	fn       *Fun
	supplied map[string]bool
	varargs  []Arg // arguments absorbed by a trailing `...`
}

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward. Use Define to bind in the current frame, Set to update the
// nearest existing binding, Get to retrieve.
type Env struct {
	parent *Env
	table  map[string]Value
	frame  *callFrame // non-nil when this env is a function call frame
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Set updates the nearest existing binding of name to v. If no binding exists
// in any visible frame, Set returns an error (it does not implicitly define).
func (e *Env) Set(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = v
			return nil
		}
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("undefined variable: %s", name)
}

// nearestFrame returns the innermost call frame visible from e.
func (e *Env) nearestFrame() *callFrame {
	for env := e; env != nil; env = env.parent {
		if env.frame != nil {
			return env.frame
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
//                         INTROSPECTION (FunMeta)
////////////////////////////////////////////////////////////////////////////////

// Callable exposes metadata about a function Value (for tooling, docs, REPLs).
type Callable interface {
	Arity() int
	ParamSpecs() []Param
	IsVariadic() bool
	Doc() string
	ClosureEnv() *Env
}

type funCallable struct {
	f   *Fun
	doc string
}

func (c *funCallable) Arity() int          { return len(c.f.Params) }
func (c *funCallable) ParamSpecs() []Param { return append([]Param(nil), c.f.Params...) }
func (c *funCallable) IsVariadic() bool    { return c.f.Variadic }
func (c *funCallable) Doc() string         { return c.doc }
func (c *funCallable) ClosureEnv() *Env    { return c.f.Env }

////////////////////////////////////////////////////////////////////////////////
//                                 INTERP
////////////////////////////////////////////////////////////////////////////////

// Config carries per-runtime options. Options are fixed at construction time;
// there is no process-wide mutable configuration.
type Config struct {
	// NoPartialAlias suppresses the short builtin alias `p` for `partial`.
	NoPartialAlias bool
}

// Interp is the entry point for evaluating programs.
//
//   - Core   — built-in environment; parent of Global.
//   - Global — persistent program environment (REPL/module state).
type Interp struct {
	Global *Env
	Core   *Env

	cfg Config
}

// NewRuntime constructs a runtime with all builtins installed. At most one
// Config may be supplied; zero means defaults (the `p` alias is defined).
func NewRuntime(cfg ...Config) *Interp {
	ip := &Interp{}
	if len(cfg) > 0 {
		ip.cfg = cfg[0]
	}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	registerCoreBuiltins(ip)
	registerFunBuiltins(ip)
	registerDispatchBuiltins(ip)
	return ip
}

// EvalSource parses and evaluates source in a fresh child of Global. Names
// bound during evaluation land in that ephemeral child; Global is unchanged
// unless the program explicitly mutates it.
func (ip *Interp) EvalSource(src string) (Value, error) {
	ast, err := ParseSExpr(src)
	if err != nil {
		return Null, WrapErrorWithSource(err, src)
	}
	return ip.runTop(ast, NewEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates source in Global (REPL-style);
// let/assignment update the persistent state.
func (ip *Interp) EvalPersistentSource(src string) (Value, error) {
	ast, err := ParseSExpr(src)
	if err != nil {
		return Null, WrapErrorWithSource(err, src)
	}
	return ip.runTop(ast, ip.Global)
}

// EvalAST evaluates an AST in the provided environment exactly as given.
func (ip *Interp) EvalAST(ast S, env *Env) (Value, error) {
	return ip.runTop(ast, env)
}

// runTop evaluates with the rtErr recovery boundary: internal faults become
// *RuntimeError for the caller.
func (ip *Interp) runTop(ast S, env *Env) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(rtErr)
			if !ok {
				panic(r)
			}
			out = Value{}
			err = &RuntimeError{Msg: sig.msg}
		}
	}()
	return ip.eval(ast, env), nil
}

// Apply invokes a function Value with positional argument values.
func (ip *Interp) Apply(fn Value, args []Value) (Value, error) {
	as := make([]Arg, len(args))
	for i, v := range args {
		as[i] = Arg{Value: v}
	}
	return ip.ApplyNamed(fn, as)
}

// ApplyNamed invokes a function Value with possibly-named arguments.
func (ip *Interp) ApplyNamed(fn Value, args []Arg) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(rtErr)
			if !ok {
				panic(r)
			}
			out = Value{}
			err = &RuntimeError{Msg: sig.msg}
		}
	}()
	return ip.applyArgs(fn, args, nil), nil
}

// Call0 invokes a function with zero arguments.
func (ip *Interp) Call0(fn Value) (Value, error) { return ip.ApplyNamed(fn, nil) }

// FunMeta exposes arity, parameter specs, docs, and the closure environment of
// a function Value. Returns false when fn is not a function.
func (ip *Interp) FunMeta(fn Value) (Callable, bool) {
	if fn.Tag != VTFun {
		return nil, false
	}
	return &funCallable{f: fn.Data.(*Fun), doc: fn.Annot}, true
}

// Closure constructs an ordinary function value from a parameter list, a body
// expression, and a defining scope (nil means Global).
func (ip *Interp) Closure(params []Param, body S, env *Env) Value {
	if env == nil {
		env = ip.Global
	}
	variadic := false
	if n := len(params); n > 0 && params[n-1].Name == "..." {
		variadic = true
		params = params[:n-1]
	}
	return FunVal(&Fun{Params: params, Variadic: variadic, Body: body, Env: env})
}

// RegisterNative installs a host primitive into Core. Primitives have no
// inspectable formal parameter list; they receive the raw ordered argument
// list of each call.
func (ip *Interp) RegisterNative(name string, impl NativeImpl) {
	ip.Core.Define(name, FunVal(&Fun{Native: impl, NativeName: name, Env: ip.Core}))
}

// setBuiltinDoc annotates a Core builtin with a docstring.
func setBuiltinDoc(ip *Interp, name, doc string) {
	if v, err := ip.Core.Get(name); err == nil {
		ip.Core.Define(name, withAnnot(v, doc))
	}
}
