// Package functional is a small embeddable expression-language runtime whose
// centerpiece is an argument binder: partial application over functions with
// named parameters, default expressions, and observable argument missingness.
//
// # Overview
//
// The runtime provides first-class function values (Fun) with ordered,
// optionally-defaulted parameter lists, lexical environments (Env) and a
// compact S-expression AST (S) produced by a newline-aware Pratt parser.
// On top of that substrate the package implements the library surface:
//
//   - partial(f, args...) — bind a fixed-argument set onto f, producing a new
//     callable whose exposed parameter list is the original minus the bound
//     names. Named fixed arguments bind by full parameter name; positional
//     fixed arguments bind from the second formal onward, which keeps the
//     first ("main") parameter free for the common one-operand idiom.
//   - compose(g, f) and its operator aliases `g << f` and `f >> g`.
//   - isFalse(x) and the fallback operator `a ?? b`.
//   - lambda sugar: `x -> expr` and `x ~ y -> expr` anonymous functions.
//   - call-record helpers MatchCallDefaults and SubstituteCall for forwarding
//     a call while preserving default filling.
//
// # Calling convention
//
// Calls match actual arguments to formal parameters by exact name first, then
// positionally, with a trailing `...` parameter absorbing any leftovers.
// A parameter that received no actual argument is observably *missing* inside
// the callee (the `missing(name)` form), even when a default expression gives
// it a value. Partial application preserves that distinction: parameters fixed
// by name introspect as supplied, parameters fixed positionally introspect as
// missing while their value remains available. The asymmetry is part of the
// calling contract; see Partial.
//
// # Embedding
//
// Hosts construct a runtime with NewRuntime, evaluate source with EvalSource
// (sandboxed child scope) or EvalPersistentSource (REPL-style, mutates the
// global scope), call function values with Apply/ApplyNamed/Call0, build
// closures programmatically with Closure, and register host primitives with
// RegisterNative. All entry points return (Value, error); runtime faults are
// surfaced as *RuntimeError, lex/parse faults render caret-annotated snippets.
//
// The short builtin alias `p` for `partial` can be suppressed per runtime via
// Config{NoPartialAlias: true}.
package functional
