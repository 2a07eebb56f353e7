// dispatch.go — single-dispatch generics on an explicit method table.
//
// A generic is a function value with a DispatchTable instead of a body: calls
// select an implementation by the runtime type name of the first argument.
// Like primitives, generics have no inspectable formal parameter list, so
// partial application wraps them through the generic forwarding path and the
// wrapper re-dispatches on each call; binding a concrete implementation
// instead pins the method.
package functional

// DispatchTable maps runtime type names to method implementations.
type DispatchTable struct {
	Name    string
	methods map[string]Value
	deflt   Value
}

// NewGeneric constructs a generic function value with an empty method table.
func NewGeneric(name string) Value {
	return FunVal(&Fun{
		Dispatch:   &DispatchTable{Name: name, methods: map[string]Value{}},
		NativeName: name,
	})
}

// AddMethod registers impl for the given runtime type name on a generic.
func AddMethod(generic Value, typeName string, impl Value) {
	d := dispatchOf(generic)
	d.methods[typeName] = impl
}

// SetDefaultMethod registers the fallback implementation of a generic.
func SetDefaultMethod(generic Value, impl Value) {
	d := dispatchOf(generic)
	d.deflt = impl
}

func dispatchOf(v Value) *DispatchTable {
	if v.Tag != VTFun {
		fail("not a generic function")
	}
	d := v.Data.(*Fun).Dispatch
	if d == nil {
		fail("not a generic function")
	}
	return d
}

func (ip *Interp) applyDispatch(f *Fun, args []Arg) Value {
	d := f.Dispatch
	if len(args) == 0 {
		failf("generic %q called with no arguments", d.Name)
	}
	t := TypeName(args[0].Value)
	m, ok := d.methods[t]
	if !ok {
		if d.deflt.Tag != VTFun {
			failf("no applicable method for generic %q and type %s", d.Name, t)
		}
		m = d.deflt
	}
	return ip.applyArgs(m, args, nil)
}

func registerDispatchBuiltins(ip *Interp) {
	// generic(name: Str) -> Fun
	ip.RegisterNative("generic", func(_ *Interp, args []Arg) Value {
		if len(args) != 1 || args[0].Value.Tag != VTStr {
			fail("generic expects a name string")
		}
		return NewGeneric(args[0].Value.Data.(string))
	})

	// method(g, typeName: Str, impl: Fun) -> g
	ip.RegisterNative("method", func(_ *Interp, args []Arg) Value {
		if len(args) != 3 || args[1].Value.Tag != VTStr {
			fail("method expects (generic, typeName, impl)")
		}
		AddMethod(args[0].Value, args[1].Value.Data.(string), args[2].Value)
		return args[0].Value
	})

	// defaultMethod(g, impl: Fun) -> g
	ip.RegisterNative("defaultMethod", func(_ *Interp, args []Arg) Value {
		if len(args) != 2 {
			fail("defaultMethod expects (generic, impl)")
		}
		SetDefaultMethod(args[0].Value, args[1].Value)
		return args[0].Value
	})
	setBuiltinDoc(ip, "generic", `Create a single-dispatch generic function.

Dispatch selects a method by the runtime type name of the first argument
(see typeName); defaultMethod installs the fallback. A generic has no
inspectable parameter list, so partial(g, ...) wraps it like a primitive and
re-dispatches on every call of the bound function.`)
}
