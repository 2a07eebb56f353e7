// builtins.go — core builtins: printing, introspection helpers, and the
// arithmetic primitives. All natives here are primitives in the calling
// convention's sense: no inspectable formal parameter list, raw ordered
// argument access.
package functional

import "fmt"

// arg2 extracts exactly two numeric operands for the arithmetic primitives.
func arg2(name string, args []Arg) (Value, Value) {
	if len(args) != 2 {
		failf("%s expects exactly two arguments", name)
	}
	return args[0].Value, args[1].Value
}

func registerCoreBuiltins(ip *Interp) {
	// print(values...) -> Null
	ip.RegisterNative("print", func(_ *Interp, args []Arg) Value {
		for i, a := range args {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(FormatValue(a.Value))
		}
		fmt.Println()
		return Null
	})

	// len(x) -> Int
	ip.RegisterNative("len", func(_ *Interp, args []Arg) Value {
		if len(args) != 1 {
			fail("len expects one value")
		}
		switch v := args[0].Value; v.Tag {
		case VTStr:
			return Int(int64(len(v.Data.(string))))
		case VTArray:
			return Int(int64(len(v.Data.([]Value))))
		default:
			fail("len expects a string or array")
		}
		return Null
	})

	// typeName(x) -> Str
	ip.RegisterNative("typeName", func(_ *Interp, args []Arg) Value {
		if len(args) != 1 {
			fail("typeName expects one value")
		}
		return Str(TypeName(args[0].Value))
	})

	// doc(f) -> Str?  — a builtin's docstring, or null
	ip.RegisterNative("doc", func(_ *Interp, args []Arg) Value {
		if len(args) != 1 {
			fail("doc expects one value")
		}
		if a := args[0].Value.Annot; a != "" {
			return Str(a)
		}
		return Null
	})

	// arithmetic primitives (useful targets for partial/compose)
	ip.RegisterNative("add", func(_ *Interp, args []Arg) Value {
		a, b := arg2("add", args)
		return numericOp("+", a, b)
	})
	ip.RegisterNative("sub", func(_ *Interp, args []Arg) Value {
		a, b := arg2("sub", args)
		return numericOp("-", a, b)
	})
	ip.RegisterNative("mul", func(_ *Interp, args []Arg) Value {
		a, b := arg2("mul", args)
		return numericOp("*", a, b)
	})
	ip.RegisterNative("div", func(_ *Interp, args []Arg) Value {
		a, b := arg2("div", args)
		return numericOp("/", a, b)
	})
	setBuiltinDoc(ip, "sub", `sub(a, b) = a - b.

A primitive, so partial(sub, x) appends x after the caller's arguments:
partial(sub, 1)(10) is sub(10, 1) = 9.`)
}

// TypeName returns the user-visible name of a value's runtime kind.
func TypeName(v Value) string {
	switch v.Tag {
	case VTNull:
		return "Null"
	case VTBool:
		return "Bool"
	case VTInt:
		return "Int"
	case VTNum:
		return "Num"
	case VTStr:
		return "Str"
	case VTArray:
		return "Array"
	case VTFun:
		return "Fun"
	default:
		return "Unknown"
	}
}
