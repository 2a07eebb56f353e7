// printer.go — rendering of runtime values and S-expressions back to source
// form. Used by the REPL, by error messages, and to display the output of
// SubstituteCall/MatchCallDefaults.
package functional

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders a value the way the REPL prints results. Strings are
// quoted inside containers but printed raw at the top level of print().
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTArray:
		elems := v.Data.([]Value)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = formatNested(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTFun:
		return formatFun(v.Data.(*Fun))
	default:
		return "<unknown>"
	}
}

func formatNested(v Value) string {
	if v.Tag == VTStr {
		return strconv.Quote(v.Data.(string))
	}
	return FormatValue(v)
}

// formatFun renders a function's visible signature: exposed parameters with
// their defaults, a trailing "..." for variadics, and a marker for primitives
// and generics.
func formatFun(f *Fun) string {
	switch {
	case f.Dispatch != nil:
		return fmt.Sprintf("<generic %s>", f.Dispatch.Name)
	case f.Native != nil:
		if f.NativeName != "" {
			return fmt.Sprintf("<native %s>", f.NativeName)
		}
		return "<native>"
	}
	parts := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		if p.Default != nil {
			parts = append(parts, p.Name+" = "+FormatSExpr(p.Default))
		} else {
			parts = append(parts, p.Name)
		}
	}
	if f.Variadic {
		parts = append(parts, "...")
	}
	return "fun(" + strings.Join(parts, ", ") + ")"
}

// FormatSExpr renders an AST node as surface syntax. The output is meant for
// humans (REPL, diagnostics); it is not guaranteed to re-parse when the node
// contains ("const", v) wrappers holding functions.
func FormatSExpr(s S) string {
	if len(s) == 0 {
		return ""
	}
	tag, _ := s[0].(string)
	switch tag {
	case "null":
		return "null"
	case "bool":
		return strconv.FormatBool(s[1].(bool))
	case "int":
		return strconv.FormatInt(s[1].(int64), 10)
	case "num":
		return strconv.FormatFloat(s[1].(float64), 'g', -1, 64)
	case "str":
		return strconv.Quote(s[1].(string))
	case "id":
		return s[1].(string)
	case "const":
		return formatNested(s[1].(Value))
	case "dots":
		return "..."
	case "named":
		return s[1].(string) + " = " + FormatSExpr(s[2].(S))
	case "array":
		parts := make([]string, 0, len(s)-1)
		for _, e := range s[1:] {
			parts = append(parts, FormatSExpr(e.(S)))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case "call":
		parts := make([]string, 0, len(s)-2)
		for _, e := range s[2:] {
			parts = append(parts, FormatSExpr(e.(S)))
		}
		return FormatSExpr(s[1].(S)) + "(" + strings.Join(parts, ", ") + ")"
	case "unop":
		op := s[1].(string)
		if op == "not" {
			return "not " + FormatSExpr(s[2].(S))
		}
		return op + FormatSExpr(s[2].(S))
	case "binop":
		return FormatSExpr(s[2].(S)) + " " + s[1].(string) + " " + FormatSExpr(s[3].(S))
	case "orelse":
		return FormatSExpr(s[1].(S)) + " ?? " + FormatSExpr(s[2].(S))
	case "let":
		return "let " + s[1].(string) + " = " + FormatSExpr(s[2].(S))
	case "assign":
		return s[1].(string) + " = " + FormatSExpr(s[2].(S))
	case "if":
		out := "if " + FormatSExpr(s[1].(S)) + " then " + FormatSExpr(s[2].(S))
		if els := s[3].(S); !(len(els) == 1 && els[0] == "null") {
			out += " else " + FormatSExpr(els)
		}
		return out + " end"
	case "fun":
		params := s[1].(S)
		parts := make([]string, 0, len(params)-1)
		for _, raw := range params[1:] {
			pn := raw.(S)
			if pn[0].(string) == "dots" {
				parts = append(parts, "...")
				continue
			}
			if len(pn) > 2 {
				parts = append(parts, pn[1].(string)+" = "+FormatSExpr(pn[2].(S)))
			} else {
				parts = append(parts, pn[1].(string))
			}
		}
		return "fun(" + strings.Join(parts, ", ") + ") do " + FormatSExpr(s[2].(S)) + " end"
	case "block":
		parts := make([]string, 0, len(s)-1)
		for _, e := range s[1:] {
			parts = append(parts, FormatSExpr(e.(S)))
		}
		return strings.Join(parts, "\n")
	case "params":
		parts := make([]string, 0, len(s)-1)
		for _, raw := range s[1:] {
			parts = append(parts, raw.(S)[1].(string))
		}
		return strings.Join(parts, " ~ ")
	}
	return "<" + tag + ">"
}
