package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MatthewSH/OWScript/internal/ast"
	"github.com/MatthewSH/OWScript/internal/workshop"
)

// binaryNames maps script operators to workshop value names.
var binaryNames = map[string]string{
	"+":   "Add",
	"-":   "Subtract",
	"*":   "Multiply",
	"/":   "Divide",
	"^":   "Raise To Power",
	"%":   "Modulo",
	"or":  "Or",
	"and": "And",
}

// expr lowers an expression node to its final rendered text.
func (cg *CodeGen) expr(node ast.Node, sc *scope) (string, error) {
	switch n := node.(type) {
	case *ast.Instruction:
		return cg.lowerInstruction(n, sc)
	case *ast.Constant:
		return titleCase(n.Name), nil
	case *ast.Compare:
		return cg.lowerCompare(n, sc)
	case *ast.BinaryOp:
		return cg.lowerBinaryOp(n, sc)
	case *ast.UnaryOp:
		return cg.lowerUnaryOp(n, sc)
	case *ast.GlobalVar:
		return cg.lowerGlobalVar(n, sc)
	case *ast.PlayerVar:
		return cg.lowerPlayerVar(n, sc)
	case *ast.String:
		return cg.lowerString(n, sc)
	case *ast.Number:
		return n.Value, nil
	case *ast.Time:
		return lowerTime(n)
	case *ast.Vector:
		return cg.lowerVector(n, sc)
	case *ast.Array:
		return cg.lowerArray(n, sc)
	case *ast.Item:
		return cg.lowerItem(n, sc)
	case *ast.Attribute:
		return cg.lowerAttribute(n, sc)
	case *ast.Call:
		lines, ret, err := cg.inlineCall(n, sc)
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(lines)+1)
		for _, ln := range lines {
			parts = append(parts, ln.text)
		}
		if ret != "" {
			parts = append(parts, ret)
		}
		return strings.Join(parts, ";\n"), nil
	default:
		return "", errf(ErrUnsupported, node.Pos(), "cannot use %s as an expression", ast.Kind(node))
	}
}

// lowerInstruction renders a native instruction call. Children are lowered
// first; the validator then checks arity and per-position accepted value
// sets against the vocabulary before the call is assembled.
func (cg *CodeGen) lowerInstruction(node *ast.Instruction, sc *scope) (string, error) {
	name := titleCase(node.Name)
	rendered := make([]string, len(node.Args))
	for i, arg := range node.Args {
		text, err := cg.expr(arg, sc)
		if err != nil {
			return "", err
		}
		rendered[i] = text
	}
	if entry, ok := workshop.Lookup(name); ok {
		if err := validateInstruction(name, entry, node, rendered); err != nil {
			return "", err
		}
	}
	if len(rendered) == 0 {
		return name, nil
	}
	return name + "(" + strings.Join(rendered, ", ") + ")", nil
}

func validateInstruction(name string, entry workshop.Instruction, node *ast.Instruction, rendered []string) error {
	if len(entry.Params) != len(node.Args) {
		kinds := make([]string, 0, len(entry.Params))
		for _, p := range entry.Params {
			kinds = append(kinds, p.Kind)
		}
		return errf(ErrSyntax, node.Pos(), "'%s' expected %d arguments (%s), received %d",
			name, len(entry.Params), strings.Join(kinds, ", "), len(node.Args))
	}
	for i, p := range entry.Params {
		if p.Values == nil {
			continue
		}
		value := strings.ToUpper(rendered[i])
		accepted := false
		for _, v := range p.Values {
			if v == value {
				accepted = true
				break
			}
		}
		if !accepted {
			return errf(ErrParameter, node.Args[i].Pos(), "'%s' expected type %s for argument %d, received %s",
				name, p.Kind, i+1, ast.Kind(node.Args[i]))
		}
	}
	return nil
}

func (cg *CodeGen) lowerCompare(node *ast.Compare, sc *scope) (string, error) {
	left, err := cg.expr(node.Left, sc)
	if err != nil {
		return "", err
	}
	right, err := cg.expr(node.Right, sc)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(node.Op) {
	case "in":
		return "Array Contains(" + right + ", " + left + ")", nil
	case "not in":
		return "Not(Array Contains(" + right + ", " + left + "))", nil
	}
	return "Compare(" + left + ", " + node.Op + ", " + right + ")", nil
}

// lowerBinaryOp folds literal arithmetic at the point of visiting; folding
// is purely local and does not propagate through variable references.
// Division and modulo by zero fold to zero, as does any non-finite result
// (a zero base raised to a negative power divides by zero too).
func (cg *CodeGen) lowerBinaryOp(node *ast.BinaryOp, sc *scope) (string, error) {
	if folded, ok := foldArithmetic(node); ok {
		return folded, nil
	}
	name, ok := binaryNames[node.Op]
	if !ok {
		return "", errf(ErrUnsupported, node.Pos(), "binary operator '%s' not implemented", node.Op)
	}
	left, err := cg.expr(node.Left, sc)
	if err != nil {
		return "", err
	}
	right, err := cg.expr(node.Right, sc)
	if err != nil {
		return "", err
	}
	return name + "(" + left + ", " + right + ")", nil
}

func foldArithmetic(node *ast.BinaryOp) (string, bool) {
	ln, lok := node.Left.(*ast.Number)
	rn, rok := node.Right.(*ast.Number)
	if !lok || !rok {
		return "", false
	}
	a, errA := strconv.ParseFloat(ln.Value, 64)
	b, errB := strconv.ParseFloat(rn.Value, 64)
	if errA != nil || errB != nil {
		return "", false
	}
	var result float64
	switch node.Op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "0", true
		}
		result = a / b
	case "^":
		result = math.Pow(a, b)
	case "%":
		if b == 0 {
			return "0", true
		}
		result = math.Mod(a, b)
	default:
		return "", false
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return "0", true
	}
	return formatNumber(result), true
}

func (cg *CodeGen) lowerUnaryOp(node *ast.UnaryOp, sc *scope) (string, error) {
	right, err := cg.expr(node.Right, sc)
	if err != nil {
		return "", err
	}
	switch node.Op {
	case "-":
		return "-" + right, nil
	case "+":
		return "Abs(" + right + ")", nil
	case "not":
		return "Not(" + right + ")", nil
	}
	return "", errf(ErrUnsupported, node.Pos(), "unary operator '%s' not implemented", node.Op)
}

// lowerGlobalVar renders a global variable reference. Bindings without a
// storage slot (function parameters, unrolled loop variables) substitute
// their value node in place; string-valued bindings substitute the raw
// string text.
func (cg *CodeGen) lowerGlobalVar(node *ast.GlobalVar, sc *scope) (string, error) {
	v := sc.get("gvar_" + node.Name)
	if v == nil {
		return "", errf(ErrName, node.Pos(), "'%s' is undefined", node.Name)
	}
	if v.builtin != nil {
		return "", errf(ErrName, node.Pos(), "'%s' is a compile-time function, not a value", node.Name)
	}
	if text, done, err := cg.substitute(v, sc); done {
		return text, err
	}
	return fmt.Sprintf("Value In Array(Global Variable(A), %d)", *v.index), nil
}

func (cg *CodeGen) lowerPlayerVar(node *ast.PlayerVar, sc *scope) (string, error) {
	v := sc.get("pvar_" + node.Name)
	if v == nil {
		return "", errf(ErrName, node.Pos(), "'%s' is undefined", node.Name)
	}
	if v.builtin != nil {
		return "", errf(ErrName, node.Pos(), "'%s' is a compile-time function, not a value", node.Name)
	}
	if text, done, err := cg.substitute(v, sc); done {
		return text, err
	}
	player, err := cg.expr(node.Player, sc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Value In Array(Player Variable(%s, A), %d)", player, *v.index), nil
}

// substitute handles the compile-time-only binding cases shared by both
// storage domains. done reports whether the reference was fully resolved.
func (cg *CodeGen) substitute(v *variable, sc *scope) (text string, done bool, err error) {
	if s, ok := v.value.(*ast.String); ok {
		return s.Value, true, nil
	}
	if v.index != nil {
		return "", false, nil
	}
	if v.value == nil {
		return "", true, errf(ErrName, ast.Pos{}, "binding has no value")
	}
	text, err = cg.expr(v.value, sc)
	return text, true, err
}

func (cg *CodeGen) lowerString(node *ast.String, sc *scope) (string, error) {
	out := `String("` + titleCase(node.Value) + `"`
	for _, arg := range node.Args {
		text, err := cg.expr(arg, sc)
		if err != nil {
			return "", err
		}
		out += ", " + text
	}
	return out + ")", nil
}

// lowerTime normalizes a duration literal to seconds, rounded to
// milliseconds.
func lowerTime(node *ast.Time) (string, error) {
	raw := node.Value
	scale := 1.0
	switch {
	case strings.HasSuffix(raw, "ms"):
		raw, scale = strings.TrimSuffix(raw, "ms"), 1.0/1000
	case strings.HasSuffix(raw, "min"):
		raw, scale = strings.TrimSuffix(raw, "min"), 60
	case strings.HasSuffix(raw, "s"):
		raw = strings.TrimSuffix(raw, "s")
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", errf(ErrParameter, node.Pos(), "invalid time literal '%s'", node.Value)
	}
	return formatNumber(math.Round(t*scale*1000) / 1000), nil
}

func (cg *CodeGen) lowerVector(node *ast.Vector, sc *scope) (string, error) {
	parts := make([]string, 0, len(node.Components))
	for _, c := range node.Components {
		text, err := cg.expr(c, sc)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return "Vector(" + strings.Join(parts, ", ") + ")", nil
}

// lowerArray renders an array literal as a right-nested Append To Array
// chain from the empty-array sentinel. String and constant elements are
// materialized as Null; the runtime cannot hold them in element storage.
func (cg *CodeGen) lowerArray(node *ast.Array, sc *scope) (string, error) {
	if len(node.Elements) == 0 {
		return "Empty Array", nil
	}
	var out strings.Builder
	out.WriteString(strings.Repeat("Append To Array(", len(node.Elements)))
	out.WriteString("Empty Array")
	for _, elem := range node.Elements {
		switch elem.(type) {
		case *ast.String, *ast.Constant:
			elem = &ast.Constant{Position: elem.Pos(), Name: "null"}
		}
		text, err := cg.expr(elem, sc)
		if err != nil {
			return "", err
		}
		out.WriteString(", " + text + ")")
	}
	return out.String(), nil
}

// lowerItem resolves indexed access. A literal index into a variable bound
// to a compile-time array reads the element node directly (out of range
// reads as zero); everything else is a runtime array lookup.
func (cg *CodeGen) lowerItem(node *ast.Item, sc *scope) (string, error) {
	if key, ok := storageKey(node.Parent); ok {
		if num, ok := node.Index.(*ast.Number); ok {
			if idx, err := strconv.Atoi(num.Value); err == nil {
				v := sc.get(key)
				if v == nil {
					return "", errf(ErrName, node.Parent.Pos(), "'%s' is undefined", key[5:])
				}
				if arr, ok := v.value.(*ast.Array); ok {
					if idx < 0 || idx >= len(arr.Elements) {
						return "0", nil
					}
					return cg.expr(arr.Elements[idx], sc)
				}
			}
		}
	}
	parent, err := cg.expr(node.Parent, sc)
	if err != nil {
		return "", err
	}
	index, err := cg.expr(node.Index, sc)
	if err != nil {
		return "", err
	}
	return "Value In Array(" + parent + ", " + index + ")", nil
}

// storageKey maps a variable reference node to its scope key.
func storageKey(node ast.Node) (string, bool) {
	switch n := node.(type) {
	case *ast.GlobalVar:
		return "gvar_" + n.Name, true
	case *ast.PlayerVar:
		return "pvar_" + n.Name, true
	}
	return "", false
}

func (cg *CodeGen) lowerAttribute(node *ast.Attribute, sc *scope) (string, error) {
	name := strings.ToLower(node.Name)
	tmpl, ok := workshop.Attribute(ast.Kind(node.Parent), name)
	if !ok {
		return "", errf(ErrAttribute, node.Pos(), "'%s' has no attribute '%s'", ast.Kind(node.Parent), name)
	}
	parent, err := cg.expr(node.Parent, sc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, parent), nil
}
