package codegen

import (
	"strconv"

	"github.com/MatthewSH/OWScript/internal/ast"
)

// builtinFunc is a compile-time function. It receives the raw, unevaluated
// argument nodes and returns a replacement node that is lowered in place of
// the call.
type builtinFunc func(pos ast.Pos, args []ast.Node) (ast.Node, error)

// builtins is the fixed registry of compile-time functions. They live in
// the global scope under the global-variable prefix, like user functions,
// but are never materialized into runtime storage.
func builtins() map[string]builtinFunc {
	return map[string]builtinFunc{
		"range": builtinRange,
		"ceil":  builtinCeil,
		"floor": builtinFloor,
	}
}

// builtinRange expands range(stop) / range(start, stop) / range(start,
// stop, step) into an array of number literals, stop-exclusive.
func builtinRange(pos ast.Pos, args []ast.Node) (ast.Node, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, errf(ErrSyntax, pos, "'range' expected 1 to 3 arguments, received %d", len(args))
	}
	vals := make([]int, len(args))
	for i, arg := range args {
		n, err := intArg("range", arg)
		if err != nil {
			return nil, err
		}
		vals[i] = n
	}
	start, stop, step := 0, 0, 1
	switch len(vals) {
	case 1:
		stop = vals[0]
	case 2:
		start, stop = vals[0], vals[1]
	case 3:
		start, stop, step = vals[0], vals[1], vals[2]
	}
	if step == 0 {
		return nil, errf(ErrParameter, pos, "'range' step argument must not be zero")
	}
	arr := &ast.Array{Position: pos}
	if step > 0 {
		for v := start; v < stop; v += step {
			arr.Elements = append(arr.Elements, &ast.Number{Position: pos, Value: strconv.Itoa(v)})
		}
	} else {
		for v := start; v > stop; v += step {
			arr.Elements = append(arr.Elements, &ast.Number{Position: pos, Value: strconv.Itoa(v)})
		}
	}
	return arr, nil
}

func builtinCeil(pos ast.Pos, args []ast.Node) (ast.Node, error) {
	return roundToInteger("ceil", "up", pos, args)
}

func builtinFloor(pos ast.Pos, args []ast.Node) (ast.Node, error) {
	return roundToInteger("floor", "down", pos, args)
}

// roundToInteger wraps the argument in the native rounding instruction
// parameterized by direction.
func roundToInteger(name, direction string, pos ast.Pos, args []ast.Node) (ast.Node, error) {
	if len(args) != 1 {
		return nil, errf(ErrSyntax, pos, "'%s' expected 1 argument, received %d", name, len(args))
	}
	return &ast.Instruction{
		Position: pos,
		Name:     "round to integer",
		Args:     []ast.Node{args[0], &ast.Constant{Position: pos, Name: direction}},
	}, nil
}

// intArg requires a literal integer-valued number node.
func intArg(fn string, arg ast.Node) (int, error) {
	num, ok := arg.(*ast.Number)
	if !ok {
		return 0, errf(ErrParameter, arg.Pos(), "'%s' expected a literal number, received %s", fn, ast.Kind(arg))
	}
	n, err := strconv.Atoi(num.Value)
	if err != nil {
		return 0, errf(ErrParameter, arg.Pos(), "'%s' expected an integer, received %s", fn, num.Value)
	}
	return n, nil
}
