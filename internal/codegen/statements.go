package codegen

import (
	"strconv"

	"github.com/MatthewSH/OWScript/internal/ast"
)

// stmt lowers one statement into its line sequence. Expression nodes in
// statement position become single bare lines (the form condition lines
// take).
func (cg *CodeGen) stmt(node ast.Node, sc *scope) ([]line, error) {
	switch n := node.(type) {
	case *ast.Assign:
		ln, err := cg.lowerAssign(n, sc)
		if err != nil {
			return nil, err
		}
		return []line{ln}, nil
	case *ast.If:
		return cg.lowerIf(n, sc)
	case *ast.While:
		return cg.lowerWhile(n, sc)
	case *ast.For:
		return cg.lowerFor(n, sc)
	case *ast.Function:
		sc.define("gvar_"+n.Name, &variable{value: n})
		return nil, nil
	case *ast.Return:
		return nil, errf(ErrUnsupported, n.Pos(), "return outside of a function body")
	case *ast.Call:
		lines, ret, err := cg.inlineCall(n, sc)
		if err != nil {
			return nil, err
		}
		if ret != "" {
			lines = append(lines, line{text: ret})
		}
		return lines, nil
	default:
		text, err := cg.expr(node, sc)
		if err != nil {
			return nil, err
		}
		return []line{{text: text}}, nil
	}
}

func (cg *CodeGen) lowerBlock(blk *ast.Block, sc *scope) ([]line, error) {
	var lines []line
	for _, stmtNode := range blk.Lines {
		ls, err := cg.stmt(stmtNode, sc)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ls...)
	}
	return lines, nil
}

// compoundOps desugar augmented assignment into a binary operation on the
// target before lowering.
var compoundOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "^=": "^", "%=": "%",
}

// lowerAssign stores a value into a variable slot, drawing a fresh slot the
// first time a name is defined and reusing the visible slot on every later
// assignment.
func (cg *CodeGen) lowerAssign(node *ast.Assign, sc *scope) (line, error) {
	value := node.Right
	if op, ok := compoundOps[node.Op]; ok {
		value = &ast.BinaryOp{Position: node.Position, Left: node.Left, Op: op, Right: node.Right}
	}

	switch target := node.Left.(type) {
	case *ast.GlobalVar:
		idx := cg.slotFor(sc, "gvar_"+target.Name)
		sc.define("gvar_"+target.Name, &variable{value: value, index: &idx})
		text, err := cg.expr(value, sc)
		if err != nil {
			return line{}, err
		}
		return codeLine("Set Global Variable At Index(A, %d, %s)", idx, text), nil

	case *ast.PlayerVar:
		idx := cg.slotFor(sc, "pvar_"+target.Name)
		sc.define("pvar_"+target.Name, &variable{value: value, index: &idx})
		player, err := cg.expr(target.Player, sc)
		if err != nil {
			return line{}, err
		}
		text, err := cg.expr(value, sc)
		if err != nil {
			return line{}, err
		}
		return codeLine("Set Player Variable At Index(%s, A, %d, %s)", player, idx, text), nil

	case *ast.Item:
		return cg.lowerElementAssign(node, target, value, sc)
	}
	return line{}, errf(ErrUnsupported, node.Pos(), "assign to '%s' not implemented", ast.Kind(node.Left))
}

// lowerElementAssign replaces one element of an array-valued variable and
// re-stores the whole array at the variable's existing slot. Only literal
// indices are supported; the runtime offers no in-place element write.
func (cg *CodeGen) lowerElementAssign(node *ast.Assign, target *ast.Item, value ast.Node, sc *scope) (line, error) {
	key, ok := storageKey(target.Parent)
	if !ok {
		return line{}, errf(ErrUnsupported, node.Pos(), "assign to '%s' not implemented", ast.Kind(target.Parent))
	}
	num, ok := target.Index.(*ast.Number)
	if !ok {
		return line{}, errf(ErrUnsupported, node.Pos(), "array assignment only supports literal indices")
	}
	elemIdx, err := strconv.Atoi(num.Value)
	if err != nil {
		return line{}, errf(ErrUnsupported, node.Pos(), "array assignment only supports literal indices")
	}
	v := sc.get(key)
	if v == nil {
		return line{}, errf(ErrName, target.Parent.Pos(), "'%s' is undefined", key[5:])
	}
	arr, ok := v.value.(*ast.Array)
	if !ok {
		return line{}, errf(ErrUnsupported, node.Pos(), "element assignment requires a compile-time array")
	}
	if elemIdx < 0 || elemIdx >= len(arr.Elements) {
		return line{}, errf(ErrUnsupported, node.Pos(), "array index %d out of range (%d elements)", elemIdx, len(arr.Elements))
	}

	elements := make([]ast.Node, len(arr.Elements))
	copy(elements, arr.Elements)
	elements[elemIdx] = value
	rebuilt := &ast.Array{Position: arr.Position, Elements: elements}

	idx := cg.slotFor(sc, key)
	sc.define(key, &variable{value: rebuilt, index: &idx})
	text, err := cg.expr(rebuilt, sc)
	if err != nil {
		return line{}, err
	}
	if pv, ok := target.Parent.(*ast.PlayerVar); ok {
		player, err := cg.expr(pv.Player, sc)
		if err != nil {
			return line{}, err
		}
		return codeLine("Set Player Variable At Index(%s, A, %d, %s)", player, idx, text), nil
	}
	return codeLine("Set Global Variable At Index(A, %d, %s)", idx, text), nil
}

// lowerIf lowers the true branch first to learn its length, then guards it
// with a conditional skip. An else branch is jumped over by an
// unconditional skip at the end of the true branch; else-if chains recurse.
func (cg *CodeGen) lowerIf(node *ast.If, sc *scope) ([]line, error) {
	cond, err := cg.expr(node.Cond, sc)
	if err != nil {
		return nil, err
	}
	trueLines, err := cg.lowerBlock(node.True, sc)
	if err != nil {
		return nil, err
	}

	offset := len(trueLines)
	if node.False != nil {
		offset++ // the Skip over the else branch
	}
	lines := make([]line, 0, offset+2)
	lines = append(lines, codeLine("Skip If(Not(%s), %d)", cond, offset))
	lines = append(lines, trueLines...)

	if node.False != nil {
		var falseLines []line
		switch alt := node.False.(type) {
		case *ast.If:
			falseLines, err = cg.lowerIf(alt, sc)
		case *ast.Block:
			falseLines, err = cg.lowerBlock(alt, sc)
		default:
			err = errf(ErrUnsupported, node.False.Pos(), "unexpected else branch %s", ast.Kind(node.False))
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, codeLine("Skip(%d)", len(falseLines)))
		lines = append(lines, falseLines...)
	}
	return lines, nil
}

// lowerWhile guards the body with a skip past it, and loops back while the
// condition holds. The offset covers the body plus the trailing wait and
// loop-back; the wait yields one tick so the loop cannot starve the
// scheduler.
func (cg *CodeGen) lowerWhile(node *ast.While, sc *scope) ([]line, error) {
	cond, err := cg.expr(node.Cond, sc)
	if err != nil {
		return nil, err
	}
	body, err := cg.lowerBlock(node.Body, sc)
	if err != nil {
		return nil, err
	}
	lines := make([]line, 0, len(body)+3)
	lines = append(lines, codeLine("Skip If(Not(%s), %d)", cond, len(body)+2))
	lines = append(lines, body...)
	lines = append(lines, line{text: minWait})
	lines = append(lines, codeLine("Loop If(%s)", cond))
	return lines, nil
}

// lowerFor unrolls loops over compile-time arrays; anything else becomes a
// counter-driven runtime loop.
func (cg *CodeGen) lowerFor(node *ast.For, sc *scope) ([]line, error) {
	if key, ok := storageKey(node.Iterable); ok {
		if v := sc.get(key); v != nil {
			if arr, ok := v.value.(*ast.Array); ok {
				return cg.unrollFor(node, arr, sc)
			}
		}
	}
	return cg.lowerRuntimeFor(node, sc)
}

// unrollFor emits one copy of the body per element, each in a fresh child
// scope binding the loop variable directly to the element literal. No
// counter slot is allocated and no skips are introduced.
func (cg *CodeGen) unrollFor(node *ast.For, arr *ast.Array, sc *scope) ([]line, error) {
	var lines []line
	for _, elem := range arr.Elements {
		iter := newScope("for", sc)
		iter.define("gvar_"+node.Pointer.Name, &variable{value: elem})
		body, err := cg.lowerBlock(node.Body, iter)
		if err != nil {
			return nil, err
		}
		lines = append(lines, body...)
	}
	return lines, nil
}

// lowerRuntimeFor drives iteration with a freshly allocated global counter:
// skip past the loop once the counter reaches the collection size, run the
// body with the loop variable resolved by indexed access through the
// counter, increment, wait one tick, loop back, reset. A resume skip is
// prepended to the enclosing block so a rule re-entering mid-iteration
// jumps straight back to the loop head; its offset is backpatched once the
// block is complete.
func (cg *CodeGen) lowerRuntimeFor(node *ast.For, sc *scope) ([]line, error) {
	idx := cg.globalIndex
	cg.globalIndex++

	counter := &ast.Instruction{
		Position: node.Position,
		Name:     "value in array",
		Args: []ast.Node{
			&ast.Instruction{Position: node.Position, Name: "global variable", Args: []ast.Node{&ast.Constant{Position: node.Position, Name: "A"}}},
			&ast.Number{Position: node.Position, Value: strconv.Itoa(idx)},
		},
	}

	iter := newScope("for", sc)
	iter.define("gvar_"+node.Pointer.Name, &variable{
		value: &ast.Item{Position: node.Position, Parent: node.Iterable, Index: counter},
	})

	iterable, err := cg.expr(node.Iterable, iter)
	if err != nil {
		return nil, err
	}
	counterText, err := cg.expr(counter, iter)
	if err != nil {
		return nil, err
	}
	body, err := cg.lowerBlock(node.Body, iter)
	if err != nil {
		return nil, err
	}

	reset := codeLine("Set Global Variable At Index(A, %d, 0)", idx)
	inner := make([]line, 0, len(body)+4)
	inner = append(inner, body...)
	inner = append(inner, codeLine("Modify Global Variable At Index(A, %d, Add, 1)", idx))
	inner = append(inner, line{text: minWait})
	inner = append(inner, line{text: "Loop"})
	inner = append(inner, reset)

	lines := make([]line, 0, len(inner)+2)
	lines = append(lines, reset)
	lines = append(lines, line{
		kind: lineLoopHead,
		text: codeLine("Skip If(Compare(Count Of(%s), ==, %s), %d)", iterable, counterText, len(inner)).text,
	})
	lines = append(lines, inner...)

	resume := line{
		kind: lineResume,
		text: codeLine("Skip If(Compare(Value In Array(Global Variable(A), %d), !=, 0), %%d)", idx).text,
	}
	cg.curblock = append([]line{resume}, cg.curblock...)
	return lines, nil
}
