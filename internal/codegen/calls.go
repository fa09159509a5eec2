package codegen

import (
	"github.com/MatthewSH/OWScript/internal/ast"
)

// inlineCall expands a call in place. Builtins receive their raw argument
// nodes and the node they produce is lowered instead; user functions are
// expanded into the caller's line stream with parameters bound to the
// unevaluated argument expressions (call by name, so folding and builtins
// see through the call boundary). The rendered return expression, if any,
// is the call's value.
func (cg *CodeGen) inlineCall(node *ast.Call, sc *scope) ([]line, string, error) {
	key, ok := storageKey(node.Callee)
	if !ok {
		return nil, "", errf(ErrUnsupported, node.Pos(), "cannot call %s", ast.Kind(node.Callee))
	}
	name := key[5:]
	v := sc.get(key)
	if v == nil {
		return nil, "", errf(ErrName, node.Pos(), "undefined function '%s'", name)
	}

	if v.builtin != nil {
		replacement, err := v.builtin(node.Pos(), node.Args)
		if err != nil {
			return nil, "", err
		}
		if replacement == nil {
			return nil, "", nil
		}
		text, err := cg.expr(replacement, sc)
		if err != nil {
			return nil, "", err
		}
		return nil, text, nil
	}

	fn, ok := v.value.(*ast.Function)
	if !ok {
		return nil, "", errf(ErrName, node.Pos(), "'%s' is not a function", name)
	}
	if len(fn.Params) != len(node.Args) {
		return nil, "", errf(ErrParameter, node.Pos(), "'%s' expected %d arguments, received %d",
			name, len(fn.Params), len(node.Args))
	}

	if cg.inlineDepth >= inlineLimit {
		return nil, "", errf(ErrRecursion, node.Pos(), "'%s' exceeds the inlining depth limit (%d); recursive functions cannot be expanded", name, inlineLimit)
	}
	cg.inlineDepth++
	defer func() { cg.inlineDepth-- }()

	call := newScope(name, sc)
	for i, param := range fn.Params {
		call.define("gvar_"+param, &variable{value: node.Args[i]})
	}
	return cg.expandBody(fn.Body, call)
}

// expandBody lowers function body statements in order, stopping at the
// first return. The return expression is lowered in the call scope and
// handed back as the call's value.
func (cg *CodeGen) expandBody(body []ast.Node, sc *scope) ([]line, string, error) {
	var lines []line
	for _, stmtNode := range body {
		if ret, ok := stmtNode.(*ast.Return); ok {
			if ret.Value == nil {
				return lines, "", nil
			}
			text, err := cg.expr(ret.Value, sc)
			if err != nil {
				return nil, "", err
			}
			return lines, text, nil
		}
		ls, err := cg.stmt(stmtNode, sc)
		if err != nil {
			return nil, "", err
		}
		lines = append(lines, ls...)
	}
	return lines, "", nil
}
