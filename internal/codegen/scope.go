package codegen

import (
	"strings"

	"github.com/MatthewSH/OWScript/internal/ast"
)

// variable is a compile-time binding: a value node plus an optional storage
// slot. Functions and builtins never get a slot; they exist only at
// transpile time.
type variable struct {
	value   ast.Node
	builtin builtinFunc
	index   *int // allocated slot, nil when the binding is compile-time only
}

// scope is a lexically chained namespace
// Lookups walk up the parent chain; writes always hit the local map
type scope struct {
	name   string
	parent *scope
	vars   map[string]*variable
}

func newScope(name string, parent *scope) *scope {
	return &scope{name: name, parent: parent, vars: make(map[string]*variable)}
}

// get looks a name up through the scope chain, stopping at the first match
func (s *scope) get(name string) *variable {
	if v, ok := s.vars[name]; ok {
		return v
	}
	if s.parent != nil {
		return s.parent.get(name)
	}
	return nil
}

// define creates or replaces a binding in this scope only
func (s *scope) define(name string, v *variable) {
	s.vars[name] = v
}

// slotFor returns the storage slot for a prefixed variable name: the index
// of any visible binding if one exists, otherwise a fresh draw from the
// counter matching the name's storage domain. Repeated assignment to the
// same name therefore keeps one stable slot.
func (cg *CodeGen) slotFor(sc *scope, name string) int {
	if v := sc.get(name); v != nil && v.index != nil {
		return *v.index
	}
	if strings.HasPrefix(name, "pvar_") {
		i := cg.playerIndex
		cg.playerIndex++
		return i
	}
	i := cg.globalIndex
	cg.globalIndex++
	return i
}
