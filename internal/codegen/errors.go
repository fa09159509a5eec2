package codegen

import (
	"fmt"

	"github.com/MatthewSH/OWScript/internal/ast"
)

// ErrorKind classifies transpile errors. Every user-facing failure carries
// exactly one kind plus the offending source position.
type ErrorKind int

const (
	// ErrSyntax is a structural error: wrong argument count for an
	// instruction or function
	ErrSyntax ErrorKind = iota
	// ErrParameter is an instruction argument outside its accepted value set
	ErrParameter
	// ErrName is a reference to an undefined variable or function
	ErrName
	// ErrAttribute is an attribute access the owner kind does not define
	ErrAttribute
	// ErrUnsupported marks constructs deliberately left unimplemented
	ErrUnsupported
	// ErrRecursion is raised when function inlining exceeds the depth cap
	ErrRecursion
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "SyntaxError"
	case ErrParameter:
		return "InvalidParameter"
	case ErrName:
		return "NameError"
	case ErrAttribute:
		return "AttributeError"
	case ErrUnsupported:
		return "NotImplementedError"
	case ErrRecursion:
		return "RecursionError"
	default:
		return "Error"
	}
}

// Error is the single diagnostic a failed transpilation produces.
// The first error aborts the run; no partial output is emitted.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d, column %d)", e.Kind, e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errf(kind ErrorKind, pos ast.Pos, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
	}
}
