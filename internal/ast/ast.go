package ast

import (
	"bytes"
	"strings"
)

// Pos is a source position carried by every node for diagnostics.
// The parser fills it in; a zero Pos means "position unknown".
type Pos struct {
	Line   int
	Column int
}

// Node is the base interface for all AST nodes
// Every node must provide a Pos (for diagnostics) and String (for printing)
type Node interface {
	Pos() Pos
	String() string
}

// Script is the root node of every AST
// Its body holds rules and top-level function definitions
type Script struct {
	Position Pos
	Body     []Node
}

func (s *Script) Pos() Pos { return s.Position }

// String builds the script back into a readable tree (useful for debugging)
func (s *Script) String() string {
	var out bytes.Buffer
	for _, n := range s.Body {
		out.WriteString(n.String())
	}
	return out.String()
}

// Rule represents a workshop rule: a name plus Event/Conditions/Actions blocks
type Rule struct {
	Position Pos
	Name     string
	Disabled bool
	Blocks   []*Ruleblock
}

func (r *Rule) Pos() Pos { return r.Position }
func (r *Rule) String() string {
	var out bytes.Buffer
	if r.Disabled {
		out.WriteString("disabled ")
	}
	out.WriteString("rule \"" + r.Name + "\"")
	for _, b := range r.Blocks {
		out.WriteString(" " + b.String())
	}
	return out.String()
}

// Ruleblock is one of the named sub-blocks of a rule:
// "Event", "Conditions" or "Actions"
type Ruleblock struct {
	Position Pos
	Name     string
	Body     []*Block
}

func (rb *Ruleblock) Pos() Pos { return rb.Position }
func (rb *Ruleblock) String() string {
	var out bytes.Buffer
	out.WriteString(rb.Name + " {")
	for _, b := range rb.Body {
		out.WriteString(b.String())
	}
	out.WriteString("}")
	return out.String()
}

// Block is a plain sequence of statement lines
type Block struct {
	Position Pos
	Lines    []Node
}

func (b *Block) Pos() Pos { return b.Position }
func (b *Block) String() string {
	var out bytes.Buffer
	for _, ln := range b.Lines {
		out.WriteString(ln.String() + "; ")
	}
	return out.String()
}

// Instruction is a call to a native workshop value or action by name,
// with ordered argument nodes. Arity and argument value sets are checked
// against the workshop vocabulary during code generation.
type Instruction struct {
	Position Pos
	Name     string
	Args     []Node
}

func (i *Instruction) Pos() Pos { return i.Position }
func (i *Instruction) String() string {
	parts := make([]string, 0, len(i.Args))
	for _, a := range i.Args {
		parts = append(parts, a.String())
	}
	return i.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Constant is a bare workshop constant like "Ongoing - Global" or "Null"
type Constant struct {
	Position Pos
	Name     string
}

func (c *Constant) Pos() Pos       { return c.Position }
func (c *Constant) String() string { return c.Name }

// Compare represents <left> <op> <right> with a comparison operator,
// including the membership operators "in" and "not in"
type Compare struct {
	Position Pos
	Left     Node
	Op       string
	Right    Node
}

func (c *Compare) Pos() Pos       { return c.Position }
func (c *Compare) String() string { return c.Left.String() + " " + c.Op + " " + c.Right.String() }

// Assign represents <target> <op> <value> where op is "=" or a compound
// operator (+=, -=, *=, /=, ^=, %=)
type Assign struct {
	Position Pos
	Left     Node
	Op       string
	Right    Node
}

func (a *Assign) Pos() Pos       { return a.Position }
func (a *Assign) String() string { return a.Left.String() + " " + a.Op + " " + a.Right.String() }

// If represents if <cond>: <true> [else: <false>]
// False is either a *Block or another *If (an else-if chain)
type If struct {
	Position Pos
	Cond     Node
	True     *Block
	False    Node
}

func (i *If) Pos() Pos { return i.Position }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("if " + i.Cond.String() + ": " + i.True.String())
	if i.False != nil {
		out.WriteString("else: " + i.False.String())
	}
	return out.String()
}

// While represents while <cond>: <body>
type While struct {
	Position Pos
	Cond     Node
	Body     *Block
}

func (w *While) Pos() Pos       { return w.Position }
func (w *While) String() string { return "while " + w.Cond.String() + ": " + w.Body.String() }

// For represents for <pointer> in <iterable>: <body>
type For struct {
	Position Pos
	Pointer  *GlobalVar
	Iterable Node
	Body     *Block
}

func (f *For) Pos() Pos { return f.Position }
func (f *For) String() string {
	return "for " + f.Pointer.String() + " in " + f.Iterable.String() + ": " + f.Body.String()
}

// BinaryOp represents <left> <op> <right> for + - * / ^ % and or/and
type BinaryOp struct {
	Position Pos
	Left     Node
	Op       string
	Right    Node
}

func (b *BinaryOp) Pos() Pos { return b.Position }
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// UnaryOp represents -<right>, +<right> or not <right>
type UnaryOp struct {
	Position Pos
	Op       string
	Right    Node
}

func (u *UnaryOp) Pos() Pos       { return u.Position }
func (u *UnaryOp) String() string { return "(" + u.Op + u.Right.String() + ")" }

// GlobalVar references a variable in the global storage domain
type GlobalVar struct {
	Position Pos
	Name     string
}

func (g *GlobalVar) Pos() Pos       { return g.Position }
func (g *GlobalVar) String() string { return g.Name }

// PlayerVar references a variable in the per-player storage domain,
// carrying the owning player expression
type PlayerVar struct {
	Position Pos
	Name     string
	Player   Node
}

func (p *PlayerVar) Pos() Pos       { return p.Position }
func (p *PlayerVar) String() string { return p.Name + "@" + p.Player.String() }

// String is a string literal with optional interpolated arguments
type String struct {
	Position Pos
	Value    string
	Args     []Node
}

func (s *String) Pos() Pos       { return s.Position }
func (s *String) String() string { return "\"" + s.Value + "\"" }

// Number is a numeric literal kept in its source text form
type Number struct {
	Position Pos
	Value    string
}

func (n *Number) Pos() Pos       { return n.Position }
func (n *Number) String() string { return n.Value }

// Time is a duration literal with a ms/s/min suffix
type Time struct {
	Position Pos
	Value    string
}

func (t *Time) Pos() Pos       { return t.Position }
func (t *Time) String() string { return t.Value }

// Vector represents <x, y, z>
type Vector struct {
	Position   Pos
	Components []Node
}

func (v *Vector) Pos() Pos { return v.Position }
func (v *Vector) String() string {
	parts := make([]string, 0, len(v.Components))
	for _, c := range v.Components {
		parts = append(parts, c.String())
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// Array represents [e1, e2, ...]
type Array struct {
	Position Pos
	Elements []Node
}

func (a *Array) Pos() Pos { return a.Position }
func (a *Array) String() string {
	parts := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Item represents indexed access: <parent>[<index>]
type Item struct {
	Position Pos
	Parent   Node
	Index    Node
}

func (i *Item) Pos() Pos       { return i.Position }
func (i *Item) String() string { return i.Parent.String() + "[" + i.Index.String() + "]" }

// Attribute represents <parent>.<name>
type Attribute struct {
	Position Pos
	Parent   Node
	Name     string
}

func (a *Attribute) Pos() Pos       { return a.Position }
func (a *Attribute) String() string { return a.Parent.String() + "." + a.Name }

// Call represents <callee>(<args>)
// The callee resolves to a user function (inlined at the call site) or to
// a compile-time builtin (replaced by the node it produces)
type Call struct {
	Position Pos
	Callee   Node
	Args     []Node
}

func (c *Call) Pos() Pos { return c.Position }
func (c *Call) String() string {
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Function is a user function definition. It is never materialized into
// runtime storage; calls expand its body in place.
type Function struct {
	Position Pos
	Name     string
	Params   []string
	Body     []Node
}

func (f *Function) Pos() Pos { return f.Position }
func (f *Function) String() string {
	return "%" + f.Name + "(" + strings.Join(f.Params, ", ") + ")"
}

// Return signals "stop expanding the function body here and use this
// expression as the call's value"
type Return struct {
	Position Pos
	Value    Node
}

func (r *Return) Pos() Pos { return r.Position }
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}
