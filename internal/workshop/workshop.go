// Package workshop carries the static target vocabulary: which instructions
// exist, how many arguments each takes, and which uppercase literal values
// each non-free position accepts. The tables are external data as far as the
// code generator is concerned; it only queries them read-only.
package workshop

// Param describes one instruction argument position.
// A nil Values slice means the position accepts any expression.
type Param struct {
	Kind   string
	Values []string
}

// Instruction is one vocabulary entry: its positional parameter list.
type Instruction struct {
	Params []Param
}

// Any is a free argument position.
func Any(kind string) Param { return Param{Kind: kind} }

func oneOf(kind string, values ...string) Param {
	return Param{Kind: kind, Values: values}
}

var waitBehavior = oneOf("Wait Behavior", "IGNORE CONDITION", "ABORT WHEN FALSE", "RESTART WHEN TRUE")
var modifyOp = oneOf("Operation", "ADD", "SUBTRACT", "MULTIPLY", "DIVIDE", "MODULO", "RAISE TO POWER",
	"MIN", "MAX", "APPEND TO ARRAY", "REMOVE FROM ARRAY BY VALUE", "REMOVE FROM ARRAY BY INDEX")
var rounding = oneOf("Rounding Type", "UP", "DOWN", "TO NEAREST")
var variable = oneOf("Variable", "A", "B", "C", "D", "E")
var team = oneOf("Team", "ALL TEAMS", "TEAM 1", "TEAM 2")

// vocabulary maps Titlecased instruction names to their parameter lists.
// It covers everything the generator itself emits plus the common
// script-facing surface; the full game table is external data.
var vocabulary = map[string]Instruction{
	"Wait":     {Params: []Param{Any("Time"), waitBehavior}},
	"Skip":     {Params: []Param{Any("Number")}},
	"Skip If":  {Params: []Param{Any("Boolean"), Any("Number")}},
	"Loop":     {},
	"Loop If":  {Params: []Param{Any("Boolean")}},
	"Abort":    {},
	"Abort If": {Params: []Param{Any("Boolean")}},

	"Set Global Variable At Index":    {Params: []Param{variable, Any("Number"), Any("Any")}},
	"Modify Global Variable At Index": {Params: []Param{variable, Any("Number"), modifyOp, Any("Any")}},
	"Set Player Variable At Index":    {Params: []Param{Any("Player"), variable, Any("Number"), Any("Any")}},
	"Modify Player Variable At Index": {Params: []Param{Any("Player"), variable, Any("Number"), modifyOp, Any("Any")}},
	"Global Variable":                 {Params: []Param{variable}},
	"Player Variable":                 {Params: []Param{Any("Player"), variable}},

	"Value In Array":   {Params: []Param{Any("Array"), Any("Number")}},
	"Count Of":         {Params: []Param{Any("Array")}},
	"Array Contains":   {Params: []Param{Any("Array"), Any("Any")}},
	"Append To Array":  {Params: []Param{Any("Array"), Any("Any")}},
	"First Of":         {Params: []Param{Any("Array")}},
	"Random Integer":   {Params: []Param{Any("Number"), Any("Number")}},
	"Round To Integer": {Params: []Param{Any("Number"), rounding}},

	"Compare":        {Params: []Param{Any("Any"), Any("Operator"), Any("Any")}},
	"Not":            {Params: []Param{Any("Boolean")}},
	"And":            {Params: []Param{Any("Boolean"), Any("Boolean")}},
	"Or":             {Params: []Param{Any("Boolean"), Any("Boolean")}},
	"Add":            {Params: []Param{Any("Any"), Any("Any")}},
	"Subtract":       {Params: []Param{Any("Any"), Any("Any")}},
	"Multiply":       {Params: []Param{Any("Any"), Any("Any")}},
	"Divide":         {Params: []Param{Any("Any"), Any("Any")}},
	"Modulo":         {Params: []Param{Any("Number"), Any("Number")}},
	"Raise To Power": {Params: []Param{Any("Number"), Any("Number")}},
	"Abs":            {Params: []Param{Any("Number")}},

	"Small Message":     {Params: []Param{Any("Player"), Any("Any")}},
	"Big Message":       {Params: []Param{Any("Player"), Any("Any")}},
	"All Players":       {Params: []Param{team}},
	"Number Of Players": {Params: []Param{team}},
	"Event Player":      {},
}

// Lookup returns the vocabulary entry for a Titlecased instruction name.
func Lookup(name string) (Instruction, bool) {
	in, ok := vocabulary[name]
	return in, ok
}
