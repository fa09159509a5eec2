// Package codegen lowers an OWScript AST into a flat workshop rule document.
// The target has no loops, functions or labeled jumps, so all structured
// control flow is lowered into conditional relative skips and loop-backs
// with exact instruction-count offsets, functions are inlined at every call
// site, and variables are allocated flat indexed storage slots.
package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/MatthewSH/OWScript/internal/ast"
)

// preamble is the fixed always-true rule marking the output as generated.
const preamble = `rule("Generated by https://github.com/adapap/OWScript") { Event { Ongoing - Global; }}`

// minWait yields one tick so loop-backs cannot starve the scheduler.
const minWait = "Wait(0.016, Ignore Condition)"

// inlineLimit caps function-inlining depth. Recursive calls would otherwise
// expand forever at compile time.
const inlineLimit = 64

type lineKind int

const (
	lineCode lineKind = iota
	// lineLoopHead marks the conditional skip that begins a runtime-length
	// loop; resume skips are backpatched against it
	lineLoopHead
	// lineResume marks a skip whose offset placeholder is resolved once the
	// whole action block has been lowered
	lineResume
)

// line is one lowered statement. Skip and loop offsets are counted in
// lines, so nested control flow contributes its full expansion.
type line struct {
	text string
	kind lineKind
}

func codeLine(format string, args ...interface{}) line {
	if len(args) == 0 {
		return line{text: format}
	}
	return line{text: fmt.Sprintf(format, args...)}
}

// CodeGen holds the state for one transpilation run: the two slot
// allocators, the action block being assembled, and indentation. A CodeGen
// is single-use and not safe for concurrent use; independent compilations
// get independent generators.
type CodeGen struct {
	indentSize  int
	indentLevel int

	globalIndex int // next free global storage slot
	playerIndex int // next free per-player storage slot

	curblock    []line // lines of the ruleblock body being assembled
	inlineDepth int
}

// New creates a generator with the default three-space indent.
func New() *CodeGen {
	return &CodeGen{indentSize: 3}
}

// SetIndentSize overrides the output indent width.
func (cg *CodeGen) SetIndentSize(n int) {
	if n >= 0 {
		cg.indentSize = n
	}
}

func (cg *CodeGen) tabs() string {
	return strings.Repeat(" ", cg.indentSize*cg.indentLevel)
}

// Generate lowers a script into the final rule document. The first error
// aborts the run with no partial output.
func (cg *CodeGen) Generate(script *ast.Script) (string, error) {
	global := newScope("global", nil)
	for name, fn := range builtins() {
		global.define("gvar_"+name, &variable{builtin: fn})
	}

	var out strings.Builder
	out.WriteString(preamble + "\n")
	for _, node := range script.Body {
		switch n := node.(type) {
		case *ast.Rule:
			code, err := cg.lowerRule(n, global)
			if err != nil {
				return "", err
			}
			out.WriteString(code)
		case *ast.Function:
			global.define("gvar_"+n.Name, &variable{value: n})
		default:
			return "", errf(ErrUnsupported, node.Pos(), "unexpected top-level %s", ast.Kind(node))
		}
	}
	return strings.TrimRight(out.String(), "\n"), nil
}

func (cg *CodeGen) lowerRule(rule *ast.Rule, sc *scope) (string, error) {
	var out strings.Builder
	if rule.Disabled {
		out.WriteString("disabled ")
	}
	out.WriteString(`rule("` + rule.Name + `") {` + "\n")
	cg.indentLevel++
	blocks := make([]string, 0, len(rule.Blocks))
	for _, rb := range rule.Blocks {
		code, err := cg.lowerRuleblock(rb, sc)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, code)
	}
	cg.indentLevel--
	out.WriteString(strings.Join(blocks, "\n"))
	out.WriteString("}\n")
	return out.String(), nil
}

// lowerRuleblock assembles one Event/Conditions/Actions block. Statements
// are lowered into the current line list, the resume-skip backpatch pass
// runs, and the lines are joined with the statement terminator. Every
// condition line is compared against True, matching the workshop's
// condition syntax.
func (cg *CodeGen) lowerRuleblock(rb *ast.Ruleblock, sc *scope) (string, error) {
	var out strings.Builder
	out.WriteString(cg.tabs() + rb.Name + " {\n")
	cg.indentLevel++

	conditions := strings.EqualFold(rb.Name, "Conditions")
	var parts []string
	for _, blk := range rb.Body {
		cg.curblock = nil
		for _, stmtNode := range blk.Lines {
			lines, err := cg.stmt(stmtNode, sc)
			if err != nil {
				return "", err
			}
			cg.curblock = append(cg.curblock, lines...)
		}
		cg.resolveSkips()
		for _, ln := range cg.curblock {
			text := cg.tabs() + ln.text
			if conditions {
				text += " == True"
			}
			parts = append(parts, text)
		}
	}
	cg.curblock = nil

	out.WriteString(strings.Join(parts, ";\n"))
	cg.indentLevel--
	if len(parts) > 0 {
		out.WriteString(";\n")
	}
	out.WriteString(cg.tabs() + "}\n")
	return out.String(), nil
}

// resolveSkips is the backpatch pass for runtime-length loops: each resume
// skip at the top of the block is paired with a loop head and its offset
// placeholder replaced by the measured line distance. Pairing is
// innermost-first, mirroring insertion order.
func (cg *CodeGen) resolveSkips() {
	var resumes, heads []int
	for i, ln := range cg.curblock {
		switch ln.kind {
		case lineResume:
			resumes = append(resumes, i)
		case lineLoopHead:
			heads = append(heads, i)
		}
	}
	for i := 0; i < len(resumes) && i < len(heads); i++ {
		head := heads[len(heads)-1-i]
		ln := &cg.curblock[resumes[i]]
		ln.text = fmt.Sprintf(ln.text, head-1)
		ln.kind = lineCode
	}
}

// titleCase matches the source-language convention for instruction and
// constant names: the first letter of every word is uppercased, the rest
// lowered ("round to integer" -> "Round To Integer").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// formatNumber renders a folded value: integral results print as exact
// integers, everything else in plain decimal. The target parser does not
// read exponent notation.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<62 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
