package codegen

import (
	"strings"
	"testing"

	"github.com/MatthewSH/OWScript/internal/ast"
)

func allPlayers() *ast.Instruction {
	return &ast.Instruction{Name: "all players", Args: []ast.Node{&ast.Constant{Name: "all teams"}}}
}

func message(arg ast.Node) *ast.Instruction {
	return &ast.Instruction{Name: "small message", Args: []ast.Node{&ast.Constant{Name: "event player"}, arg}}
}

// blockLines lowers one Actions block and returns its backpatched lines.
func blockLines(t *testing.T, stmts ...ast.Node) []string {
	t.Helper()
	code := generate(t, actionsScript(stmts...))
	start := strings.Index(code, "Actions {")
	end := strings.LastIndex(code, "}")
	if start < 0 || end < 0 {
		t.Fatalf("no actions block in:\n%s", code)
	}
	body := code[start+len("Actions {") : end]
	var lines []string
	for _, ln := range strings.Split(body, ";\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" && ln != "}" {
			lines = append(lines, strings.TrimSuffix(ln, ";"))
		}
	}
	return lines
}

func TestCompoundAssignDesugars(t *testing.T) {
	code := generate(t, actionsScript(
		set("x", num("1")),
		&ast.Assign{Left: gv("x"), Op: "*=", Right: num("3")},
	))
	if !strings.Contains(code, "Set Global Variable At Index(A, 0, Multiply(Value In Array(Global Variable(A), 0), 3))") {
		t.Fatalf("expected *= to lower through Multiply, got:\n%s", code)
	}
}

func TestPlayerAssignAndRead(t *testing.T) {
	ep := &ast.Constant{Name: "event player"}
	code := generate(t, actionsScript(
		&ast.Assign{Left: &ast.PlayerVar{Name: "score", Player: ep}, Op: "=", Right: num("7")},
		set("x", &ast.PlayerVar{Name: "score", Player: ep}),
	))
	if !strings.Contains(code, "Set Player Variable At Index(Event Player, A, 0, 7)") {
		t.Fatalf("expected player store, got:\n%s", code)
	}
	if !strings.Contains(code, "Set Global Variable At Index(A, 0, Value In Array(Player Variable(Event Player, A), 0))") {
		t.Fatalf("expected player read, got:\n%s", code)
	}
}

func TestIfOffsets(t *testing.T) {
	cond := &ast.Compare{Left: num("1"), Op: "==", Right: num("1")}
	lines := blockLines(t,
		&ast.If{
			Cond:  cond,
			True:  &ast.Block{Lines: []ast.Node{set("a", num("1")), set("b", num("2"))}},
			False: &ast.Block{Lines: []ast.Node{set("a", num("3"))}},
		},
	)
	want := []string{
		"Skip If(Not(Compare(1, ==, 1)), 3)",
		"Set Global Variable At Index(A, 0, 1)",
		"Set Global Variable At Index(A, 1, 2)",
		"Skip(1)",
		"Set Global Variable At Index(A, 0, 3)",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestIfWithoutElse(t *testing.T) {
	cond := &ast.Compare{Left: num("1"), Op: "==", Right: num("1")}
	lines := blockLines(t,
		&ast.If{Cond: cond, True: &ast.Block{Lines: []ast.Node{set("a", num("1"))}}},
	)
	if lines[0] != "Skip If(Not(Compare(1, ==, 1)), 1)" {
		t.Fatalf("expected offset 1 with no else, got %q", lines[0])
	}
}

func TestElseIfChain(t *testing.T) {
	c1 := &ast.Compare{Left: num("1"), Op: "==", Right: num("1")}
	c2 := &ast.Compare{Left: num("2"), Op: "==", Right: num("2")}
	lines := blockLines(t,
		&ast.If{
			Cond: c1,
			True: &ast.Block{Lines: []ast.Node{set("x", num("1"))}},
			False: &ast.If{
				Cond:  c2,
				True:  &ast.Block{Lines: []ast.Node{set("x", num("2"))}},
				False: &ast.Block{Lines: []ast.Node{set("x", num("3"))}},
			},
		},
	)
	want := []string{
		"Skip If(Not(Compare(1, ==, 1)), 2)",
		"Set Global Variable At Index(A, 0, 1)",
		"Skip(4)",
		"Skip If(Not(Compare(2, ==, 2)), 2)",
		"Set Global Variable At Index(A, 0, 2)",
		"Skip(1)",
		"Set Global Variable At Index(A, 0, 3)",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestForUnrollsCompileTimeArray(t *testing.T) {
	lines := blockLines(t,
		set("nums", &ast.Array{Elements: []ast.Node{num("1"), num("2"), num("3")}}),
		&ast.For{Pointer: gv("n"), Iterable: gv("nums"), Body: &ast.Block{Lines: []ast.Node{
			message(gv("n")),
		}}},
	)
	want := []string{
		"Set Global Variable At Index(A, 0, Append To Array(Append To Array(Append To Array(Empty Array, 1), 2), 3))",
		"Small Message(Event Player, 1)",
		"Small Message(Event Player, 2)",
		"Small Message(Event Player, 3)",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestForUnrollAllocatesNoCounterSlot(t *testing.T) {
	code := generate(t, actionsScript(
		set("nums", &ast.Array{Elements: []ast.Node{num("1"), num("2")}}),
		&ast.For{Pointer: gv("n"), Iterable: gv("nums"), Body: &ast.Block{Lines: []ast.Node{
			message(gv("n")),
		}}},
		set("after", num("9")),
	))
	// nums took slot 0; with no counter slot the next draw is 1
	if !strings.Contains(code, "Set Global Variable At Index(A, 1, 9)") {
		t.Fatalf("expected next slot to be 1, got:\n%s", code)
	}
}

func TestRuntimeForLowering(t *testing.T) {
	lines := blockLines(t,
		&ast.For{Pointer: gv("p"), Iterable: allPlayers(), Body: &ast.Block{Lines: []ast.Node{
			message(gv("p")),
		}}},
	)
	counter := "Value In Array(Global Variable(A), 0)"
	want := []string{
		"Skip If(Compare(" + counter + ", !=, 0), 1)",
		"Set Global Variable At Index(A, 0, 0)",
		"Skip If(Compare(Count Of(All Players(All Teams)), ==, " + counter + "), 5)",
		"Small Message(Event Player, Value In Array(All Players(All Teams), " + counter + "))",
		"Modify Global Variable At Index(A, 0, Add, 1)",
		"Wait(0.016, Ignore Condition)",
		"Loop",
		"Set Global Variable At Index(A, 0, 0)",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

// Nested runtime loops must each get their own counter slot.
func TestNestedRuntimeForUsesDistinctCounters(t *testing.T) {
	code := generate(t, actionsScript(
		&ast.For{Pointer: gv("a"), Iterable: allPlayers(), Body: &ast.Block{Lines: []ast.Node{
			&ast.For{Pointer: gv("b"), Iterable: allPlayers(), Body: &ast.Block{Lines: []ast.Node{
				message(gv("b")),
			}}},
		}}},
	))
	if !strings.Contains(code, "Modify Global Variable At Index(A, 0, Add, 1)") {
		t.Fatalf("expected outer counter at slot 0, got:\n%s", code)
	}
	if !strings.Contains(code, "Modify Global Variable At Index(A, 1, Add, 1)") {
		t.Fatalf("expected inner counter at slot 1, got:\n%s", code)
	}
}

func TestElementAssignReplacesOneElement(t *testing.T) {
	code := generate(t, actionsScript(
		set("arr", &ast.Array{Elements: []ast.Node{num("1"), num("2"), num("3")}}),
		&ast.Assign{
			Left:  &ast.Item{Parent: gv("arr"), Index: num("2")},
			Op:    "=",
			Right: num("9"),
		},
	))
	want := "Set Global Variable At Index(A, 0, Append To Array(Append To Array(Append To Array(Empty Array, 1), 2), 9))"
	if !strings.Contains(code, want) {
		t.Fatalf("expected rebuilt array at the same slot, got:\n%s", code)
	}
}

func TestElementAssignDynamicIndexRejected(t *testing.T) {
	err := generateErr(t, actionsScript(
		set("arr", &ast.Array{Elements: []ast.Node{num("1"), num("2")}}),
		set("i", num("0")),
		&ast.Assign{
			Left:  &ast.Item{Parent: gv("arr"), Index: gv("i")},
			Op:    "=",
			Right: num("9"),
		},
	))
	if err.Kind != ErrUnsupported {
		t.Fatalf("expected NotImplementedError, got %v", err)
	}
	if !strings.Contains(err.Message, "literal indices") {
		t.Fatalf("unexpected message %q", err.Message)
	}
}

func TestWhileBodyCountsNestedExpansion(t *testing.T) {
	cond := &ast.Compare{Left: num("1"), Op: "==", Right: num("1")}
	lines := blockLines(t,
		&ast.While{Cond: cond, Body: &ast.Block{Lines: []ast.Node{
			&ast.If{Cond: cond, True: &ast.Block{Lines: []ast.Node{
				set("x", num("1")),
				set("y", num("2")),
			}}},
		}}},
	)
	// body expands to 3 lines (skip + 2 stores), so the guard skips 5
	if lines[0] != "Skip If(Not(Compare(1, ==, 1)), 5)" {
		t.Fatalf("expected nested expansion to be counted, got %q", lines[0])
	}
	if lines[len(lines)-1] != "Loop If(Compare(1, ==, 1))" {
		t.Fatalf("expected trailing loop-back, got %q", lines[len(lines)-1])
	}
}
