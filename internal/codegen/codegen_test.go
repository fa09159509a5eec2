package codegen

import (
	"strings"
	"testing"

	"github.com/MatthewSH/OWScript/internal/ast"
)

func num(v string) *ast.Number      { return &ast.Number{Value: v} }
func gv(name string) *ast.GlobalVar { return &ast.GlobalVar{Name: name} }

func set(name string, value ast.Node) *ast.Assign {
	return &ast.Assign{Left: gv(name), Op: "=", Right: value}
}

func actionsScript(lines ...ast.Node) *ast.Script {
	return &ast.Script{Body: []ast.Node{
		&ast.Rule{Name: "test", Blocks: []*ast.Ruleblock{
			{Name: "Actions", Body: []*ast.Block{{Lines: lines}}},
		}},
	}}
}

func generate(t *testing.T, script *ast.Script) string {
	t.Helper()
	code, err := New().Generate(script)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return code
}

func generateErr(t *testing.T, script *ast.Script) *Error {
	t.Helper()
	_, err := New().Generate(script)
	if err == nil {
		t.Fatal("expected an error, got none")
	}
	terr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return terr
}

func TestGenerateEmitsPreamble(t *testing.T) {
	code := generate(t, &ast.Script{})
	want := `rule("Generated by https://github.com/adapap/OWScript") { Event { Ongoing - Global; }}`
	if !strings.HasPrefix(code, want) {
		t.Fatalf("expected preamble rule, got:\n%s", code)
	}
}

func TestGenerateDisabledRule(t *testing.T) {
	code := generate(t, &ast.Script{Body: []ast.Node{
		&ast.Rule{Name: "off", Disabled: true},
	}})
	if !strings.Contains(code, `disabled rule("off") {`) {
		t.Fatalf("expected disabled rule header, got:\n%s", code)
	}
}

func TestGenerateConditionscompareAgainstTrue(t *testing.T) {
	code := generate(t, &ast.Script{Body: []ast.Node{
		&ast.Rule{Name: "test", Blocks: []*ast.Ruleblock{
			{Name: "Conditions", Body: []*ast.Block{{Lines: []ast.Node{
				&ast.Compare{Left: num("1"), Op: "==", Right: num("1")},
			}}}},
		}},
	}})
	if !strings.Contains(code, "Compare(1, ==, 1) == True;") {
		t.Fatalf("expected condition compared against True, got:\n%s", code)
	}
}

// The canonical end-to-end check: a counter incremented while less than
// five lowers to a guarded body, a one-tick wait and a loop-back.
func TestGenerateWhileCounter(t *testing.T) {
	count := gv("count")
	cond := &ast.Compare{Left: count, Op: "<", Right: num("5")}
	code := generate(t, actionsScript(
		set("count", num("0")),
		&ast.While{Cond: cond, Body: &ast.Block{Lines: []ast.Node{
			&ast.Assign{Left: count, Op: "+=", Right: num("1")},
		}}},
	))

	read := "Value In Array(Global Variable(A), 0)"
	for _, want := range []string{
		"Set Global Variable At Index(A, 0, 0);",
		"Skip If(Not(Compare(" + read + ", <, 5)), 3);",
		"Set Global Variable At Index(A, 0, Add(" + read + ", 1));",
		"Wait(0.016, Ignore Condition);",
		"Loop If(Compare(" + read + ", <, 5));",
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("expected %q in:\n%s", want, code)
		}
	}
}

func TestGenerateDivisionByZeroFoldsToZero(t *testing.T) {
	code := generate(t, actionsScript(
		set("x", &ast.BinaryOp{Left: num("1"), Op: "/", Right: num("0")}),
	))
	if !strings.Contains(code, "Set Global Variable At Index(A, 0, 0);") {
		t.Fatalf("expected 1/0 to fold to 0, got:\n%s", code)
	}
	if strings.Contains(code, "Divide") {
		t.Fatalf("expected no runtime division instruction, got:\n%s", code)
	}
}

func TestGenerateNegativePowerOfZeroFoldsToZero(t *testing.T) {
	code := generate(t, actionsScript(
		set("x", &ast.BinaryOp{Left: num("0"), Op: "^", Right: num("-1")}),
	))
	if !strings.Contains(code, "Set Global Variable At Index(A, 0, 0);") {
		t.Fatalf("expected 0^-1 to fold to 0, got:\n%s", code)
	}
	if strings.Contains(code, "Inf") {
		t.Fatalf("non-finite fold result leaked into the output:\n%s", code)
	}
}

func TestGenerateTopLevelReturnRejected(t *testing.T) {
	err := generateErr(t, actionsScript(&ast.Return{Value: num("1")}))
	if err.Kind != ErrUnsupported {
		t.Fatalf("expected NotImplementedError, got %v", err)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"round to integer", "Round To Integer"},
		{"ongoing - global", "Ongoing - Global"},
		{"ALL TEAMS", "All Teams"},
		{"hello", "Hello"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{1.5, "1.5"},
		{-2, "-2"},
		{0.016, "0.016"},
		{1152921504606846976, "1152921504606846976"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
