package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/xyproto/env/v2"

	"github.com/MatthewSH/OWScript/internal/ast"
	"github.com/MatthewSH/OWScript/internal/codegen"
)

// The parser is an external collaborator, so the driver ships sample
// scripts as ready-made ASTs.
var samples = map[string]func() *ast.Script{
	"counter": counterScript,
	"greet":   greetScript,
}

func main() {
	minify := flag.Bool("m", env.Bool("OWSCRIPT_MINIFY"), "minify the output by removing whitespace")
	save := flag.String("s", "", "save the output to a file instead of printing it")
	indent := flag.Int("indent", env.Int("OWSCRIPT_INDENT", 3), "output indent width")
	flag.Parse()

	name := flag.Arg(0)
	if name == "" {
		name = "counter"
	}
	build, ok := samples[name]
	if !ok {
		fail(fmt.Errorf("unknown sample %q (have: %s)", name, sampleNames()))
	}

	cg := codegen.New()
	cg.SetIndentSize(*indent)
	code, err := cg.Generate(build())
	if err != nil {
		fail(err)
	}
	if *minify {
		code = stripWhitespace(code)
	}
	if *save != "" {
		if err := os.WriteFile(*save, []byte(code), 0o644); err != nil {
			fail(err)
		}
		return
	}
	fmt.Println(code)
}

func fail(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err)
	os.Exit(1)
}

func sampleNames() string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// counterScript counts a global variable to five in a lowered while loop.
func counterScript() *ast.Script {
	count := &ast.GlobalVar{Name: "count"}
	lessThanFive := &ast.Compare{Left: count, Op: "<", Right: &ast.Number{Value: "5"}}
	return &ast.Script{Body: []ast.Node{
		&ast.Rule{
			Name: "Count to five",
			Blocks: []*ast.Ruleblock{
				{Name: "Event", Body: []*ast.Block{{Lines: []ast.Node{
					&ast.Constant{Name: "ongoing - global"},
				}}}},
				{Name: "Actions", Body: []*ast.Block{{Lines: []ast.Node{
					&ast.Assign{Left: count, Op: "=", Right: &ast.Number{Value: "0"}},
					&ast.While{Cond: lessThanFive, Body: &ast.Block{Lines: []ast.Node{
						&ast.Assign{Left: count, Op: "+=", Right: &ast.Number{Value: "1"}},
					}}},
				}}}},
			},
		},
	}}
}

// greetScript unrolls a loop over a compile-time array into repeated
// messages.
func greetScript() *ast.Script {
	nums := &ast.GlobalVar{Name: "nums"}
	n := &ast.GlobalVar{Name: "n"}
	return &ast.Script{Body: []ast.Node{
		&ast.Rule{
			Name: "Greet",
			Blocks: []*ast.Ruleblock{
				{Name: "Event", Body: []*ast.Block{{Lines: []ast.Node{
					&ast.Constant{Name: "ongoing - global"},
				}}}},
				{Name: "Actions", Body: []*ast.Block{{Lines: []ast.Node{
					&ast.Assign{Left: nums, Op: "=", Right: &ast.Array{Elements: []ast.Node{
						&ast.Number{Value: "1"},
						&ast.Number{Value: "2"},
						&ast.Number{Value: "3"},
					}}},
					&ast.For{Pointer: n, Iterable: nums, Body: &ast.Block{Lines: []ast.Node{
						&ast.Instruction{Name: "small message", Args: []ast.Node{
							&ast.Constant{Name: "event player"},
							n,
						}},
					}}},
				}}}},
			},
		},
	}}
}
