package main

import (
	"strings"
	"testing"

	"github.com/MatthewSH/OWScript/internal/codegen"
)

func TestStripWhitespace(t *testing.T) {
	got := stripWhitespace("Wait(0.016, Ignore Condition);\n   Loop;")
	if got != "Wait(0.016,IgnoreCondition);Loop;" {
		t.Fatalf("got %q", got)
	}
}

func TestSampleNamesSorted(t *testing.T) {
	if got := sampleNames(); got != "counter, greet" {
		t.Fatalf("got %q", got)
	}
}

func TestSamplesGenerate(t *testing.T) {
	for name, build := range samples {
		t.Run(name, func(t *testing.T) {
			code, err := codegen.New().Generate(build())
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if !strings.Contains(code, "Actions {") {
				t.Fatalf("%s produced no actions block:\n%s", name, code)
			}
		})
	}
}

func TestCounterSampleLowersLoop(t *testing.T) {
	code, err := codegen.New().Generate(counterScript())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Set Global Variable At Index(A, 0, 0)",
		"Loop If(Compare(Value In Array(Global Variable(A), 0), <, 5))",
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("missing %q in:\n%s", want, code)
		}
	}
}
