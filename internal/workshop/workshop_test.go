package workshop

import "testing"

func TestLookupKnownInstruction(t *testing.T) {
	in, ok := Lookup("Wait")
	if !ok {
		t.Fatal("Wait should be in the vocabulary")
	}
	if len(in.Params) != 2 {
		t.Fatalf("Wait takes 2 parameters, got %d", len(in.Params))
	}
	if in.Params[0].Values != nil {
		t.Fatal("Wait's time position should accept any expression")
	}
	if in.Params[1].Kind != "Wait Behavior" {
		t.Fatalf("unexpected kind %q", in.Params[1].Kind)
	}
}

func TestLookupUnknownInstruction(t *testing.T) {
	if _, ok := Lookup("Teleport Everyone Home"); ok {
		t.Fatal("unknown names must miss")
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	if _, ok := Lookup("wait"); ok {
		t.Fatal("vocabulary keys are Titlecased")
	}
}

func TestConstrainedValuesAreUppercase(t *testing.T) {
	for name, in := range vocabulary {
		for i, p := range in.Params {
			for _, v := range p.Values {
				for _, r := range v {
					if r >= 'a' && r <= 'z' {
						t.Fatalf("%s parameter %d value %q is not uppercase", name, i+1, v)
					}
				}
			}
		}
	}
}

func TestVectorAttributes(t *testing.T) {
	tmpl, ok := Attribute("Vector", "y")
	if !ok {
		t.Fatal("Vector.y should resolve")
	}
	if tmpl != "Y Component Of(%s)" {
		t.Fatalf("unexpected template %q", tmpl)
	}
}

func TestPlayerAttributesSharedAcrossOwnerKinds(t *testing.T) {
	for _, kind := range []string{"GlobalVar", "PlayerVar", "Constant", "Call"} {
		if _, ok := Attribute(kind, "health"); !ok {
			t.Fatalf("%s.health should resolve", kind)
		}
	}
}

func TestVectorComponentsOnDynamicOwnerKinds(t *testing.T) {
	for _, kind := range []string{"Attribute", "GlobalVar", "Item"} {
		tmpl, ok := Attribute(kind, "x")
		if !ok {
			t.Fatalf("%s.x should resolve", kind)
		}
		if tmpl != "X Component Of(%s)" {
			t.Fatalf("unexpected template %q", tmpl)
		}
	}
}

func TestUnknownAttribute(t *testing.T) {
	if _, ok := Attribute("Vector", "w"); ok {
		t.Fatal("Vector has no w component")
	}
	if _, ok := Attribute("Number", "health"); ok {
		t.Fatal("numbers have no attributes")
	}
}
