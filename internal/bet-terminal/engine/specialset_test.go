package engine

import "testing"

func TestGenerateDouble(t *testing.T) {
	got := Generate(SetDouble)
	if len(got) != 10 {
		t.Fatalf("Double has %d numbers, want 10", len(got))
	}
	for _, n := range got {
		if len(n) != 2 || n[0] != n[1] {
			t.Errorf("Double contains %q, want dd shape", n)
		}
	}
}

func TestGenerateSiblingPair(t *testing.T) {
	got := Generate(SetSiblingPair)
	if len(got) != 20 {
		t.Fatalf("SiblingPair has %d numbers, want 20", len(got))
	}
	set := toSet(got)
	for _, want := range []string{"01", "10", "89", "98", "90", "09"} {
		if _, ok := set[want]; !ok {
			t.Errorf("SiblingPair missing %q", want)
		}
	}
	if _, ok := set["13"]; ok {
		t.Errorf("SiblingPair should not contain 13")
	}
}

func TestGenerateTriple(t *testing.T) {
	got := Generate(SetTriple)
	if len(got) != 10 {
		t.Fatalf("Triple has %d numbers, want 10", len(got))
	}
	for _, n := range got {
		if len(n) != 3 || n[0] != n[1] || n[1] != n[2] {
			t.Errorf("Triple contains %q, want ddd shape", n)
		}
	}
}

func TestGenerateThreeDigitShapes(t *testing.T) {
	cases := []struct {
		kind  SpecialSet
		name  string
		check func(n string) bool
	}{
		{SetDoubleFront, "DoubleFront", func(n string) bool { return n[0] == n[1] }},
		{SetDoubleBack, "DoubleBack", func(n string) bool { return n[1] == n[2] }},
		{SetSandwich, "Sandwich", func(n string) bool { return n[0] == n[2] }},
	}
	for _, c := range cases {
		got := Generate(c.kind)
		if len(got) != 100 {
			t.Errorf("%s has %d numbers, want 100", c.name, len(got))
			continue
		}
		for _, n := range got {
			if len(n) != 3 || !c.check(n) {
				t.Errorf("%s contains %q with wrong shape", c.name, n)
			}
		}
	}
}

func TestGenerateSandwichIncludesUniform(t *testing.T) {
	set := toSet(Generate(SetSandwich))
	if _, ok := set["000"]; !ok {
		t.Errorf("Sandwich should include 000 (a=b case)")
	}
}
