package personname

import (
	"strings"
	"testing"
)

// FuzzParse checks that Parse never panics and that accepted names keep
// the canonical-form invariants.
func FuzzParse(f *testing.F) {
	f.Add("Doe, John")
	f.Add("Doe,John")
	f.Add("Doe,  John")
	f.Add("doe, John")
	f.Add("Smith, Mary Jane")
	f.Add("O'Brien-Smith, Anne-Marie")
	f.Add("Doe,John,Jr")
	f.Add("")
	f.Add(",")
	f.Add("Doe, ")

	f.Fuzz(func(t *testing.T, input string) {
		n, err := Parse(input)
		if err != nil {
			if !n.IsZero() {
				t.Fatalf("Parse(%q) returned a value with an error", input)
			}
			return
		}

		canonical := n.String()
		if strings.Contains(canonical, ", ") {
			t.Errorf("canonical %q keeps a space after the comma", canonical)
		}
		if strings.Count(canonical, ",") != 1 {
			t.Errorf("canonical %q must hold exactly one comma", canonical)
		}

		again, err := Parse(canonical)
		if err != nil {
			t.Fatalf("canonical %q failed to re-parse: %v", canonical, err)
		}
		if !Equal(n, again) || n.Hash() != again.Hash() {
			t.Errorf("round trip changed %q", canonical)
		}

		family, err := n.Family()
		if err != nil {
			t.Fatalf("Family(%q): %v", canonical, err)
		}
		given, err := n.Given()
		if err != nil {
			t.Fatalf("Given(%q): %v", canonical, err)
		}
		if family+","+given != canonical {
			t.Errorf("family %q + given %q does not rebuild %q", family, given, canonical)
		}
		show, err := n.Show()
		if err != nil {
			t.Fatalf("Show(%q): %v", canonical, err)
		}
		if !strings.HasSuffix(show, " "+family) {
			t.Errorf("Show(%q)=%q must end with the family", canonical, show)
		}
	})
}
