package citation

import (
	"testing"
)

func TestExtract(t *testing.T) {
	t.Run("BracketMarker", func(t *testing.T) {
		text, citations := Extract("Renewables are cheaper [Source: IEA 2024 report] than coal.")

		if text != "Renewables are cheaper <sup>[1]</sup> than coal." {
			t.Errorf("text: got %q", text)
		}
		if len(citations) != 1 {
			t.Fatalf("citations: got %d, want 1", len(citations))
		}
		if citations[0].ID != 1 || citations[0].Text != "IEA 2024 report" {
			t.Errorf("citation: got %+v", citations[0])
		}
	})

	t.Run("ParenMarker", func(t *testing.T) {
		text, citations := Extract("Costs fell 80% (Source: Lazard LCOE analysis).")

		if text != "Costs fell 80% <sup>[1]</sup>." {
			t.Errorf("text: got %q", text)
		}
		if len(citations) != 1 || citations[0].Text != "Lazard LCOE analysis" {
			t.Errorf("citations: got %+v", citations)
		}
	})

	t.Run("BracketsNumberedBeforeParens", func(t *testing.T) {
		// The paren marker appears first in the text but brackets are
		// resolved first, so the bracket marker gets number 1.
		text, citations := Extract("First (Source: Paren) then [Source: Bracket] done.")

		if len(citations) != 2 {
			t.Fatalf("citations: got %d, want 2", len(citations))
		}
		if citations[0].Text != "Bracket" || citations[0].ID != 1 {
			t.Errorf("first citation: got %+v, want Bracket as 1", citations[0])
		}
		if citations[1].Text != "Paren" || citations[1].ID != 2 {
			t.Errorf("second citation: got %+v, want Paren as 2", citations[1])
		}
		if text != "First <sup>[2]</sup> then <sup>[1]</sup> done." {
			t.Errorf("text: got %q", text)
		}
	})

	t.Run("MultipleMarkersInOrder", func(t *testing.T) {
		text, citations := Extract("[Source: A] middle [Source: B] end [Source: C]")

		if len(citations) != 3 {
			t.Fatalf("citations: got %d, want 3", len(citations))
		}
		for i, want := range []string{"A", "B", "C"} {
			if citations[i].ID != i+1 || citations[i].Text != want {
				t.Errorf("citation %d: got %+v", i, citations[i])
			}
		}
		if text != "<sup>[1]</sup> middle <sup>[2]</sup> end <sup>[3]</sup>" {
			t.Errorf("text: got %q", text)
		}
	})

	t.Run("WhitespaceTrimmed", func(t *testing.T) {
		_, citations := Extract("[Source:   padded name  ]")
		if citations[0].Text != "padded name" {
			t.Errorf("citation text: got %q, want trimmed", citations[0].Text)
		}
	})

	t.Run("NoMarkers", func(t *testing.T) {
		input := "Plain argument with [brackets] and (parens) but no markers."
		text, citations := Extract(input)

		if text != input {
			t.Errorf("text changed: got %q", text)
		}
		if len(citations) != 0 {
			t.Errorf("citations: got %d, want 0", len(citations))
		}
	})

	t.Run("MalformedMarkerUntouched", func(t *testing.T) {
		input := "Unclosed [Source: dangling"
		text, citations := Extract(input)

		if text != input {
			t.Errorf("text changed: got %q", text)
		}
		if len(citations) != 0 {
			t.Errorf("citations: got %d, want 0", len(citations))
		}
	})
}
