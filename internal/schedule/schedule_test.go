package schedule

import (
	"testing"

	"github.com/ssmithers/aidebate/internal/core"
)

func TestPolicyFlow(t *testing.T) {
	flow := PolicyFlow()

	t.Run("EighteenSpeeches", func(t *testing.T) {
		if len(flow) != 18 {
			t.Fatalf("flow length: got %d, want 18", len(flow))
		}
		if Length() != 18 {
			t.Errorf("Length(): got %d, want 18", Length())
		}
	})

	t.Run("OpensAndCloses", func(t *testing.T) {
		if flow[0].Label != "1AC" {
			t.Errorf("first speech: got %s, want 1AC", flow[0].Label)
		}
		if flow[0].Side != core.SideAffirmative {
			t.Errorf("first speech side: got %s, want aff", flow[0].Side)
		}
		last := flow[len(flow)-1]
		if last.Label != "Negative Closing" {
			t.Errorf("last speech: got %s, want Negative Closing", last.Label)
		}
		if last.Kind != core.KindClosing {
			t.Errorf("last speech kind: got %s, want closing", last.Kind)
		}
	})

	t.Run("ConstructivesPairedWithCrossExam", func(t *testing.T) {
		// Each constructive is followed by an opposing CX question, then the
		// speaker's own answer.
		for i, slot := range flow {
			if slot.Kind != core.KindConstructive {
				continue
			}
			if i+2 >= len(flow) {
				t.Fatalf("constructive %s has no room for cross-ex", slot.Label)
			}
			q := flow[i+1]
			a := flow[i+2]
			if q.Kind != core.KindCXQuestion {
				t.Errorf("after %s: got %s, want cx_question", slot.Label, q.Kind)
			}
			if q.Side != slot.Side.Opponent() {
				t.Errorf("cx after %s asked by %s, want %s", slot.Label, q.Side, slot.Side.Opponent())
			}
			if a.Kind != core.KindCXAnswer {
				t.Errorf("after %s question: got %s, want cx_answer", slot.Label, a.Kind)
			}
			if a.Side != slot.Side {
				t.Errorf("cx answer after %s by %s, want %s", slot.Label, a.Side, slot.Side)
			}
			if a.Speaker != slot.Speaker {
				t.Errorf("cx answer speaker: got %s, want %s", a.Speaker, slot.Speaker)
			}
		}
	})

	t.Run("SpeechKindCounts", func(t *testing.T) {
		counts := make(map[core.SpeechKind]int)
		for _, slot := range flow {
			counts[slot.Kind]++
		}
		want := map[core.SpeechKind]int{
			core.KindConstructive: 4,
			core.KindCXQuestion:   4,
			core.KindCXAnswer:     4,
			core.KindRebuttal:     4,
			core.KindClosing:      2,
		}
		for kind, n := range want {
			if counts[kind] != n {
				t.Errorf("%s count: got %d, want %d", kind, counts[kind], n)
			}
		}
	})

	t.Run("ReturnsACopy", func(t *testing.T) {
		mutated := PolicyFlow()
		mutated[0].Label = "changed"

		fresh := PolicyFlow()
		if fresh[0].Label != "1AC" {
			t.Errorf("mutating a returned flow leaked into the catalog: got %s", fresh[0].Label)
		}
	})
}
