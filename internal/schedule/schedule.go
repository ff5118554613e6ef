// Package schedule defines the fixed policy debate speech order.
package schedule

import (
	"github.com/ssmithers/aidebate/internal/core"
)

// speechDuration is the scheduled length of every speech, in seconds.
const speechDuration = 60

// policyFlow is the full policy debate: constructives interleaved with
// cross-examination for each side, then rebuttals, then closing arguments.
var policyFlow = []core.SpeechSlot{
	{Label: "1AC", Kind: core.KindConstructive, Side: core.SideAffirmative, Speaker: "1A", DurationSeconds: speechDuration},
	{Label: "CX by 2N", Kind: core.KindCXQuestion, Side: core.SideNegative, Speaker: "2N", DurationSeconds: speechDuration},
	{Label: "Answer by 1A", Kind: core.KindCXAnswer, Side: core.SideAffirmative, Speaker: "1A", DurationSeconds: speechDuration},
	{Label: "1NC", Kind: core.KindConstructive, Side: core.SideNegative, Speaker: "1N", DurationSeconds: speechDuration},
	{Label: "CX by 1A", Kind: core.KindCXQuestion, Side: core.SideAffirmative, Speaker: "1A", DurationSeconds: speechDuration},
	{Label: "Answer by 1N", Kind: core.KindCXAnswer, Side: core.SideNegative, Speaker: "1N", DurationSeconds: speechDuration},
	{Label: "2AC", Kind: core.KindConstructive, Side: core.SideAffirmative, Speaker: "2A", DurationSeconds: speechDuration},
	{Label: "CX by 1N", Kind: core.KindCXQuestion, Side: core.SideNegative, Speaker: "1N", DurationSeconds: speechDuration},
	{Label: "Answer by 2A", Kind: core.KindCXAnswer, Side: core.SideAffirmative, Speaker: "2A", DurationSeconds: speechDuration},
	{Label: "2NC", Kind: core.KindConstructive, Side: core.SideNegative, Speaker: "2N", DurationSeconds: speechDuration},
	{Label: "CX by 2A", Kind: core.KindCXQuestion, Side: core.SideAffirmative, Speaker: "2A", DurationSeconds: speechDuration},
	{Label: "Answer by 2N", Kind: core.KindCXAnswer, Side: core.SideNegative, Speaker: "2N", DurationSeconds: speechDuration},
	{Label: "1NR", Kind: core.KindRebuttal, Side: core.SideNegative, Speaker: "1N", DurationSeconds: speechDuration},
	{Label: "1AR", Kind: core.KindRebuttal, Side: core.SideAffirmative, Speaker: "1A", DurationSeconds: speechDuration},
	{Label: "2NR", Kind: core.KindRebuttal, Side: core.SideNegative, Speaker: "2N", DurationSeconds: speechDuration},
	{Label: "2AR", Kind: core.KindRebuttal, Side: core.SideAffirmative, Speaker: "2A", DurationSeconds: speechDuration},
	{Label: "Affirmative Closing", Kind: core.KindClosing, Side: core.SideAffirmative, Speaker: "2A", DurationSeconds: speechDuration},
	{Label: "Negative Closing", Kind: core.KindClosing, Side: core.SideNegative, Speaker: "2N", DurationSeconds: speechDuration},
}

// PolicyFlow returns a copy of the policy debate speech order. Callers own
// the returned slice; the catalog itself never changes at runtime.
func PolicyFlow() []core.SpeechSlot {
	flow := make([]core.SpeechSlot, len(policyFlow))
	copy(flow, policyFlow)
	return flow
}

// Length returns the number of speeches in the policy flow.
func Length() int {
	return len(policyFlow)
}
