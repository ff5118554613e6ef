package debate

import (
	"fmt"
	"strings"

	"github.com/ssmithers/aidebate/internal/core"
)

// buildContext constructs the ordered message context for the side about to
// speak. The speaker's own prior speeches appear as assistant messages, the
// opponent's as user messages. Moderator notes on prior non-cx turns are
// replayed as labelled moderator messages.
func buildContext(session *core.Session, side core.Side, slot core.SpeechSlot, moderatorNote string) []core.Message {
	messages := []core.Message{{
		Role:    core.RoleSystem,
		Content: systemPrompt(session.Topic, side, slot, moderatorNote),
	}}

	for _, turn := range session.Turns {
		if turn.ModeratorNote != "" && !turn.Slot.Kind.IsCrossExam() {
			messages = append(messages, core.Message{
				Role:    core.RoleUser,
				Content: fmt.Sprintf("[Moderator]: %s", turn.ModeratorNote),
			})
		}

		resp := turn.Response
		if resp.Side == side {
			messages = append(messages, core.Message{
				Role:    core.RoleAssistant,
				Content: resp.Content,
			})
			continue
		}

		// Tag the opponent's speech with its label, except cx answers.
		label := ""
		if turn.Slot.Kind != core.KindCXAnswer {
			label = fmt.Sprintf("[%s]", turn.Slot.Label)
		}
		messages = append(messages, core.Message{
			Role:    core.RoleUser,
			Content: strings.TrimSpace(label + " " + resp.Content),
		})
	}

	return messages
}

// systemPrompt generates the side-specific instruction for a speech.
func systemPrompt(topic string, side core.Side, slot core.SpeechSlot, moderatorNote string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are the %s team in a policy debate on: '%s'.\n\n", strings.ToUpper(side.Label()), topic)
	fmt.Fprintf(&sb, "Current Speech: %s\n\n", slot.Label)

	// Models that leak reasoning must be told, explicitly, not to.
	sb.WriteString(
		"IMPORTANT: Output ONLY your debate speech. Do NOT output:\n" +
			"- Your reasoning process or analysis steps\n" +
			"- Planning notes like '1. Analyze the Request' or '2. Determine the Stance'\n" +
			"- Meta-commentary about how you're constructing your argument\n" +
			"- Any text before your actual debate content\n\n")

	switch slot.Kind {
	case core.KindConstructive:
		sb.WriteString(
			"This is a CONSTRUCTIVE speech. Deliver your arguments directly:\n" +
				"- Introduce NEW arguments supporting your position\n" +
				"- Present evidence and reasoning\n" +
				"- Build your case with clear contentions\n" +
				"- Cite sources with DESCRIPTIVE text: [Source: Harvard Medical School 2023 study] or [Source: USDA nutrition database]\n" +
				"  NEVER use just numbers like [Source: 1] - always include the actual source name\n" +
				"- Keep your response concise (aim for 3-5 key points)\n" +
				"- Start immediately with your first argument\n")
	case core.KindCXQuestion:
		sb.WriteString(
			"This is CROSS-EXAMINATION. Ask your question directly:\n" +
				"- Ask ONE strategic question to challenge your opponent's case\n" +
				"- Focus on exposing weaknesses or contradictions\n" +
				"- Keep the question clear and direct\n" +
				"- Do NOT answer - only ask the question\n" +
				"- Start immediately with your question\n")
	case core.KindCXAnswer:
		sb.WriteString(
			"You are ANSWERING cross-examination. Respond directly:\n" +
				"- Answer the question directly and briefly\n" +
				"- Defend your position\n" +
				"- Clarify any misunderstandings\n" +
				"- Stay focused on the question asked\n" +
				"- Start immediately with your answer\n")
	case core.KindRebuttal:
		sb.WriteString(
			"This is a REBUTTAL speech. Deliver your rebuttal directly:\n" +
				"- Refute your opponent's arguments\n" +
				"- Extend your own arguments\n" +
				"- Do NOT introduce brand new arguments\n" +
				"- Focus on winning key issues in the debate\n" +
				"- Cite sources with DESCRIPTIVE text: [Source: Harvard Medical School 2023 study] or [Source: USDA nutrition database]\n" +
				"  NEVER use just numbers like [Source: 1] - always include the actual source name\n" +
				"- Start immediately with your rebuttal\n")
	case core.KindClosing:
		sb.WriteString(
			"This is your CLOSING ARGUMENT. Deliver your final summary directly:\n" +
				"- Summarize why your side should win this debate\n" +
				"- Highlight your strongest arguments\n" +
				"- Point out critical weaknesses in your opponent's case\n" +
				"- Make your final persuasive appeal\n" +
				"- Do NOT introduce new evidence or arguments\n" +
				"- Keep it concise and powerful (2-3 paragraphs maximum)\n" +
				"- Start immediately with your closing\n")
	}

	if moderatorNote != "" {
		fmt.Fprintf(&sb, "\n\n[MODERATOR INTERJECTION]: %s\n", moderatorNote)
		sb.WriteString("Acknowledge this and adjust your speech accordingly.\n")
	}

	return sb.String()
}
