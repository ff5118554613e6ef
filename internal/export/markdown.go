package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ssmithers/aidebate/internal/core"
)

// MarkdownExporter exports debate sessions to Markdown format.
type MarkdownExporter struct{}

// Export writes the session as a Markdown transcript with a legend.
func (e *MarkdownExporter) Export(session *core.Session, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# Policy Debate Transcript\n\n")
	sb.WriteString(fmt.Sprintf("**Topic**: %s\n\n", session.Topic))
	sb.WriteString(fmt.Sprintf("**Affirmative Model**: %s\n", session.Models[core.SideAffirmative]))
	sb.WriteString(fmt.Sprintf("**Negative Model**: %s\n\n", session.Models[core.SideNegative]))
	sb.WriteString("---\n\n")

	// Legend
	sb.WriteString("## Legend\n\n")
	sb.WriteString("### Speech Types\n")
	sb.WriteString("- **Constructive**: Opening arguments presenting the case\n")
	sb.WriteString("- **Cross-Examination (CX)**: Question period where opponent challenges arguments\n")
	sb.WriteString("- **Rebuttal**: Arguments refuting opponent's case\n")
	sb.WriteString("- **Closing**: Final summary arguments\n\n")

	sb.WriteString("### Speech Labels\n")
	sb.WriteString("- **1AC**: First Affirmative Constructive\n")
	sb.WriteString("- **1NC**: First Negative Constructive\n")
	sb.WriteString("- **2AC**: Second Affirmative Constructive\n")
	sb.WriteString("- **2NC**: Second Negative Constructive\n")
	sb.WriteString("- **1NR**: First Negative Rebuttal\n")
	sb.WriteString("- **1AR**: First Affirmative Rebuttal\n")
	sb.WriteString("- **2NR**: Second Negative Rebuttal\n")
	sb.WriteString("- **2AR**: Second Affirmative Rebuttal\n")
	sb.WriteString("- **CX by [Speaker]**: Cross-examination question\n")
	sb.WriteString("- **Answer by [Speaker]**: Cross-examination response\n\n")

	sb.WriteString("### Speaker Positions\n")
	sb.WriteString("- **1A/2A**: First/Second Affirmative Speaker\n")
	sb.WriteString("- **1N/2N**: First/Second Negative Speaker\n\n")

	sb.WriteString("---\n\n")
	sb.WriteString("## Transcript\n\n")

	for _, turn := range session.Turns {
		if turn.ModeratorNote != "" {
			sb.WriteString("### [Moderator]\n\n")
			sb.WriteString(turn.ModeratorNote + "\n\n")
		}

		resp := turn.Response
		sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", turn.Slot.Label, resp.Side.Label()))
		sb.WriteString(fmt.Sprintf("**Speaker**: %s\n", resp.Speaker))
		sb.WriteString(fmt.Sprintf("**Model**: %s\n\n", resp.ModelAlias))
		sb.WriteString(resp.Content + "\n\n")

		if len(resp.Citations) > 0 {
			sb.WriteString("**Sources**:\n")
			for _, c := range resp.Citations {
				sb.WriteString(fmt.Sprintf("%d. %s\n", c.ID, c.Text))
			}
			sb.WriteString("\n")
		}

		sb.WriteString("---\n\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}
