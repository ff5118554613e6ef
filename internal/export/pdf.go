package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/ssmithers/aidebate/internal/core"
)

// PDFExporter exports debate sessions to PDF format.
type PDFExporter struct{}

// Export writes the session as PDF.
func (e *PDFExporter) Export(session *core.Session, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, e.sanitizeText(session.Topic), "", "C", false)
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Debate Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	e.addMetadataRow(pdf, "ID:", session.ID[:8]+"...")
	e.addMetadataRow(pdf, "Format:", session.Format)
	e.addMetadataRow(pdf, "Status:", string(session.Status))
	e.addMetadataRow(pdf, "Created:", session.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	e.addMetadataRow(pdf, "Affirmative:", session.Models[core.SideAffirmative])
	e.addMetadataRow(pdf, "Negative:", session.Models[core.SideNegative])
	pdf.Ln(5)

	// Transcript
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Transcript")
	pdf.Ln(8)

	if len(session.Turns) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No speeches recorded.")
		pdf.Ln(6)
	} else {
		for _, turn := range session.Turns {
			// Check if we need a new page
			if pdf.GetY() > 250 {
				pdf.AddPage()
			}

			if turn.ModeratorNote != "" {
				pdf.SetFillColor(255, 245, 200) // Light yellow
				pdf.SetFont("Arial", "B", 10)
				pdf.CellFormat(0, 7, "Moderator", "", 1, "", true, 0, "")
				pdf.SetFont("Arial", "", 9)
				pdf.SetFillColor(255, 255, 255)
				pdf.MultiCell(0, 5, e.sanitizeText(turn.ModeratorNote), "", "", false)
				pdf.Ln(3)
			}

			resp := turn.Response
			if resp.Side == core.SideAffirmative {
				pdf.SetFillColor(200, 230, 255) // Light blue
			} else {
				pdf.SetFillColor(200, 255, 200) // Light green
			}

			pdf.SetFont("Arial", "B", 10)
			header := fmt.Sprintf("%s - %s (%s, %s)", turn.Slot.Label, resp.Side.Label(), resp.Speaker, resp.ModelAlias)
			pdf.CellFormat(0, 7, header, "", 1, "", true, 0, "")

			pdf.SetFont("Arial", "", 9)
			pdf.SetFillColor(255, 255, 255)
			pdf.MultiCell(0, 5, e.sanitizeText(e.stripSuperscripts(resp.Content)), "", "", false)

			if len(resp.Citations) > 0 {
				pdf.SetFont("Arial", "I", 8)
				for _, c := range resp.Citations {
					pdf.MultiCell(0, 4, fmt.Sprintf("[%d] %s", c.ID, e.sanitizeText(c.Text)), "", "", false)
				}
			}
			pdf.Ln(5)
		}
	}

	// Footer
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 10, "Exported from aidebate", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}

// Helper to add a metadata row
func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 5, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, value)
	pdf.Ln(5)
}

// stripSuperscripts turns HTML citation references into plain bracketed ones.
func (e *PDFExporter) stripSuperscripts(text string) string {
	text = strings.ReplaceAll(text, "<sup>", "")
	return strings.ReplaceAll(text, "</sup>", "")
}

// Sanitize text for PDF (remove problematic characters)
func (e *PDFExporter) sanitizeText(text string) string {
	// gofpdf uses Windows-1252 encoding by default
	replacer := strings.NewReplacer(
		"‘", "'", // Left single quote
		"’", "'", // Right single quote
		"“", "\"", // Left double quote
		"”", "\"", // Right double quote
		"–", "-", // En dash
		"—", "--", // Em dash
		"…", "...", // Ellipsis
		"•", "*", // Bullet
		" ", " ", // Non-breaking space
	)
	return replacer.Replace(text)
}
