// Package export handles exporting debate sessions to various formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ssmithers/aidebate/internal/core"
)

// Format represents an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
)

// Exporter defines the interface for exporting debate sessions.
type Exporter interface {
	Export(session *core.Session, w io.Writer) error
	FileExtension() string
}

// GetExporter returns an exporter for the given format.
func GetExporter(format Format) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownExporter{}, nil
	case FormatPDF:
		return &PDFExporter{}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// GenerateFilename creates a filename for the export.
func GenerateFilename(session *core.Session, ext string) string {
	topic := session.Topic
	if len(topic) > 50 {
		topic = topic[:50]
	}

	replacer := strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	topic = strings.ToLower(replacer.Replace(topic))

	return fmt.Sprintf("debate-%s-%s.%s", topic, session.ID[:8], ext)
}
