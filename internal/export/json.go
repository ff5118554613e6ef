package export

import (
	"encoding/json"
	"io"

	"github.com/ssmithers/aidebate/internal/core"
)

// JSONExporter exports debate sessions as their raw session document.
type JSONExporter struct{}

// Export writes the session as indented JSON.
func (e *JSONExporter) Export(session *core.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(session)
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return "json"
}
