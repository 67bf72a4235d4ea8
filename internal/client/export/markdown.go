package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
)

// MarkdownExporter exports the history as a Markdown table
type MarkdownExporter struct{}

// Export writes doc as Markdown
func (e *MarkdownExporter) Export(doc Document, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# VisionAQ analysis history\n\n")
	if doc.Owner != "" {
		fmt.Fprintf(&b, "**Owner:** %s  \n", escapeCell(doc.Owner))
	}
	fmt.Fprintf(&b, "**Exported:** %s  \n", doc.ExportedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Results:** %d\n\n", doc.Count)

	if len(doc.Results) == 0 {
		b.WriteString("_No analyses yet._\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("| Date | AQI | Category | Haze | Status | ID |\n")
	b.WriteString("|---|---:|---|---|---|---|\n")
	for _, r := range doc.Results {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | `%s` |\n",
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			r.AQI,
			escapeCell(r.Category),
			r.HazeLevel,
			models.BandFor(r.AQI).Status,
			r.ID,
		)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeCell keeps user-supplied text from breaking the table
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
