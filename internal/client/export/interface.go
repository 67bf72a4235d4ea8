// Package export writes the result history in user-facing formats.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
)

// Document is what gets exported: the history, newest first, plus a small
// header.
type Document struct {
	ExportedAt time.Time               `json:"exportedAt" yaml:"exportedAt"`
	Owner      string                  `json:"owner,omitempty" yaml:"owner,omitempty"`
	Count      int                     `json:"count" yaml:"count"`
	Results    []models.AnalysisResult `json:"results" yaml:"results"`
}

// NewDocument builds a Document for results.
func NewDocument(owner string, results []models.AnalysisResult, now time.Time) Document {
	if results == nil {
		results = []models.AnalysisResult{}
	}
	return Document{ExportedAt: now.UTC(), Owner: owner, Count: len(results), Results: results}
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(doc Document, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}
