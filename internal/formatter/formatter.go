package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Report is one finished submission as shown to the user
type Report struct {
	// Source is the file path or URL that was submitted
	Source string

	Workflow ocr.Workflow
	Mode     form.InputMode

	// Language is the translate target; empty for plain OCR
	Language ocr.Language

	// Image is set for file-mode submissions
	Image *ocr.ImageInfo

	Result    form.Result
	Duration  time.Duration
	Timestamp time.Time
}

// Failed reports whether the submission ended in an error
func (r *Report) Failed() bool {
	return r.Result.Error != ""
}

// New returns the formatter for the named output format
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, markdown, csv)", format)
	}
}
