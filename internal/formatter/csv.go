package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// csvHeaders are the columns written by the CSV formatter
var csvHeaders = []string{
	"Timestamp",
	"Source",
	"Mode",
	"Workflow",
	"Language",
	"Duration Ms",
	"Status",
	"Text",
	"Translation",
	"Detected Language",
	"Error",
}

// csvFormatter formats a submission as a CSV row
type csvFormatter struct {
	header bool
}

// NewCSV creates a new CSV formatter that writes a header row
func NewCSV() Formatter {
	return &csvFormatter{header: true}
}

// NewCSVRows creates a CSV formatter without the header row, for appending
// to an existing file
func NewCSVRows() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if f.header {
		if err := writer.Write(csvHeaders); err != nil {
			return nil, fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	status := "success"
	if report.Failed() {
		status = "failed"
	}

	record := []string{
		formatTimestamp(report.Timestamp),
		report.Source,
		report.Mode.String(),
		report.Workflow.String(),
		string(report.Language),
		fmt.Sprintf("%d", report.Duration.Milliseconds()),
		status,
		escapeCSVString(report.Result.Text),
		escapeCSVString(report.Result.Translation),
		report.Result.DetectedLanguage,
		escapeCSVString(report.Result.Error),
	}

	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// escapeCSVString flattens line breaks so each submission stays on one row
func escapeCSVString(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " / ")
	return strings.ReplaceAll(s, "\n", " / ")
}
