package formatter

import (
	"fmt"
	"strings"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# OCR Report\n\n")
	if ts := formatTimestamp(report.Timestamp); ts != "" {
		fmt.Fprintf(&b, "Generated: %s\n\n", ts)
	}

	f.writeSummaryTable(&b, report)

	if report.Failed() {
		b.WriteString("## Error\n\n")
		b.WriteString("> " + report.Result.Error + "\n")
		return []byte(b.String()), nil
	}

	b.WriteString("## Extracted Text\n\n")
	writeFenced(&b, report.Result.Text)

	if report.Workflow.Translates() {
		b.WriteString("## Translation\n\n")
		writeFenced(&b, report.Result.Translation)
		if report.Result.DetectedLanguage != "" {
			fmt.Fprintf(&b, "**Detected language:** %s\n", languageLabel(report.Result.DetectedLanguage))
		}
	}

	return []byte(b.String()), nil
}

// writeSummaryTable writes the submission details table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *Report) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| Source | %s |\n", escapeTableCell(sourceLabel(report)))
	fmt.Fprintf(b, "| Input | %s |\n", escapeTableCell(inputLabel(report)))
	fmt.Fprintf(b, "| Workflow | %s |\n", report.Workflow)
	if report.Workflow.Translates() && report.Language != "" {
		fmt.Fprintf(b, "| Target | %s |\n", languageLabel(string(report.Language)))
	}
	fmt.Fprintf(b, "| Duration | %s |\n", formatDuration(report.Duration))
	status := "success"
	if report.Failed() {
		status = "failed"
	}
	fmt.Fprintf(b, "| Status | %s |\n\n", status)
}

// writeFenced writes text inside a code fence long enough to contain it
func writeFenced(b *strings.Builder, text string) {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	b.WriteString(fence + "\n" + text + "\n" + fence + "\n\n")
}

// escapeTableCell keeps pipes and newlines from breaking table rows
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
