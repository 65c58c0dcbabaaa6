package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/ocrsnap/internal/emoji"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, report)
	f.writeSubmission(&b, report)

	if report.Failed() {
		f.writeError(&b, report)
		return []byte(b.String()), nil
	}

	f.writeText(&b, report)
	if report.Workflow.Translates() {
		f.writeTranslation(&b, report)
	}

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder, report *Report) {
	header := "OCR Result"
	if report.Workflow.Translates() {
		header = "OCR + Translation Result"
	}
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeSubmission writes the submission details as a tree
func (f *terminalFormatter) writeSubmission(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	if symbol == "" {
		symbol = emoji.GetEmoji("stats")
	}
	b.WriteString(symbol + " Submission\n")

	items := []termfmt.TreeItem{
		{Label: "Source", Value: sourceLabel(report)},
		{Label: "Input", Value: inputLabel(report)},
		{Label: "Workflow", Value: report.Workflow.String()},
	}
	if report.Workflow.Translates() && report.Language != "" {
		items = append(items, termfmt.TreeItem{Label: "Target", Value: languageLabel(string(report.Language))})
	}
	items = append(items, termfmt.TreeItem{Label: "Duration", Value: formatDuration(report.Duration), Last: true})

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeText writes the extracted text block
func (f *terminalFormatter) writeText(b *strings.Builder, report *Report) {
	fmt.Fprintf(b, "%s Extracted Text\n", emoji.GetEmoji("ocr"))
	b.WriteString(strings.Repeat("─", 50) + "\n")
	b.WriteString(report.Result.Text + "\n\n")
}

// writeTranslation writes the translation block. The detected language is
// only ever shown here.
func (f *terminalFormatter) writeTranslation(b *strings.Builder, report *Report) {
	fmt.Fprintf(b, "%s Translation\n", emoji.GetEmoji("translate"))
	b.WriteString(strings.Repeat("─", 50) + "\n")
	b.WriteString(report.Result.Translation + "\n")

	if report.Result.DetectedLanguage != "" {
		items := []termfmt.TreeItem{
			{Label: "Detected language", Value: languageLabel(report.Result.DetectedLanguage), Last: true},
		}
		b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
	}
	b.WriteString("\n")
}

// writeError writes the error slot
func (f *terminalFormatter) writeError(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("error", f.opts)
	if symbol == "" {
		symbol = emoji.GetEmoji("error")
	}
	fmt.Fprintf(b, "%s Error\n", symbol)
	b.WriteString(report.Result.Error + "\n")
}
