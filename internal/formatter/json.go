package formatter

import (
	"encoding/json"
	"time"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	output := &JSONOutput{
		Submission: &SubmissionOutput{
			Source:   report.Source,
			Mode:     report.Mode.String(),
			Workflow: report.Workflow.String(),
			Language: string(report.Language),
		},
		Success: !report.Failed(),
	}
	if !report.Timestamp.IsZero() {
		ts := report.Timestamp
		output.Submission.Timestamp = &ts
	}
	if report.Duration > 0 {
		output.Submission.DurationMs = report.Duration.Milliseconds()
	}
	if report.Image != nil {
		output.Image = &ImageOutput{
			Format:      report.Image.Format,
			Width:       report.Image.Width,
			Height:      report.Image.Height,
			Size:        report.Image.Size,
			ContentType: report.Image.ContentType,
		}
	}

	if report.Failed() {
		output.Error = report.Result.Error
	} else {
		output.Text = report.Result.Text
		if report.Workflow.Translates() {
			output.Translation = report.Result.Translation
			output.DetectedLanguage = report.Result.DetectedLanguage
		}
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput is the JSON document for one submission
type JSONOutput struct {
	Submission       *SubmissionOutput `json:"submission"`
	Image            *ImageOutput      `json:"image,omitempty"`
	Success          bool              `json:"success"`
	Text             string            `json:"text,omitempty"`
	Translation      string            `json:"translation,omitempty"`
	DetectedLanguage string            `json:"detected_language,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// SubmissionOutput describes what was sent
type SubmissionOutput struct {
	Source     string     `json:"source"`
	Mode       string     `json:"mode"`
	Workflow   string     `json:"workflow"`
	Language   string     `json:"language,omitempty"`
	DurationMs int64      `json:"duration_ms,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// ImageOutput describes an uploaded image
type ImageOutput struct {
	Format      string `json:"format,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
}
