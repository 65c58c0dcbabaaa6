package ocr

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the hosted OCR service the form talks to
const DefaultBaseURL = "https://juanocrflaskocr123.azurewebsites.net/api"

// Placeholders substituted when the service omits a field
const (
	PlaceholderNoText        = "could not extract text"
	PlaceholderNoTranslation = "could not translate"
)

// Workflow selects the endpoint and the request/response shape
type Workflow int

const (
	// WorkflowOCR extracts text only
	WorkflowOCR Workflow = iota
	// WorkflowTranslate extracts text and translates it to a target language
	WorkflowTranslate
)

// String returns the workflow name, which is also its endpoint path segment
func (w Workflow) String() string {
	switch w {
	case WorkflowOCR:
		return "ocr"
	case WorkflowTranslate:
		return "ocr-translate"
	default:
		return fmt.Sprintf("workflow(%d)", int(w))
	}
}

// Path returns the sub-path appended to the service base URL
func (w Workflow) Path() string {
	return "/" + w.String()
}

// Translates reports whether the workflow sends and expects translation fields
func (w Workflow) Translates() bool {
	return w == WorkflowTranslate
}

// ParseWorkflow parses a workflow name ("ocr", "translate" or "ocr-translate")
func ParseWorkflow(s string) (Workflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ocr", "":
		return WorkflowOCR, nil
	case "translate", "ocr-translate", "ocr+translate":
		return WorkflowTranslate, nil
	default:
		return WorkflowOCR, fmt.Errorf("unknown workflow: %s (must be one of: ocr, translate)", s)
	}
}

// Result is a successfully parsed service response
type Result struct {
	Workflow         Workflow `json:"workflow"`
	Text             string   `json:"text"`
	Translation      string   `json:"translation,omitempty"`
	DetectedLanguage string   `json:"detected_language,omitempty"`
}
