package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Request is one submission to the OCR service, built from either an
// uploaded image or a remote image URL.
type Request struct {
	Workflow Workflow
	Image    *Image
	URL      string
	Language Language
}

// urlPayload is the JSON body sent in URL mode
type urlPayload struct {
	URL string `json:"url"`
	To  string `json:"to,omitempty"`
}

// NewFileRequest builds a multipart upload request
func NewFileRequest(workflow Workflow, img *Image, lang Language) *Request {
	return &Request{
		Workflow: workflow,
		Image:    img,
		Language: targetFor(workflow, lang),
	}
}

// NewURLRequest builds a JSON request naming a remote image
func NewURLRequest(workflow Workflow, imageURL string, lang Language) *Request {
	return &Request{
		Workflow: workflow,
		URL:      imageURL,
		Language: targetFor(workflow, lang),
	}
}

// targetFor keeps the language only for the translate workflow
func targetFor(workflow Workflow, lang Language) Language {
	if !workflow.Translates() {
		return ""
	}
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// IsUpload reports whether the request carries image bytes
func (r *Request) IsUpload() bool {
	return r.Image != nil
}

// Encode returns the request body and its content type
func (r *Request) Encode() ([]byte, string, error) {
	if r.Image != nil {
		return r.encodeMultipart()
	}
	return r.encodeJSON()
}

func (r *Request) encodeJSON() ([]byte, string, error) {
	payload := urlPayload{URL: r.URL}
	if r.Workflow.Translates() {
		payload.To = string(r.Language)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, "application/json", nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (r *Request) encodeMultipart() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(r.Image.FileName())))
	header.Set("Content-Type", r.Image.ContentType())

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(r.Image.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write image part: %w", err)
	}

	if r.Workflow.Translates() {
		if err := w.WriteField("to", string(r.Language)); err != nil {
			return nil, "", fmt.Errorf("failed to write language field: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
