package ocr

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Response field names used by the service
const (
	fieldText             = "texto"
	fieldExtractedText    = "texto_extraido"
	fieldTranslatedText   = "texto_traducido"
	fieldDetectedLanguage = "idioma_detectado"
	fieldError            = "error"
)

var errNullBody = errors.New("response body is null")

// DecodeResult parses a 2xx response body for the given workflow
func DecodeResult(workflow Workflow, body []byte) (*Result, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	result := &Result{Workflow: workflow}
	if workflow.Translates() {
		result.Text = normalizeText(fields[fieldExtractedText], PlaceholderNoText)
		result.Translation = scalarText(fields[fieldTranslatedText], PlaceholderNoTranslation)
		result.DetectedLanguage = scalarText(fields[fieldDetectedLanguage], "")
	} else {
		result.Text = normalizeText(fields[fieldText], PlaceholderNoText)
	}
	return result, nil
}

// decodeErrorMessage extracts the "error" field of a failure body. Bodies
// that are not JSON objects yield an empty message.
func decodeErrorMessage(body []byte) string {
	fields, err := decodeObject(body)
	if err != nil {
		return ""
	}
	return scalarText(fields[fieldError], "")
}

// decodeObject returns the top-level fields of a JSON body. Valid JSON that
// is not an object has no fields; invalid JSON and null are errors.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if isNull(trimmed) {
		return nil, errNullBody
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		return fields, nil
	}

	if !json.Valid(trimmed) {
		var v any
		return nil, json.Unmarshal(trimmed, &v)
	}
	return map[string]json.RawMessage{}, nil
}

// normalizeText handles the dual shape of the extracted text: an array of
// lines is joined with newlines, anything else is treated as a scalar.
func normalizeText(raw json.RawMessage, placeholder string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			lines := make([]string, 0, len(items))
			for _, item := range items {
				lines = append(lines, elementText(item))
			}
			return strings.Join(lines, "\n")
		}
	}
	return scalarText(trimmed, placeholder)
}

// scalarText returns the string form of a value, or placeholder when the
// value is absent, null, an empty string, false or zero.
func scalarText(raw json.RawMessage, placeholder string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return placeholder
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if s == "" {
			return placeholder
		}
		return s
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return placeholder
	}
	switch x := v.(type) {
	case bool:
		if !x {
			return placeholder
		}
	case float64:
		if x == 0 {
			return placeholder
		}
	}
	return string(trimmed)
}

// elementText renders one array element: strings verbatim, null as empty
func elementText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

func isNull(b []byte) bool {
	return string(b) == "null"
}
