package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

// sourceLabel describes where the image came from
func sourceLabel(r *Report) string {
	if r.Source == "" {
		return "(none)"
	}
	return r.Source
}

// inputLabel describes the input mode with image details when known
func inputLabel(r *Report) string {
	if r.Mode == form.ModeFile && r.Image != nil {
		return fmt.Sprintf("%s (%s)", r.Mode, r.Image)
	}
	return r.Mode.String()
}

// languageLabel renders a language code with its English name
func languageLabel(code string) string {
	if code == "" {
		return ""
	}
	name := ocr.Language(code).Name()
	if name == code {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

// formatDuration rounds durations for display
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "N/A"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

// formatTimestamp formats report time, empty when unset
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
