package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/formatter"
	"github.com/yildizm/ocrsnap/internal/logger"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

// SubmitConfig configures NewSubmitHandler
type SubmitConfig struct {
	Workflow       ocr.Workflow
	Language       ocr.Language
	MaxUploadBytes int64

	// OutputDir receives <name>.txt for every successful file; empty disables
	OutputDir string

	// OnReport is called after every file, successful or not
	OnReport func(report *formatter.Report)
}

// NewSubmitHandler returns a Handler that submits each file through a form
// in file mode.
func NewSubmitHandler(p form.Processor, config SubmitConfig, log *logger.Logger) Handler {
	if log == nil {
		log = logger.Nop()
	}

	return func(ctx context.Context, path string) error {
		f := form.New(form.WithLanguage(config.Language), form.WithLogger(log))
		report := &formatter.Report{
			Source:    path,
			Workflow:  config.Workflow,
			Mode:      form.ModeFile,
			Timestamp: time.Now(),
		}
		if config.Workflow.Translates() {
			report.Language = f.Language()
		}

		img, err := ocr.LoadImage(path, config.MaxUploadBytes)
		if err != nil {
			f.RejectInput(err)
			report.Result = f.Result()
			emit(config, report)
			return err
		}
		report.Image, _ = img.Inspect()
		f.SetImage(img)

		start := time.Now()
		res, err := f.Submit(ctx, p, config.Workflow)
		report.Duration = time.Since(start)
		report.Result = res
		emit(config, report)
		if err != nil {
			return err
		}

		if config.OutputDir != "" {
			out, werr := WriteResult(config.OutputDir, path, res)
			if werr != nil {
				return werr
			}
			log.Debug("result written", logger.F("path", out))
		}
		return nil
	}
}

func emit(config SubmitConfig, report *formatter.Report) {
	if config.OnReport != nil {
		config.OnReport(report)
	}
}

// ResultPath returns <dir>/<name without extension>.txt
func ResultPath(dir, source string) string {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+".txt")
}

// WriteResult writes the recognized text, and the translation when present,
// to the result file for source.
func WriteResult(dir, source string, res form.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var b strings.Builder
	b.WriteString(res.Text)
	b.WriteString("\n")
	if res.Translation != "" {
		b.WriteString("\n")
		b.WriteString(res.Translation)
		b.WriteString("\n")
	}

	path := ResultPath(dir, source)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}
	return path, nil
}
